package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mockup-compositor/internal/api"
	"mockup-compositor/internal/batch"
	"mockup-compositor/internal/brand"
	"mockup-compositor/internal/composite"
	"mockup-compositor/internal/config"
	"mockup-compositor/internal/mockup"
	"mockup-compositor/internal/zone"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	dirs, err := brand.LoadAll(cfg.DirectionsDir)
	if err != nil {
		logger.Warn("some directions failed to load", "err", err)
	}

	templates, err := batch.DiscoverTemplates(cfg.TemplatesDir)
	if err != nil {
		logger.Warn("template discovery failed", "err", err)
	}

	tf, err := loadTypeface(cfg)
	if err != nil {
		panic(err)
	}

	studio, err := mockup.NewStudio(mockup.StudioOptions{
		Typeface:     tf,
		SampleBorder: cfg.SampleBorder,
		Logger:       logger,
	})
	if err != nil {
		panic(err)
	}
	registry := mockup.DefaultRegistry(studio)

	detector := zone.NewDetector(cfg.ZoneOptions())
	cache, err := zone.NewCache(detector, cfg.MaskCacheSize)
	if err != nil {
		panic(err)
	}

	orch, err := batch.New(batch.Options{
		Detector:  detector,
		Cache:     cache,
		Registry:  registry,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.MaxConcurrent,
		Logger:    logger,
	})
	if err != nil {
		panic(err)
	}

	router := api.NewRouter(api.Options{
		Orchestrator: orch,
		Registry:     registry,
		Directions:   dirs,
		Templates:    templates,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("web started", "addr", cfg.WebAddr, "directions", len(dirs), "templates", len(templates))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
	}
}

func loadTypeface(cfg config.Config) (*composite.Typeface, error) {
	if cfg.FontPath == "" {
		return composite.DefaultTypeface()
	}
	return composite.LoadTypeface(cfg.FontPath)
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

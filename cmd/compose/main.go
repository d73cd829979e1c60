package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"mockup-compositor/internal/batch"
	"mockup-compositor/internal/brand"
	"mockup-compositor/internal/composite"
	"mockup-compositor/internal/config"
	"mockup-compositor/internal/mockup"
	"mockup-compositor/internal/telegram"
	"mockup-compositor/internal/zone"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dirs, err := brand.LoadAll(cfg.DirectionsDir)
	if err != nil {
		// bundles that loaded are still worth compositing
		logger.Warn("some directions failed to load", "err", err)
	}
	if len(dirs) == 0 {
		logger.Error("no directions to composite", "dir", cfg.DirectionsDir)
		os.Exit(1)
	}

	templates, err := batch.DiscoverTemplates(cfg.TemplatesDir)
	if err != nil {
		logger.Error("template discovery failed", "err", err)
		os.Exit(1)
	}

	typeface, err := loadTypeface(cfg)
	if err != nil {
		logger.Error("font load failed", "err", err)
		os.Exit(1)
	}

	studio, err := mockup.NewStudio(mockup.StudioOptions{
		Typeface:     typeface,
		SampleBorder: cfg.SampleBorder,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("studio init failed", "err", err)
		os.Exit(1)
	}

	detector := zone.NewDetector(cfg.ZoneOptions())
	cache, err := zone.NewCache(detector, cfg.MaskCacheSize)
	if err != nil {
		logger.Error("mask cache init failed", "err", err)
		os.Exit(1)
	}

	var manifest *zone.Manifest
	if cfg.WriteManifest {
		manifest = zone.NewManifest(detector)
	}

	orch, err := batch.New(batch.Options{
		Detector:  detector,
		Cache:     cache,
		Registry:  mockup.DefaultRegistry(studio),
		Manifest:  manifest,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.MaxConcurrent,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("orchestrator init failed", "err", err)
		os.Exit(1)
	}

	results := orch.Run(ctx, dirs, templates)

	if manifest != nil {
		path := filepath.Join(cfg.OutputDir, "zones.json")
		if err := manifest.Write(path); err != nil {
			logger.Error("manifest write failed", "path", path, "err", err)
		}
	}

	if cfg.DeliveryEnabled() && ctx.Err() == nil {
		if err := deliver(cfg, logger, dirs, results); err != nil {
			logger.Error("delivery failed", "err", err)
		}
	}
}

// deliver sends each direction's successful composites as one album.
func deliver(cfg config.Config, logger *slog.Logger, dirs []*brand.Direction, results []batch.Result) error {
	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		Timeout:    cfg.HTTPTimeout,
		PreferIPv4: cfg.PreferIPv4,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		return err
	}

	byDir := make(map[string][]string, len(dirs))
	failed := make(map[string]int, len(dirs))
	for _, r := range results {
		if r.OK() {
			byDir[r.DirectionID] = append(byDir[r.DirectionID], r.Path)
		} else {
			failed[r.DirectionID]++
		}
	}

	for _, d := range dirs {
		paths := byDir[d.ID]
		if len(paths) == 0 {
			continue
		}
		caption := fmt.Sprintf("%s: %d mockups", d.Name, len(paths))
		if n := failed[d.ID]; n > 0 {
			caption += fmt.Sprintf(" (%d failed)", n)
		}
		if err := tg.SendAlbum(cfg.TelegramChatID, caption, paths); err != nil {
			return fmt.Errorf("send album %s: %w", d.ID, err)
		}
		logger.Info("direction delivered", "direction", d.ID, "photos", len(paths))
	}
	return nil
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

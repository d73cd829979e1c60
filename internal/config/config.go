package config

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"mockup-compositor/internal/zone"
)

type Config struct {
	LogLevel string
	Debug    bool

	TemplatesDir  string
	DirectionsDir string
	OutputDir     string
	FontPath      string

	MarkerTolerance int
	MinZonePixels   int
	SampleBorder    int
	MaxConcurrent   int
	MaskCacheSize   int
	WriteManifest   bool

	TelegramToken  string
	TelegramChatID int64
	PreferIPv4     bool
	HTTPTimeout    time.Duration

	WebAddr string
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:        strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:           getEnvBool("DEBUG", false),
		TemplatesDir:    getEnv("TEMPLATES_DIR", "templates"),
		DirectionsDir:   getEnv("DIRECTIONS_DIR", "directions"),
		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		FontPath:        getEnv("FONT_PATH", ""),
		MarkerTolerance: getEnvInt("MARKER_TOLERANCE", zone.DefaultTolerance),
		MinZonePixels:   getEnvInt("MIN_ZONE_PIXELS", zone.DefaultMinPixels),
		SampleBorder:    getEnvInt("SAMPLE_BORDER", 8),
		MaxConcurrent:   getEnvInt("MAX_CONCURRENT", runtime.NumCPU()),
		MaskCacheSize:   getEnvInt("MASK_CACHE_SIZE", 128),
		WriteManifest:   getEnvBool("WRITE_MANIFEST", true),
		PreferIPv4:      getEnvBool("PREFER_IPV4", true),
		HTTPTimeout:     time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,
		WebAddr:         getEnv("WEB_ADDR", ":8080"),
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if cfg.TelegramToken != "" {
		raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
		if raw == "" {
			return Config{}, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, errors.New("TELEGRAM_CHAT_ID must be an integer")
		}
		cfg.TelegramChatID = id
	}

	if cfg.MarkerTolerance < 0 {
		cfg.MarkerTolerance = zone.DefaultTolerance
	}
	if cfg.MinZonePixels < 1 {
		cfg.MinZonePixels = zone.DefaultMinPixels
	}
	if cfg.SampleBorder < 1 {
		cfg.SampleBorder = 8
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaskCacheSize < 1 {
		cfg.MaskCacheSize = 128
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}

	return cfg, nil
}

// DeliveryEnabled reports whether finished composites go to Telegram.
func (c Config) DeliveryEnabled() bool {
	return c.TelegramToken != ""
}

func (c Config) ZoneOptions() zone.Options {
	return zone.Options{
		Markers:   zone.DefaultMarkers(),
		Tolerance: c.MarkerTolerance,
		MinPixels: c.MinZonePixels,
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

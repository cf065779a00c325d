package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset sources, resolved relative to DataDir.
	DataDir     string
	GeoDataFile string
	OpsDataFile string

	// Presentation settings.
	MapStyle    string
	ChartWidth  int
	ChartHeight int
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first; variables already set in the
// process environment take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	chartWidth, err := parsePositiveInt("CHART_WIDTH", 800)
	if err != nil {
		return nil, err
	}
	chartHeight, err := parsePositiveInt("CHART_HEIGHT", 400)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:     sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		GeoDataFile: sharedcfg.EnvOrDefault("GEO_DATA_FILE", "GeoData.csv"),
		OpsDataFile: sharedcfg.EnvOrDefault("OPS_DATA_FILE", "KoreanWarOps.csv"),

		MapStyle:    sharedcfg.EnvOrDefault("MAP_STYLE", "light"),
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.GeoDataFile == "" {
		return nil, errors.New("GEO_DATA_FILE is required")
	}
	if cfg.OpsDataFile == "" {
		return nil, errors.New("OPS_DATA_FILE is required")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}

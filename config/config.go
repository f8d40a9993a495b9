package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Defaults for configuration values.
const (
	DefaultGridSize      = 3000
	DefaultScaleFactor   = 1.0
	DefaultMaxIterations = 20000
	DefaultInitialDF     = 4.0
	DefaultHistogramBins = 50
	DefaultLogLevel      = "info"
)

// Config holds the analysis settings shared by every subcommand. Command
// line flags default to these values.
type Config struct {
	GridSize      int
	ScaleFactor   float64
	Workers       int
	MaxIterations int
	InitialDF     float64
	HistogramBins int
	SkipFailed    bool
	LogLevel      string
	DBPath        string // empty: no fit store
}

// Load reads configuration from environment variables (and .env file if present).
func Load() Config {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Config{
		GridSize:      DefaultGridSize,
		ScaleFactor:   DefaultScaleFactor,
		Workers:       runtime.NumCPU(),
		MaxIterations: DefaultMaxIterations,
		InitialDF:     DefaultInitialDF,
		HistogramBins: DefaultHistogramBins,
		SkipFailed:    os.Getenv("CCAL_SKIP_FAILED") == "true",
		LogLevel:      DefaultLogLevel,
		DBPath:        os.Getenv("CCAL_DB_PATH"),
	}

	if v := os.Getenv("CCAL_GRID_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GridSize = n
		}
	}

	if v := os.Getenv("CCAL_SCALE_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ScaleFactor = f
		}
	}

	if v := os.Getenv("CCAL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}

	if v := os.Getenv("CCAL_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxIterations = n
		}
	}

	if v := os.Getenv("CCAL_INITIAL_DF"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.InitialDF = f
		}
	}

	if v := os.Getenv("CCAL_HISTOGRAM_BINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HistogramBins = n
		}
	}

	if v := os.Getenv("CCAL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.GridSize < 2 {
		return fmt.Errorf("CCAL_GRID_SIZE must be at least 2, got %d", cfg.GridSize)
	}
	if cfg.ScaleFactor == 0 {
		return fmt.Errorf("CCAL_SCALE_FACTOR must be non-zero")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("CCAL_WORKERS must be positive, got %d", cfg.Workers)
	}
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("CCAL_MAX_ITERATIONS must be positive, got %d", cfg.MaxIterations)
	}
	if cfg.InitialDF <= 0 {
		return fmt.Errorf("CCAL_INITIAL_DF must be positive, got %f", cfg.InitialDF)
	}
	if cfg.HistogramBins < 1 {
		return fmt.Errorf("CCAL_HISTOGRAM_BINS must be positive, got %d", cfg.HistogramBins)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("CCAL_LOG_LEVEL: %w", err)
	}
	return nil
}

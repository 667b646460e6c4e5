package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"lowlight-enhancer/internal/logger"

	"github.com/rs/zerolog"
)

const (
	DefaultJPEGQuality = 95
	DefaultBackend     = "native"
	DefaultOutputDir   = "."
)

// Config holds settings of the application shell. The enhancement
// parameters themselves are constants and do not appear here.
type Config struct {
	OutputDir   string
	Compare     bool
	Backend     string
	Workers     int
	JPEGQuality int
	LogLevel    zerolog.Level
}

func Default() Config {
	return Config{
		OutputDir:   DefaultOutputDir,
		Compare:     false,
		Backend:     DefaultBackend,
		Workers:     runtime.GOMAXPROCS(0),
		JPEGQuality: DefaultJPEGQuality,
		LogLevel:    zerolog.InfoLevel,
	}
}

// FromEnv starts from Default and applies LOG_LEVEL, LOWLIGHT_DEBUG_ALL and
// LOWLIGHT_WORKERS.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	level, _ := lookup("LOG_LEVEL")
	debugAll, _ := lookup("LOWLIGHT_DEBUG_ALL")
	cfg.LogLevel = logger.ParseLevel(level, debugAll == "true")

	if raw, ok := lookup("LOWLIGHT_WORKERS"); ok && raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("LOWLIGHT_WORKERS: %w", err)
		}
		cfg.Workers = workers
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.Backend == "" {
		return fmt.Errorf("backend must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	return nil
}

package env

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files. ENV_PATH, when
// set, replaces the default paths. Missing files are an error only in local
// mode (env "local" or empty).
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := defaultPaths
	if p := os.Getenv("ENV_PATH"); p != "" {
		paths = []string{p}
	} else {
		slog.Debug("ENV_PATH is not set, using default paths", "defaultPaths", defaultPaths)
	}

	var errs []error
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}

	if env == "local" || env == "" {
		err := errors.Join(errs...)
		slog.Warn("Failed to load environment variables in local mode", "error", err)
		return err
	}
	slog.Debug("Skipping .env ...")
	return nil
}

// LogLevel parses LOG_LEVEL (debug, info, warn, error). Unknown values give info.
func LogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

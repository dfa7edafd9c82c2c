package server

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/pkg/config/env"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/stringsutil"
)

const (
	defaultEnvPath         = "cmd/admission_api/.env"
	defaultPort            = 8080
	defaultShutdownTimeout = 10 * time.Second
	defaultBodyLimit       = "2M"
)

type Config struct {
	Port            string
	UseHttp2        bool
	CorsOrigins     []string
	BodyLimit       string
	ShutdownTimeout time.Duration
}

// LoadConfig reads the server settings from the environment after loading
// the admission API .env file.
func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(os.Getenv("ENV"), defaultEnvPath); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	port, err := intEnv("PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid port: must be between 1 and 65535, got %d", port)
	}

	shutdownSecs, err := intEnv("SHUTDOWN_TIMEOUT_SECONDS", int(defaultShutdownTimeout/time.Second))
	if err != nil {
		return nil, err
	}

	origins := stringsutil.SplitTrim(os.Getenv("CORS_ORIGINS"), ",")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	bodyLimit := os.Getenv("BODY_LIMIT")
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}

	return &Config{
		Port:            strconv.Itoa(port),
		UseHttp2:        os.Getenv("USE_HTTP2") == "true",
		CorsOrigins:     origins,
		BodyLimit:       bodyLimit,
		ShutdownTimeout: time.Duration(shutdownSecs) * time.Second,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", key, v)
	}
	return n, nil
}

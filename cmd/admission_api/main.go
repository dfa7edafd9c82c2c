package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/admission"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/api/server"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/judge"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/router"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/factory"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/config/env"
	pkgserver "github.com/DjordjeVuckovic/mcqa-filter/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(env.LogLevel())

	rs, err := rules.Resolve(os.Getenv("RULES_PATH"), os.Getenv("RULES_PRESET"))
	if err != nil {
		slog.Error("Failed to load rule set", "error", err)
		os.Exit(1)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	judgeCfg, err := judge.LoadEnv()
	if err != nil {
		slog.Error("Failed to load judge configuration", "error", err)
		os.Exit(1)
	}

	var checkers []pkgserver.HealthChecker
	s := server.New(sCfg, nil)

	audit, err := factory.NewAuditStore(s.Context(), *storageCfg)
	if err != nil {
		slog.Error("Failed to create audit store", "error", err)
		os.Exit(1)
	}
	defer audit.Close()
	if hc, ok := audit.(pkgserver.HealthChecker); ok {
		checkers = append(checkers, hc)
	}

	j, err := judge.New(s.Context(), judgeCfg)
	if err != nil {
		slog.Error("Failed to create judge", "error", err)
		os.Exit(1)
	}

	s = s.WithHealthChecker(pkgserver.NewCompositeHealthChecker(checkers...)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "MCQA admission API is running")
	})

	router.NewAdmissionRouter(
		s.Echo,
		admission.NewEngine(rs),
		router.WithJudge(j),
		router.WithAuditStore(audit),
	).Bind()

	slog.Info("Admission API configured",
		"rules", rs.Name,
		"judge", judgeCfg.Provider,
		"audit_storage", storageCfg.Type)

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

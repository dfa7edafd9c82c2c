package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/apperr"
	pkgserver "github.com/DjordjeVuckovic/mcqa-filter/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downChecker struct{}

func (downChecker) Healthy(context.Context) bool { return false }

func newTestServer(hc pkgserver.HealthChecker) *Server {
	return New(&Config{Port: "8080", CorsOrigins: []string{"*"}, BodyLimit: "1K", ShutdownTimeout: time.Second}, hc).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name string
		hc   pkgserver.HealthChecker
		want int
	}{
		{name: "ok", hc: pkgserver.NewOkHealthChecker(), want: http.StatusOK},
		{name: "down", hc: downChecker{}, want: http.StatusServiceUnavailable},
		{name: "no checker", hc: nil, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.hc)
			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestErrorHandlerMapsTypedErrors(t *testing.T) {
	s := newTestServer(nil)
	s.Echo.GET("/invalid", func(c echo.Context) error {
		return apperr.NewValidation("response is required")
	})
	s.Echo.GET("/panic", func(c echo.Context) error {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invalid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "response is required")

	rec = httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(nil)
	s.Echo.POST("/echo", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 2048))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("ENV_PATH", "/nonexistent/.env")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("BODY_LIMIT", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
	assert.Equal(t, defaultBodyLimit, cfg.BodyLimit)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)

	t.Setenv("PORT", "70000")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "http")
	_, err = LoadConfig()
	assert.Error(t, err)
}

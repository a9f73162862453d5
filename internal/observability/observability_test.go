package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/transport-site/internal/config"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/api/auth/login", "POST", 200, time.Millisecond)
		m.RecordError("/api/auth/login", "POST", "UNAUTHORIZED")
		m.RecordAuth("login", "rejected")
	})
	assert.NotNil(t, m.Handler())
}

func TestMetricsRecordAndExpose(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/auth/login", "POST", 401, 20*time.Millisecond)
	m.RecordError("/api/auth/login", "POST", "UNAUTHORIZED")
	m.RecordAuth("login", "rejected")
	m.RecordAuth("login", "rejected")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/auth/login", "POST", "401")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.authTotal.WithLabelValues("login", "rejected")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `transport_site_http_errors_total{code="UNAUTHORIZED",method="POST",route="/api/auth/login"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewMetrics()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(RequestIDKey, "req-123")
		return c.Next()
	})
	app.Use(RequestLogger(zap.New(core), m))
	app.Post("/login", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).SendString("nope")
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"hunter22"}`))
	resp, err := app.Test(req)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/login", fields["path"])
	assert.Equal(t, int64(401), fields["status"])
	assert.Equal(t, "req-123", fields["request_id"])
	for _, v := range fields {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "hunter22")
		}
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("/login", "POST", "401")))
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"}, "transport-site", "test")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "DEBUG"}, "transport-site", "test")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

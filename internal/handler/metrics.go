package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// Metrics holds all Prometheus collectors for the portal backend.
var Metrics = struct {
	SubmissionsTotal *prometheus.CounterVec
	CaptchaFailures  prometheus.Counter
	RateLimited      prometheus.Counter
	DownloadClicks   prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddl_submissions_total",
			Help: "Total accepted submissions, by type.",
		},
		[]string{"type"},
	)

	Metrics.CaptchaFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ddl_captcha_failures_total",
			Help: "Total failed captcha verifications.",
		},
	)

	Metrics.RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ddl_rate_limited_total",
			Help: "Total submissions refused by the daily quota.",
		},
	)

	Metrics.DownloadClicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ddl_download_clicks_total",
			Help: "Total download click events.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ddl_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ddl_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ddl_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ddl_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.SubmissionsTotal,
		Metrics.CaptchaFailures,
		Metrics.RateLimited,
		Metrics.DownloadClicks,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// observeSubmitError feeds the captcha and quota counters from submission
// pipeline failures.
func observeSubmitError(err error) {
	switch {
	case errors.Is(err, model.ErrCaptchaFailed), errors.Is(err, model.ErrRecaptchaRejected):
		Metrics.CaptchaFailures.Inc()
	case errors.Is(err, model.ErrRateLimitExceeded):
		Metrics.RateLimited.Inc()
	}
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	for _, prefix := range []string{
		"/api/downloads/",
		"/api/sponsored/",
		"/api/admin/submissions/",
		"/api/admin/downloads/",
		"/api/admin/categories/",
		"/api/auth/user/",
	} {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			return prefix + ":id"
		}
	}
	return path
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}

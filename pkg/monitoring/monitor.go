package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SectionCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "learnpath_sections_completed_total",
			Help: "Total number of sections marked complete",
		},
	)

	AchievementUnlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "learnpath_achievements_unlocked_total",
			Help: "Total number of achievements unlocked",
		},
	)

	SaveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_save_failures_total",
			Help: "Progress document save failures by class",
		},
		[]string{"class"},
	)

	LoadOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_document_loads_total",
			Help: "Progress document load attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SectionCompletions)
	prometheus.MustRegister(AchievementUnlocks)
	prometheus.MustRegister(SaveFailures)
	prometheus.MustRegister(LoadOutcomes)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

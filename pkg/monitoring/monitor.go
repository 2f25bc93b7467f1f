package monitoring

import (
	"strconv"
	"sync"
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

	RoundsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_prep_rounds_started_total",
			Help: "Rounds started, by kind",
		},
		[]string{"kind"},
	)

	RoundSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exam_prep_round_size",
			Help:    "Number of questions selected for a round",
			Buckets: []float64{0, 5, 8, 10, 15, 20, 25},
		},
		[]string{"kind"},
	)

	SelectionShortfalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_prep_selection_shortfalls_total",
			Help: "Round starts refused because the pool was too small",
		},
		[]string{"kind"},
	)

	ComfortLevels = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_prep_comfort_levels_total",
			Help: "Concept comfort levels written after completed rounds",
		},
		[]string{"kind", "level"},
	)

	GenerationJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_prep_generation_jobs_total",
			Help: "Question generation jobs, by final status",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(RoundsStarted)
		prometheus.MustRegister(RoundSize)
		prometheus.MustRegister(SelectionShortfalls)
		prometheus.MustRegister(ComfortLevels)
		prometheus.MustRegister(GenerationJobs)
	})
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

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

	// 业务指标
	ActiveUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "elearning_active_users",
		Help: "Distinct users with a completion inside the activity window",
	})

	InteractionsPerUser = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "elearning_interactions_per_user",
		Help: "Completions per active user inside the activity window",
	})

	RetentionRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "elearning_retention_rate",
		Help: "Percentage of users with progress that are still active",
	})

	ContentCompletions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elearning_content_completions_total",
		Help: "Content items marked as completed",
	})

	Enrollments = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elearning_enrollments_total",
		Help: "Course enrollments created",
	})

	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elearning_notification_emails_total",
			Help: "Notification emails by delivery result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init 注册全部指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ActiveUsers,
			InteractionsPerUser,
			RetentionRate,
			ContentCompletions,
			Enrollments,
			EmailsSent,
		)
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

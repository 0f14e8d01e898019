package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	BookingsSubmitted  *prometheus.CounterVec
	ReturningCustomers prometheus.Counter
	Notifications      *prometheus.CounterVec
	Logins             *prometheus.CounterVec
}

// New registers the collectors on reg under the given namespace.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		BookingsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_submitted_total",
			Help:      "Total number of booking submissions by persistence result",
		}, []string{"result"}),

		ReturningCustomers: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returning_customer_bookings_total",
			Help:      "Total number of bookings submitted by returning customers",
		}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of outbound notification attempts",
		}, []string{"channel", "kind", "status"}),

		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of staff login attempts",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncBooking(result string) {
	if m == nil {
		return
	}
	m.BookingsSubmitted.WithLabelValues(result).Inc()
}

func (m *Metrics) IncReturningCustomer() {
	if m == nil {
		return
	}
	m.ReturningCustomers.Inc()
}

func (m *Metrics) IncNotification(channel, kind, status string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(channel, kind, status).Inc()
}

func (m *Metrics) IncLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

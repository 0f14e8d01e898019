package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New("test", reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/bookings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/bookings/1", "/api/bookings/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/bookings/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestCounters(t *testing.T) {
	m := New("test", prometheus.NewRegistry())
	m.IncBooking("persisted")
	m.IncReturningCustomer()
	m.IncNotification("whatsapp", "admin_alert", "sent")
	m.IncLogin("rejected")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsSubmitted.WithLabelValues("persisted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReturningCustomers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("whatsapp", "admin_alert", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("rejected")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncBooking("failed")
	m.IncLogin("success")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

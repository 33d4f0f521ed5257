package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mc := NewMetricsCollector("go-leave", "test")

	r := gin.New()
	r.Use(mc.MetricsMiddleware())
	r.GET("/leaves/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", mc.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leaves/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leaves/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(mc.httpRequestsTotal.WithLabelValues("GET", "/leaves/:id", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_leave_http_requests_total")
}

func TestLeaveMetrics(t *testing.T) {
	mc := NewMetricsCollector("go-leave", "test")
	m := NewLeaveMetrics(mc)

	m.ObserveTransition("approve", ResultOK)
	m.ObserveTransition("approve", ResultRejected)
	m.ObserveTransition("approve", ResultOK)
	m.ObservePosting("REQUEST")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("approve", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerPostings.WithLabelValues("REQUEST")))

	var nilMetrics *LeaveMetrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveTransition("approve", ResultOK)
		nilMetrics.ObservePosting("GRANT")
	})
}

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mocardapio-api/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "/orders/:id", "204")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mocardapio_http_requests_total")
}

func TestLifecycleCounters(t *testing.T) {
	m := metrics.New()
	m.ObserveCreated()
	m.ObserveTransition("ready", "delivering", "courier")
	m.ObserveClaim(metrics.ClaimWon)
	m.ObserveClaim(metrics.ClaimConflict)
	m.ObserveClaim(metrics.ClaimConflict)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderTransitions.WithLabelValues("ready", "delivering", "courier")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Claims.WithLabelValues(metrics.ClaimConflict)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveCreated()
		m.ObserveTransition("a", "b", "c")
		m.ObserveClaim(metrics.ClaimWon)
	})
}

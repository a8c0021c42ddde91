package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.RequestsTotal.WithLabelValues("GET", "/api/v1/metrics", "200").Inc()
	m.RequestDuration.WithLabelValues("GET", "/api/v1/metrics").Observe(0.01)
	m.PredictionsTotal.WithLabelValues("2").Inc()
	m.PredictionsTotal.WithLabelValues("2").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `airmod_http_requests_total{method="GET",path="/api/v1/metrics",status="200"} 1`)
	assert.Contains(t, body, `airmod_predictions_total{cluster="2"} 2`)
	assert.Contains(t, body, "airmod_http_request_duration_seconds_bucket")
}

func TestMetrics_IsolatedRegistries(t *testing.T) {
	a := New()
	b := New()
	a.PredictionsTotal.WithLabelValues("0").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, req)
	assert.NotContains(t, w.Body.String(), `airmod_predictions_total{cluster="0"} 1`)
}

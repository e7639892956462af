package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counts(t *testing.T) {
	c := New()

	c.RecordClassification("symptoms", "high")
	c.RecordClassification("symptoms", "high")
	c.RecordClassification("mood", "low")
	c.RecordDoctorAlert(nil)
	c.RecordDoctorAlert(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Classifications.WithLabelValues("symptoms", "high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Classifications.WithLabelValues("mood", "low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DoctorAlerts.WithLabelValues("failed")))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordClassification("mood", "low")
		c.RecordDoctorAlert(nil)
		c.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.RecordHTTPRequest("POST", "/api/triage/symptoms", 200, 10*time.Millisecond)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "health_triage_http_requests_total")
}

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-triage/internal/healthlog"
	"health-triage/internal/metrics"
	"health-triage/internal/triage"
)

type nopRepo struct{ healthlog.Repository }

func newTestRouter(d Deps) http.Handler {
	if d.Healthlog == nil {
		d.Healthlog = healthlog.NewHandler(healthlog.NewService(nopRepo{}, triage.Rules{}))
	}
	return NewRouter(d)
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(newTestRouter(Deps{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	w := serve(newTestRouter(Deps{}), http.MethodOptions, "/api/triage/symptoms", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAnonymousTriageRoute(t *testing.T) {
	w := serve(newTestRouter(Deps{}), http.MethodPost, "/api/triage/symptoms", `{"text":"fever and headache"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Viral Fever")
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(Deps{RateLimit: 0.001, RateBurst: 2})

	for i := 0; i < 2; i++ {
		w := serve(h, http.MethodPost, "/api/triage/mood", `{"text":"a calm day"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(h, http.MethodPost, "/api/triage/mood", `{"text":"a calm day"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	w = serve(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code, "health checks are not rate limited")
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	h := newTestRouter(Deps{Metrics: m})

	serve(h, http.MethodPost, "/api/triage/symptoms", `{"text":"cough"}`)
	w := serve(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/triage/symptoms"`)
}

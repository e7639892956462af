package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"health-triage/internal/copilot"
	"health-triage/internal/healthlog"
	"health-triage/internal/httpx"
	"health-triage/internal/metrics"
	"health-triage/internal/report"
	"health-triage/internal/vaccine"
)

const shutdownTimeout = 15 * time.Second

// Deps are the handlers and shared infrastructure the router is built from.
// A nil handler leaves its routes unregistered.
type Deps struct {
	Healthlog *healthlog.Handler
	Copilot   *copilot.Handler
	Vaccine   *vaccine.Handler
	Report    *report.Handler
	Metrics   *metrics.Collector

	RateLimit float64
	RateBurst int
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe(d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if d.RateLimit > 0 {
			r.Use(rateLimit(d.RateLimit, d.RateBurst))
		}
		if d.Healthlog != nil {
			healthlog.RegisterRoutes(r, d.Healthlog)
		}
		if d.Copilot != nil {
			copilot.RegisterRoutes(r, d.Copilot)
		}
		if d.Vaccine != nil {
			vaccine.RegisterRoutes(r, d.Vaccine)
		}
		if d.Report != nil {
			report.RegisterRoutes(r, d.Report)
		}
	})
	return r
}

// Run serves h on addr until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package report

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"health-triage/internal/httpx"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) patientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid patientID")
		return uuid.Nil, false
	}
	return id, true
}

// Weekly returns the summary as JSON, or the PDF when ?format=pdf.
func (h *Handler) Weekly(w http.ResponseWriter, r *http.Request) {
	pid, ok := h.patientID(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		doc, err := h.svc.RenderWeekly(r.Context(), pid, h.now())
		if err != nil {
			log.Error().Err(err).Msg("Failed to render weekly report")
			httpx.WriteError(w, http.StatusInternalServerError, "failed to render report")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="weekly-report.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)
		return
	}

	summary, err := h.svc.BuildWeekly(r.Context(), pid, h.now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build weekly report")
		httpx.WriteError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) SendWeekly(w http.ResponseWriter, r *http.Request) {
	pid, ok := h.patientID(w, r)
	if !ok {
		return
	}

	err := h.svc.SendWeekly(r.Context(), pid, h.now())
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
	case errors.Is(err, ErrDoctorChatUnset):
		httpx.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error().Err(err).Msg("Failed to send weekly report")
		httpx.WriteError(w, http.StatusBadGateway, "failed to send report")
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/patients/{patientID}/reports/weekly", h.Weekly)
	r.Post("/patients/{patientID}/reports/weekly/send", h.SendWeekly)
}

package vaccine

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"health-triage/internal/httpx"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidVaccine):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSeriesComplete), errors.Is(err, ErrConflict):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("vaccine request failed")
		httpx.WriteError(w, http.StatusInternalServerError, "vaccine request failed")
	}
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	pid, ok := uuidParam(w, r, "patientID")
	if !ok {
		return
	}
	var req ScheduleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}

	v, err := h.svc.Schedule(r.Context(), pid, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pid, ok := uuidParam(w, r, "patientID")
	if !ok {
		return
	}
	vs, err := h.svc.List(r.Context(), pid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, vs)
}

func (h *Handler) Reminders(w http.ResponseWriter, r *http.Request) {
	pid, ok := uuidParam(w, r, "patientID")
	if !ok {
		return
	}
	rs, err := h.svc.Reminders(r.Context(), pid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rs)
}

func (h *Handler) MarkDoseComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "vaccineID")
	if !ok {
		return
	}
	v, err := h.svc.MarkDoseComplete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/patients/{patientID}/vaccines", h.Schedule)
	r.Get("/patients/{patientID}/vaccines", h.List)
	r.Get("/patients/{patientID}/vaccines/reminders", h.Reminders)
	r.Post("/vaccines/{vaccineID}/doses", h.MarkDoseComplete)
}

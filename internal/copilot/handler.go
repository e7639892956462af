package copilot

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

type StartSessionRequest struct {
	PatientID string `json:"patient_id"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	pid, err := uuid.Parse(req.PatientID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid patient_id")
		return
	}

	sess, err := h.svc.StartSession(r.Context(), pid)
	if err != nil {
		log.Error().Err(err).Msg("start copilot session")
		httpx.WriteError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	sess, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			httpx.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error().Err(err).Msg("get copilot session")
		httpx.WriteError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid session_id")
		return
	}

	reply, err := h.svc.Chat(r.Context(), id, req.Text)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, reply)
	case errors.Is(err, ErrEmptyMessage):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("session_id", id.String()).Msg("copilot chat")
		httpx.WriteError(w, http.StatusInternalServerError, "chat failed")
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/copilot/sessions", h.StartSession)
	r.Get("/copilot/sessions/{sessionID}", h.GetSession)
	r.Post("/copilot/chat", h.Chat)
}

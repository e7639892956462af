package healthlog

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"health-triage/internal/httpx"
	"health-triage/internal/triage"
)

const (
	maxUploadBytes = 10 << 20
	defaultHistory = 30 * 24 * time.Hour
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type SymptomRequest struct {
	PatientID string `json:"patient_id,omitempty"`
	Text      string `json:"text"`
}

type MoodRequest struct {
	PatientID string `json:"patient_id,omitempty"`
	Mood      Mood   `json:"mood,omitempty"`
	Text      string `json:"text"`
}

type ImageRequest struct {
	FileName string `json:"file_name"`
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, triage.ErrInvalidInput),
		errors.Is(err, ErrInvalidMood),
		errors.Is(err, ErrNoSpeech):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg(op)
		httpx.WriteError(w, http.StatusInternalServerError, op+" failed")
	}
}

func (h *Handler) CheckSymptoms(w http.ResponseWriter, r *http.Request) {
	var req SymptomRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	pid, err := httpx.OptionalUUID(req.PatientID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid patient_id")
		return
	}

	out, err := h.svc.CheckSymptoms(r.Context(), pid, req.Text)
	if err != nil {
		writeServiceError(w, err, "symptom check")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) CheckSymptomsAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	pid, err := httpx.OptionalUUID(r.FormValue("patient_id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid patient_id")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "error retrieving audio file")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "failed to read audio file")
		return
	}

	out, err := h.svc.CheckSymptomsAudio(r.Context(), pid, buf.Bytes())
	if err != nil {
		writeServiceError(w, err, "voice symptom check")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) LogMood(w http.ResponseWriter, r *http.Request) {
	var req MoodRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	pid, err := httpx.OptionalUUID(req.PatientID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid patient_id")
		return
	}

	out, err := h.svc.LogMood(r.Context(), pid, req.Mood, req.Text)
	if err != nil {
		writeServiceError(w, err, "mood check")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// AnalyzeImage accepts either a multipart "image" upload or a JSON file name.
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var name string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req ImageRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		name = req.FileName
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, hdr, err := r.FormFile("image")
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "error retrieving image file")
			return
		}
		file.Close()
		name = hdr.Filename
	}

	analysis, err := triage.AnalyzeImage(name)
	if err != nil {
		writeServiceError(w, err, "image triage")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, analysis)
}

func patientParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid patient id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) ListSymptomChecks(w http.ResponseWriter, r *http.Request) {
	pid, ok := patientParam(w, r)
	if !ok {
		return
	}
	since, err := httpx.SinceParam(r, time.Now(), defaultHistory)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid since, expected RFC 3339")
		return
	}

	checks, err := h.svc.ListSymptomChecks(r.Context(), pid, since)
	if err != nil {
		writeServiceError(w, err, "list symptom checks")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, checks)
}

func (h *Handler) ListMoodLogs(w http.ResponseWriter, r *http.Request) {
	pid, ok := patientParam(w, r)
	if !ok {
		return
	}
	since, err := httpx.SinceParam(r, time.Now(), defaultHistory)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid since, expected RFC 3339")
		return
	}

	logs, err := h.svc.ListMoodLogs(r.Context(), pid, since)
	if err != nil {
		writeServiceError(w, err, "list mood logs")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, logs)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/triage/symptoms", h.CheckSymptoms)
	r.Post("/triage/symptoms/audio", h.CheckSymptomsAudio)
	r.Post("/triage/mood", h.LogMood)
	r.Post("/triage/image", h.AnalyzeImage)
	r.Get("/patients/{patientID}/symptom-checks", h.ListSymptomChecks)
	r.Get("/patients/{patientID}/mood-logs", h.ListMoodLogs)
}

// Package httpx holds the small JSON helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON reads a bounded JSON body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// OptionalUUID parses s, treating the empty string as "no id".
func OptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// SinceParam parses the optional RFC 3339 "since" query parameter, defaulting to
// def before now.
func SinceParam(r *http.Request, now time.Time, def time.Duration) (time.Time, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return now.Add(-def), nil
	}
	return time.Parse(time.RFC3339, raw)
}

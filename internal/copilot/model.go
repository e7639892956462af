package copilot

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Reply is what the responder produces for one patient message.
type Reply struct {
	Intent      string   `json:"intent"`
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
}

// Session is one patient's running conversation with the health copilot.
type Session struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	History   []Message `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Version increases with every stored turn.
	Version int `json:"version"`
}

const greeting = "Hello! I'm your AI Health Assistant. How can I help you today?"

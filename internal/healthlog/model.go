package healthlog

import (
	"time"

	"github.com/google/uuid"

	"health-triage/internal/triage"
)

// SymptomCheck is a persisted symptom classification. Assessment is stored as an
// opaque JSON document.
type SymptomCheck struct {
	ID           uuid.UUID            `json:"id"`
	PatientID    uuid.UUID            `json:"patient_id"`
	SymptomsText string               `json:"symptoms_text"`
	Assessment   triage.SymptomResult `json:"assessment"`
	RiskLevel    string               `json:"risk_level"`
	Confidence   int                  `json:"confidence"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Mood is the self-reported mood picked alongside a narrative.
type Mood string

const (
	MoodGreat   Mood = "great"
	MoodGood    Mood = "good"
	MoodOkay    Mood = "okay"
	MoodSad     Mood = "sad"
	MoodVeryLow Mood = "very-low"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodSad, MoodVeryLow:
		return true
	}
	return false
}

type MoodLog struct {
	ID             uuid.UUID       `json:"id"`
	PatientID      uuid.UUID       `json:"patient_id"`
	Mood           Mood            `json:"mood"`
	Thoughts       string          `json:"thoughts,omitempty"`
	RiskAssessment triage.RiskTier `json:"risk_assessment"`
	Feedback       string          `json:"feedback"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SymptomOutcome is returned to callers of CheckSymptoms. Check is nil when the
// result was not persisted.
type SymptomOutcome struct {
	Result triage.SymptomResult `json:"result"`
	Check  *SymptomCheck        `json:"check,omitempty"`
	// Transcript is set for voice checks.
	Transcript string `json:"transcript,omitempty"`
}

type MoodOutcome struct {
	Result triage.MoodResult `json:"result"`
	Log    *MoodLog          `json:"log,omitempty"`
}

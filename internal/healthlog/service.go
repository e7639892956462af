package healthlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"health-triage/internal/metrics"
	"health-triage/internal/triage"
)

var (
	ErrInvalidMood = errors.New("invalid mood")
	ErrNoSpeech    = errors.New("no speech detected in audio")
)

// Notifier forwards urgent results to the patient's doctor.
type Notifier interface {
	NotifyDoctor(ctx context.Context, message string) error
}

// STTClient turns recorded speech into text for voice symptom checks.
type STTClient interface {
	Transcribe(ctx context.Context, audioData []byte) (string, error)
}

type Service interface {
	CheckSymptoms(ctx context.Context, patientID *uuid.UUID, text string) (*SymptomOutcome, error)
	CheckSymptomsAudio(ctx context.Context, patientID *uuid.UUID, audio []byte) (*SymptomOutcome, error)
	LogMood(ctx context.Context, patientID *uuid.UUID, mood Mood, thoughts string) (*MoodOutcome, error)
	ListSymptomChecks(ctx context.Context, patientID uuid.UUID, since time.Time) ([]SymptomCheck, error)
	ListMoodLogs(ctx context.Context, patientID uuid.UUID, since time.Time) ([]MoodLog, error)
}

const alertTimeout = 10 * time.Second

type service struct {
	repo       Repository
	classifier triage.Classifier
	notifier   Notifier
	stt        STTClient
	metrics    *metrics.Collector
	now        func() time.Time
}

type Option func(*service)

// WithNotifier enables doctor alerts for urgent results.
func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

// WithSTT enables voice symptom checks.
func WithSTT(c STTClient) Option {
	return func(s *service) { s.stt = c }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(repo Repository, classifier triage.Classifier, opts ...Option) Service {
	s := &service{
		repo:       repo,
		classifier: classifier,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckSymptoms classifies text and, when patientID is set, stores the result and
// alerts the doctor if emergency care is advised.
func (s *service) CheckSymptoms(ctx context.Context, patientID *uuid.UUID, text string) (*SymptomOutcome, error) {
	result, err := s.classifier.Symptoms(ctx, text)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordClassification("symptoms", result.Urgency.RiskLevel())

	out := &SymptomOutcome{Result: result}
	if patientID == nil {
		return out, nil
	}

	check := &SymptomCheck{
		ID:           uuid.New(),
		PatientID:    *patientID,
		SymptomsText: strings.TrimSpace(text),
		Assessment:   result,
		RiskLevel:    result.Urgency.RiskLevel(),
		Confidence:   result.Confidence(),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.SaveSymptomCheck(ctx, check); err != nil {
		return nil, fmt.Errorf("save symptom check: %w", err)
	}
	out.Check = check

	if result.Urgency == triage.UrgencySeekImmediate {
		s.alert(ctx, fmt.Sprintf(
			"URGENT symptom check for patient %s\nUrgency: %s\nDetected: %s\nPatient wrote: %q",
			patientID, result.Urgency, strings.Join(result.DetectedLabels, ", "), excerpt(check.SymptomsText)))
	}
	return out, nil
}

func (s *service) CheckSymptomsAudio(ctx context.Context, patientID *uuid.UUID, audio []byte) (*SymptomOutcome, error) {
	if s.stt == nil {
		return nil, errors.New("voice input is not configured")
	}
	text, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoSpeech
	}

	out, err := s.CheckSymptoms(ctx, patientID, text)
	if err != nil {
		return nil, err
	}
	out.Transcript = text
	return out, nil
}

// LogMood classifies the optional narrative and, when patientID is set, stores it
// with the selected mood. Anonymous calls need a narrative; stored logs need a mood.
func (s *service) LogMood(ctx context.Context, patientID *uuid.UUID, mood Mood, thoughts string) (*MoodOutcome, error) {
	if mood != "" && !mood.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMood, mood)
	}
	if patientID != nil && mood == "" {
		return nil, fmt.Errorf("%w: mood is required", ErrInvalidMood)
	}

	var result triage.MoodResult
	if patientID == nil || strings.TrimSpace(thoughts) != "" {
		var err error
		result, err = s.classifier.Mood(ctx, thoughts)
		if err != nil {
			return nil, err
		}
	} else {
		result = triage.MoodResult{
			RiskTier: triage.RiskLow,
			Message:  fmt.Sprintf("Mood logged: %s", mood),
		}
	}
	s.metrics.RecordClassification("mood", string(result.RiskTier))

	out := &MoodOutcome{Result: result}
	if patientID == nil {
		return out, nil
	}

	entry := &MoodLog{
		ID:             uuid.New(),
		PatientID:      *patientID,
		Mood:           mood,
		Thoughts:       strings.TrimSpace(thoughts),
		RiskAssessment: result.RiskTier,
		Feedback:       result.Message,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.SaveMoodLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("save mood log: %w", err)
	}
	out.Log = entry

	if result.RiskTier == triage.RiskHigh {
		s.alert(ctx, fmt.Sprintf(
			"URGENT mental health risk for patient %s\nRisk: %s\nMood: %s\nPatient wrote: %q",
			patientID, result.RiskTier, mood, excerpt(entry.Thoughts)))
	}
	return out, nil
}

func (s *service) ListSymptomChecks(ctx context.Context, patientID uuid.UUID, since time.Time) ([]SymptomCheck, error) {
	return s.repo.ListSymptomChecks(ctx, patientID, since)
}

func (s *service) ListMoodLogs(ctx context.Context, patientID uuid.UUID, since time.Time) ([]MoodLog, error) {
	return s.repo.ListMoodLogs(ctx, patientID, since)
}

// alert is fail-open: the classification has already been stored and returned,
// so a delivery problem is logged and counted only.
func (s *service) alert(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	defer cancel()

	err := s.notifier.NotifyDoctor(ctx, message)
	s.metrics.RecordDoctorAlert(err)
	if err != nil {
		log.Error().Err(err).Msg("Failed to alert doctor")
		return
	}
	log.Info().Msg("Doctor alerted")
}

func excerpt(s string) string {
	const max = 280
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

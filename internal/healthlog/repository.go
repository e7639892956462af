package healthlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"health-triage/internal/storage"
	"health-triage/internal/triage"
)

type Repository interface {
	SaveSymptomCheck(ctx context.Context, c *SymptomCheck) error
	ListSymptomChecks(ctx context.Context, patientID uuid.UUID, since time.Time) ([]SymptomCheck, error)
	SaveMoodLog(ctx context.Context, l *MoodLog) error
	ListMoodLogs(ctx context.Context, patientID uuid.UUID, since time.Time) ([]MoodLog, error)
}

type sqlRepo struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) Repository {
	return &sqlRepo{db: db}
}

func (r *sqlRepo) SaveSymptomCheck(ctx context.Context, c *SymptomCheck) error {
	assessment, err := json.Marshal(c.Assessment)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		INSERT INTO patient_symptom_checks
			(id, patient_id, symptoms_text, ai_assessment, risk_level, ai_confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.PatientID, c.SymptomsText, string(assessment), c.RiskLevel, c.Confidence,
		storage.Timestamp(c.CreatedAt))
	return err
}

func (r *sqlRepo) ListSymptomChecks(ctx context.Context, patientID uuid.UUID, since time.Time) ([]SymptomCheck, error) {
	query := r.db.Rebind(`
		SELECT id, patient_id, symptoms_text, ai_assessment, risk_level, ai_confidence, created_at
		FROM patient_symptom_checks
		WHERE patient_id = ? AND created_at >= ?
		ORDER BY created_at DESC`)

	rows, err := r.db.QueryContext(ctx, query, patientID, storage.Timestamp(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := []SymptomCheck{}
	for rows.Next() {
		var c SymptomCheck
		var assessment []byte
		var confidence sql.NullInt64
		if err := rows.Scan(&c.ID, &c.PatientID, &c.SymptomsText, &assessment, &c.RiskLevel, &confidence, &c.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(assessment, &c.Assessment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assessment %s: %w", c.ID, err)
		}
		c.Confidence = int(confidence.Int64)
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

func (r *sqlRepo) SaveMoodLog(ctx context.Context, l *MoodLog) error {
	query := r.db.Rebind(`
		INSERT INTO patient_mood_logs
			(id, patient_id, mood, thoughts, ai_risk_assessment, ai_feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.PatientID, string(l.Mood), l.Thoughts, string(l.RiskAssessment), l.Feedback,
		storage.Timestamp(l.CreatedAt))
	return err
}

func (r *sqlRepo) ListMoodLogs(ctx context.Context, patientID uuid.UUID, since time.Time) ([]MoodLog, error) {
	query := r.db.Rebind(`
		SELECT id, patient_id, mood, thoughts, ai_risk_assessment, ai_feedback, created_at
		FROM patient_mood_logs
		WHERE patient_id = ? AND created_at >= ?
		ORDER BY created_at DESC`)

	rows, err := r.db.QueryContext(ctx, query, patientID, storage.Timestamp(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []MoodLog{}
	for rows.Next() {
		var l MoodLog
		var thoughts, risk, feedback sql.NullString
		if err := rows.Scan(&l.ID, &l.PatientID, &l.Mood, &thoughts, &risk, &feedback, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Thoughts = thoughts.String
		l.RiskAssessment = triage.RiskTier(risk.String)
		l.Feedback = feedback.String
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

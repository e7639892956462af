package copilot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"health-triage/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("copilot session not found")
	ErrConflict        = errors.New("copilot session was updated concurrently")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Create(ctx context.Context, s *Session) error
	// Update stores s only if the row is still at s.Version, then bumps the version.
	Update(ctx context.Context, s *Session) error
}

type sqlRepo struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) Repository {
	return &sqlRepo{db: db}
}

func (r *sqlRepo) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := r.db.Rebind(`SELECT id, patient_id, conversation_history, created_at, updated_at, version
		FROM patient_ai_chat_sessions WHERE id = ?`)

	var s Session
	var historyJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.PatientID,
		&historyJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &s.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}
	return &s, nil
}

func marshalHistory(history []Message) (string, error) {
	if history == nil {
		history = []Message{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *sqlRepo) Create(ctx context.Context, s *Session) error {
	historyJSON, err := marshalHistory(s.History)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		INSERT INTO patient_ai_chat_sessions (id, patient_id, conversation_history, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.PatientID, historyJSON,
		storage.Timestamp(s.CreatedAt), storage.Timestamp(s.UpdatedAt), s.Version)
	return err
}

func (r *sqlRepo) Update(ctx context.Context, s *Session) error {
	historyJSON, err := marshalHistory(s.History)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		UPDATE patient_ai_chat_sessions
		SET conversation_history = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`)
	res, err := r.db.ExecContext(ctx, query,
		historyJSON, storage.Timestamp(s.UpdatedAt), s.ID, s.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	s.Version++
	return nil
}

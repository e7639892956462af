package copilot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyMessage is returned when a chat message has no content.
var ErrEmptyMessage = errors.New("message is empty")

// Responder produces the assistant's answer given the conversation so far.
type Responder interface {
	Respond(ctx context.Context, history []Message) (Reply, error)
}

type Service interface {
	StartSession(ctx context.Context, patientID uuid.UUID) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	Chat(ctx context.Context, sessionID uuid.UUID, text string) (Reply, error)
}

type service struct {
	repo      Repository
	responder Responder
	now       func() time.Time
}

func NewService(repo Repository, responder Responder) Service {
	return &service{
		repo:      repo,
		responder: responder,
		now:       time.Now,
	}
}

func (s *service) StartSession(ctx context.Context, patientID uuid.UUID) (*Session, error) {
	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.New(),
		PatientID: patientID,
		History: []Message{{
			Role: RoleAssistant, Content: greeting, Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

// chatAttempts bounds how often Chat re-reads a session that another message
// updated first.
const chatAttempts = 10

// Chat appends the patient's message, asks the responder for an answer and
// persists both turns. Concurrent messages to one session are applied one after
// another; ErrConflict is returned only if the session keeps changing underneath.
func (s *service) Chat(ctx context.Context, sessionID uuid.UUID, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	var err error
	for attempt := 0; attempt < chatAttempts; attempt++ {
		var reply Reply
		reply, err = s.chatOnce(ctx, sessionID, text)
		if !errors.Is(err, ErrConflict) {
			return reply, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Reply{}, ctxErr
		}
	}
	return Reply{}, err
}

func (s *service) chatOnce(ctx context.Context, sessionID uuid.UUID, text string) (Reply, error) {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return Reply{}, err
	}

	sess.History = append(sess.History, Message{
		Role: RoleUser, Content: text, Timestamp: s.now().UTC(),
	})

	reply, err := s.responder.Respond(ctx, sess.History)
	if err != nil {
		return Reply{}, fmt.Errorf("responder failed: %w", err)
	}

	now := s.now().UTC()
	sess.History = append(sess.History, Message{
		Role: RoleAssistant, Content: reply.Text, Suggestions: reply.Suggestions, Timestamp: now,
	})
	sess.UpdatedAt = now

	if err := s.repo.Update(ctx, sess); err != nil {
		return Reply{}, fmt.Errorf("save session: %w", err)
	}
	return reply, nil
}

package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"health-triage/internal/healthlog"
)

var ErrDoctorChatUnset = errors.New("doctor chat is not configured")

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

// History is the part of the health log a report reads from.
type History interface {
	ListSymptomChecks(ctx context.Context, patientID uuid.UUID, since time.Time) ([]healthlog.SymptomCheck, error)
	ListMoodLogs(ctx context.Context, patientID uuid.UUID, since time.Time) ([]healthlog.MoodLog, error)
}

// DoctorChat delivers alerts and documents to the doctor's Telegram chat.
type DoctorChat struct {
	tgClient TelegramClient
	chatID   int64
}

func NewDoctorChat(tg TelegramClient, chatID int64) *DoctorChat {
	return &DoctorChat{tgClient: tg, chatID: chatID}
}

func (d *DoctorChat) configured() bool {
	return d != nil && d.tgClient != nil && d.chatID != 0
}

// NotifyDoctor sends a plain text alert to the doctor chat.
func (d *DoctorChat) NotifyDoctor(ctx context.Context, message string) error {
	if !d.configured() {
		return ErrDoctorChatUnset
	}
	return d.tgClient.SendMessage(ctx, d.chatID, message)
}

func (d *DoctorChat) sendDocument(ctx context.Context, data []byte, fileName string) error {
	if !d.configured() {
		return ErrDoctorChatUnset
	}
	log.Info().Int64("chat_id", d.chatID).Str("file", fileName).Msg("Sending document to doctor")
	return d.tgClient.SendDocument(ctx, d.chatID, data, fileName)
}

type Service struct {
	history  History
	chat     *DoctorChat
	fontPath string
}

func NewService(history History, chat *DoctorChat, fontPath string) *Service {
	return &Service{
		history:  history,
		chat:     chat,
		fontPath: fontPath,
	}
}

// BuildWeekly summarizes the seven days ending at now.
func (s *Service) BuildWeekly(ctx context.Context, patientID uuid.UUID, now time.Time) (Weekly, error) {
	from := now.Add(-Window)
	checks, err := s.history.ListSymptomChecks(ctx, patientID, from)
	if err != nil {
		return Weekly{}, fmt.Errorf("list symptom checks: %w", err)
	}
	moods, err := s.history.ListMoodLogs(ctx, patientID, from)
	if err != nil {
		return Weekly{}, fmt.Errorf("list mood logs: %w", err)
	}
	return Summarize(patientID, from, now, checks, moods), nil
}

func (s *Service) RenderWeekly(ctx context.Context, patientID uuid.UUID, now time.Time) ([]byte, error) {
	w, err := s.BuildWeekly(ctx, patientID, now)
	if err != nil {
		return nil, err
	}
	return RenderPDF(w, s.fontPath)
}

// SendWeekly renders the weekly PDF and delivers it to the doctor chat.
func (s *Service) SendWeekly(ctx context.Context, patientID uuid.UUID, now time.Time) error {
	if !s.chat.configured() {
		return ErrDoctorChatUnset
	}
	doc, err := s.RenderWeekly(ctx, patientID, now)
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("weekly_%s_%s.pdf", patientID, now.Format("20060102"))
	if err := s.chat.sendDocument(ctx, doc, fileName); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}
	return nil
}

package healthlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-triage/internal/metrics"
	"health-triage/internal/storage"
	"health-triage/internal/triage"
)

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) NotifyDoctor(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return f.err
}

type fakeSTT struct {
	text string
	err  error
}

func (f fakeSTT) Transcribe(context.Context, []byte) (string, error) {
	return f.text, f.err
}

func newRepo(t *testing.T) Repository {
	t.Helper()
	db, err := storage.OpenTemp(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestCheckSymptoms_Anonymous(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(newRepo(t), triage.Rules{}, WithNotifier(notifier))

	out, err := svc.CheckSymptoms(context.Background(), nil, "severe chest pain")
	require.NoError(t, err)

	assert.Nil(t, out.Check)
	assert.Equal(t, triage.UrgencySeekImmediate, out.Result.Urgency)
	assert.Empty(t, notifier.messages, "anonymous checks are not escalated")
}

func TestCheckSymptoms_PersistsAndAlerts(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	m := metrics.New()
	svc := NewService(newRepo(t), triage.Rules{}, WithNotifier(notifier), WithMetrics(m))
	pid := uuid.New()

	out, err := svc.CheckSymptoms(ctx, &pid, "  chest tightness and breathless  ")
	require.NoError(t, err)
	require.NotNil(t, out.Check)
	assert.Equal(t, "high", out.Check.RiskLevel)
	assert.Equal(t, 85, out.Check.Confidence)
	assert.Equal(t, "chest tightness and breathless", out.Check.SymptomsText)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], pid.String())
	assert.Contains(t, notifier.messages[0], "Chest Pain")

	checks, err := svc.ListSymptomChecks(ctx, pid, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, out.Check.ID, checks[0].ID)
	assert.Equal(t, out.Result, checks[0].Assessment)
}

func TestCheckSymptoms_NoAlertForRoutine(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(newRepo(t), triage.Rules{}, WithNotifier(notifier))
	pid := uuid.New()

	_, err := svc.CheckSymptoms(context.Background(), &pid, "fever and headache")
	require.NoError(t, err)
	assert.Empty(t, notifier.messages)
}

func TestCheckSymptoms_NotifierFailureIsSwallowed(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	svc := NewService(newRepo(t), triage.Rules{}, WithNotifier(notifier))
	pid := uuid.New()

	out, err := svc.CheckSymptoms(context.Background(), &pid, "chest pain")
	require.NoError(t, err)
	assert.NotNil(t, out.Check)
	assert.Len(t, notifier.messages, 1)
}

func TestCheckSymptoms_InvalidInput(t *testing.T) {
	svc := NewService(newRepo(t), triage.Rules{})
	_, err := svc.CheckSymptoms(context.Background(), nil, " ")
	assert.ErrorIs(t, err, triage.ErrInvalidInput)
}

func TestCheckSymptomsAudio(t *testing.T) {
	ctx := context.Background()

	svc := NewService(newRepo(t), triage.Rules{}, WithSTT(fakeSTT{text: "I keep coughing and have a sore throat"}))
	out, err := svc.CheckSymptomsAudio(ctx, nil, []byte("wav"))
	require.NoError(t, err)
	assert.Equal(t, "I keep coughing and have a sore throat", out.Transcript)
	assert.Equal(t, []string{triage.LabelCough, triage.LabelSoreThroat}, out.Result.DetectedLabels)

	silent := NewService(newRepo(t), triage.Rules{}, WithSTT(fakeSTT{text: "  "}))
	_, err = silent.CheckSymptomsAudio(ctx, nil, []byte("wav"))
	assert.ErrorIs(t, err, ErrNoSpeech)

	unconfigured := NewService(newRepo(t), triage.Rules{})
	_, err = unconfigured.CheckSymptomsAudio(ctx, nil, []byte("wav"))
	assert.Error(t, err)
}

func TestLogMood(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc := NewService(newRepo(t), triage.Rules{}, WithNotifier(notifier))
	pid := uuid.New()

	out, err := svc.LogMood(ctx, &pid, MoodVeryLow, "I want to die, nothing matters")
	require.NoError(t, err)
	assert.Equal(t, triage.RiskHigh, out.Result.RiskTier)
	require.NotNil(t, out.Log)
	assert.Len(t, notifier.messages, 1)

	out, err = svc.LogMood(ctx, &pid, MoodGood, "")
	require.NoError(t, err)
	assert.Equal(t, triage.RiskLow, out.Result.RiskTier)

	logs, err := svc.ListMoodLogs(ctx, pid, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	tiers := []triage.RiskTier{logs[0].RiskAssessment, logs[1].RiskAssessment}
	assert.ElementsMatch(t, []triage.RiskTier{triage.RiskHigh, triage.RiskLow}, tiers)
}

func TestLogMood_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newRepo(t), triage.Rules{})
	pid := uuid.New()

	_, err := svc.LogMood(ctx, &pid, "ecstatic", "hi")
	assert.ErrorIs(t, err, ErrInvalidMood)

	_, err = svc.LogMood(ctx, &pid, "", "feeling hopeless")
	assert.ErrorIs(t, err, ErrInvalidMood)

	_, err = svc.LogMood(ctx, nil, "", "")
	assert.ErrorIs(t, err, triage.ErrInvalidInput)

	out, err := svc.LogMood(ctx, nil, "", "feeling hopeless")
	require.NoError(t, err)
	assert.Equal(t, triage.RiskModerate, out.Result.RiskTier)
	assert.Nil(t, out.Log)
}

func TestListSymptomChecks_Since(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	pid := uuid.New()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i, text := range []string{"fever", "cough", "rash"} {
		clock := base.Add(time.Duration(i) * 24 * time.Hour)
		svc := NewService(repo, triage.Rules{}, WithClock(func() time.Time { return clock }))
		_, err := svc.CheckSymptoms(ctx, &pid, text)
		require.NoError(t, err)
	}

	svc := NewService(repo, triage.Rules{})
	checks, err := svc.ListSymptomChecks(ctx, pid, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, "rash", checks[0].SymptomsText)
	assert.Equal(t, "cough", checks[1].SymptomsText)

	other, err := svc.ListSymptomChecks(ctx, uuid.New(), base)
	require.NoError(t, err)
	assert.Empty(t, other)
}

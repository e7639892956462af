package triage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLatency_ZeroReturnsInner(t *testing.T) {
	c := WithLatency(Rules{}, 0)
	_, ok := c.(Rules)
	assert.True(t, ok)
}

func TestWithLatency_SameResult(t *testing.T) {
	ctx := context.Background()
	c := WithLatency(Rules{}, 5*time.Millisecond)

	start := time.Now()
	got, err := c.Symptoms(ctx, "fever and cough")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)

	want, err := ClassifySymptoms("fever and cough")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mood, err := c.Mood(ctx, "hopeless")
	require.NoError(t, err)
	assert.Equal(t, RiskModerate, mood.RiskTier)
}

func TestWithLatency_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := WithLatency(Rules{}, time.Hour)
	_, err := c.Symptoms(ctx, "fever")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.Mood(ctx, "fine")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithLatency_BlankRejectedWithoutWaiting(t *testing.T) {
	c := WithLatency(Rules{}, time.Hour)

	start := time.Now()
	_, err := c.Symptoms(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.Mood(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAnalyzeImage(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"uploads/Skin_Patch.JPG", "dermatology"},
		{"mole-left-arm.png", "dermatology"},
		{"red_eye.jpeg", "ophthalmology"},
		{"throat.png", "general"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := AnalyzeImage(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Type)
			assert.NotEmpty(t, got.Findings)
		})
	}

	_, err := AnalyzeImage(" ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

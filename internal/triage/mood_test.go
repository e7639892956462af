package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMood(t *testing.T) {
	tests := []struct {
		name string
		text string
		want RiskTier
	}{
		{"high risk", "I want to die, nothing matters", RiskHigh},
		{"moderate risk", "I feel hopeless about everything", RiskModerate},
		{"low risk", "had a great day today", RiskLow},
		{"high beats moderate", "I'm worthless and I want to end it all", RiskHigh},
		{"case insensitive", "Everything feels OVERWHELMING", RiskModerate},
		{"apostrophe phrase", "I just can't cope anymore", RiskModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ClassifyMood(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.RiskTier)
			assert.Equal(t, moodMessages[tt.want], res.Message)
		})
	}
}

func TestClassifyMood_Helplines(t *testing.T) {
	low, err := ClassifyMood("feeling fine")
	require.NoError(t, err)
	assert.Empty(t, low.Helplines)

	high, err := ClassifyMood("thinking about suicide")
	require.NoError(t, err)
	assert.Len(t, high.Helplines, len(helplines))
}

func TestClassifyMood_InvalidInput(t *testing.T) {
	_, err := ClassifyMood("  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

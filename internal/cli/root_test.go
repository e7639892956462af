package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-triage/internal/triage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSymptomsCommand(t *testing.T) {
	out, err := execute(t, "symptoms", "fever", "and", "headache")
	require.NoError(t, err)
	assert.Contains(t, out, "Detected: Fever, Headache")
	assert.Contains(t, out, "Viral Fever")
	assert.Contains(t, out, "Urgency:  Monitor at home")
}

func TestSymptomsCommand_JSON(t *testing.T) {
	out, err := execute(t, "--json", "symptoms", "crushing chest pain")
	require.NoError(t, err)

	var result triage.SymptomResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, triage.UrgencySeekImmediate, result.Urgency)
	assert.Equal(t, []string{"Chest Pain"}, result.DetectedLabels)
}

func TestSymptomsCommand_Blank(t *testing.T) {
	_, err := execute(t, "symptoms", "   ")
	assert.ErrorIs(t, err, triage.ErrInvalidInput)

	_, err = execute(t, "symptoms")
	assert.Error(t, err)
}

func TestMoodCommand(t *testing.T) {
	out, err := execute(t, "mood", "I", "want", "to", "die")
	require.NoError(t, err)
	assert.Contains(t, out, "Risk: high")
	assert.Contains(t, out, "Support lines:")
}

func TestImageCommand_JSON(t *testing.T) {
	out, err := execute(t, "image", "--json", "uploads/mole_left_arm.jpg")
	require.NoError(t, err)

	var a triage.ImageAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "dermatology", a.Type)
}

func TestIntentCommand(t *testing.T) {
	out, err := execute(t, "intent", "I", "need", "to", "book", "an", "appointment")
	require.NoError(t, err)
	assert.Contains(t, out, "Intent: appointments")
}

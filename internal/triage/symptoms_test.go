package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conditionNames(cs []Condition) []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return names
}

func TestClassifySymptoms_FeverAndHeadache(t *testing.T) {
	res, err := ClassifySymptoms("I have fever and headache")
	require.NoError(t, err)

	assert.Equal(t, []string{LabelFever, LabelHeadache}, res.DetectedLabels)
	assert.Contains(t, res.Conditions, Condition{
		Name:        "Viral Fever",
		Description: "Common viral infection causing fever and headache",
		Probability: 80,
		Severity:    SeverityModerate,
	})
	assert.Contains(t, conditionNames(res.Conditions), "Common Cold")
	for _, c := range res.Conditions {
		if c.Name == "Common Cold" {
			assert.Equal(t, 65, c.Probability)
			assert.Equal(t, SeverityMild, c.Severity)
		}
	}
	assert.Equal(t, UrgencyMonitorAtHome, res.Urgency)
	assert.Equal(t, nextStepsMonitor, res.NextSteps)
	assert.Equal(t, 80, res.Confidence())
}

func TestClassifySymptoms_ChestPainEscalates(t *testing.T) {
	res, err := ClassifySymptoms("severe chest pain and pressure")
	require.NoError(t, err)

	assert.Contains(t, res.DetectedLabels, LabelChestPain)
	assert.Equal(t, UrgencySeekImmediate, res.Urgency)
	assert.Contains(t, res.NextSteps, "emergency services")
}

func TestClassifySymptoms_ChestPainWinsOverOtherSymptoms(t *testing.T) {
	inputs := []string{
		"chest pain with shortness of breath",
		"I have a cough, fever, trouble breathing and chest tightness",
		"shortness of breath then chest pressure",
		"rash, dizzy, chest pain",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			res, err := ClassifySymptoms(in)
			require.NoError(t, err)
			assert.Equal(t, UrgencySeekImmediate, res.Urgency)
		})
	}
}

func TestClassifySymptoms_BreathingConsultSoon(t *testing.T) {
	res, err := ClassifySymptoms("I get breathless climbing stairs")
	require.NoError(t, err)

	assert.Equal(t, []string{LabelBreathing}, res.DetectedLabels)
	assert.Equal(t, UrgencyConsultDoctorSoon, res.Urgency)
	assert.Equal(t, nextStepsSoon, res.NextSteps)
}

func TestClassifySymptoms_Fallback(t *testing.T) {
	res, err := ClassifySymptoms("just feeling tired")
	require.NoError(t, err)

	assert.Empty(t, res.DetectedLabels)
	assert.Equal(t, []Condition{fallbackCondition}, res.Conditions)
	assert.Equal(t, fallbackRecommendations, res.Recommendations)
	assert.Equal(t, UrgencyMonitorAtHome, res.Urgency)
}

func TestClassifySymptoms_CaseInsensitive(t *testing.T) {
	upper, err := ClassifySymptoms("FEVER and HEADACHE")
	require.NoError(t, err)
	lower, err := ClassifySymptoms("fever and headache")
	require.NoError(t, err)

	assert.Equal(t, lower.DetectedLabels, upper.DetectedLabels)
	assert.Equal(t, lower, upper)
}

func TestClassifySymptoms_Deterministic(t *testing.T) {
	text := "Cough, sore throat, fever and body aches with some nausea"
	first, err := ClassifySymptoms(text)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ClassifySymptoms(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassifySymptoms_InvalidInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := ClassifySymptoms(in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestDetectLabels_DeclarationOrder(t *testing.T) {
	labels, err := DetectLabels("dizzy since morning, also a headache and high temperature")
	require.NoError(t, err)
	assert.Equal(t, []string{LabelFever, LabelHeadache, LabelDizziness}, labels)
}

func TestDetectLabels_LabelOnce(t *testing.T) {
	labels, err := DetectLabels("fever, high temperature, feeling hot with chills")
	require.NoError(t, err)
	assert.Equal(t, []string{LabelFever}, labels)
}

func TestDetectLabels_SubstringMatch(t *testing.T) {
	// "photo" contains "hot"; substring matching is intentional.
	labels, err := DetectLabels("took a photo")
	require.NoError(t, err)
	assert.Equal(t, []string{LabelFever}, labels)
}

func TestDetectLabels_HeadachesIsNotBodyAche(t *testing.T) {
	res, err := ClassifySymptoms("I have fever and headaches")
	require.NoError(t, err)
	assert.Equal(t, []string{LabelFever, LabelHeadache}, res.DetectedLabels)
	assert.NotContains(t, conditionNames(res.Conditions), "Influenza")

	labels, err := DetectLabels("muscle aches all over")
	require.NoError(t, err)
	assert.Equal(t, []string{LabelBodyAche}, labels)
}

func TestMatchConditions_SetInclusion(t *testing.T) {
	got := MatchConditions([]string{LabelNausea, LabelHeadache, LabelStomachPain})
	assert.Equal(t, []string{"Migraine", "Tension Headache", "Gastroenteritis", "Indigestion"}, conditionNames(got))
}

func TestMatchConditions_Empty(t *testing.T) {
	assert.Equal(t, []Condition{fallbackCondition}, MatchConditions(nil))
}

func TestResolveUrgency_Monotonic(t *testing.T) {
	soon := ConditionRule{Urgency: UrgencyConsultDoctorSoon}
	now := ConditionRule{Urgency: UrgencySeekImmediate}
	plain := ConditionRule{}

	assert.Equal(t, UrgencyMonitorAtHome, ResolveUrgency(nil))
	assert.Equal(t, UrgencyMonitorAtHome, ResolveUrgency([]ConditionRule{plain}))
	assert.Equal(t, UrgencyConsultDoctorSoon, ResolveUrgency([]ConditionRule{plain, soon}))
	assert.Equal(t, UrgencySeekImmediate, ResolveUrgency([]ConditionRule{now, soon}))
	assert.Equal(t, UrgencySeekImmediate, ResolveUrgency([]ConditionRule{soon, now, plain}))
}

func TestRecommendations_Deduplicated(t *testing.T) {
	res, err := ClassifySymptoms("fever, headache and body ache")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, r := range res.Recommendations {
		assert.False(t, seen[r], "duplicate recommendation %q", r)
		seen[r] = true
	}
	assert.Equal(t, "Rest and increase fluid intake", res.Recommendations[0])
}

func TestRecommendations_Fallback(t *testing.T) {
	got := Recommendations(nil)
	assert.Equal(t, fallbackRecommendations, got)

	got[0] = "mutated"
	assert.Equal(t, "Monitor symptoms closely", fallbackRecommendations[0])
}

func TestUrgency_RiskLevel(t *testing.T) {
	assert.Equal(t, "high", UrgencySeekImmediate.RiskLevel())
	assert.Equal(t, "moderate", UrgencyConsultDoctorSoon.RiskLevel())
	assert.Equal(t, "low", UrgencyMonitorAtHome.RiskLevel())
}

func TestRuleTables_Consistent(t *testing.T) {
	known := map[string]bool{}
	for _, g := range SymptomGroups() {
		assert.False(t, known[g.Label], "duplicate label %s", g.Label)
		known[g.Label] = true
		assert.NotEmpty(t, g.Triggers)
	}
	for _, r := range ConditionRules() {
		assert.NotEmpty(t, r.Requires, r.Name)
		assert.NotEmpty(t, r.Recommendations, r.Name)
		assert.True(t, r.Probability >= 0 && r.Probability <= 100, r.Name)
		for _, req := range r.Requires {
			assert.True(t, known[req], "%s requires unknown label %s", r.Name, req)
		}
	}
}

func TestRuleTables_CopiesAreIndependent(t *testing.T) {
	rules := ConditionRules()
	for i := range rules {
		rules[i].Requires[0] = LabelRash
		rules[i].Recommendations[0] = "changed"
	}
	groups := SymptomGroups()
	for i := range groups {
		groups[i].Triggers[0] = "zzz"
	}

	res, err := ClassifySymptoms("severe chest pain")
	require.NoError(t, err)
	assert.Equal(t, []string{LabelChestPain}, res.DetectedLabels)
	assert.Equal(t, UrgencySeekImmediate, res.Urgency)
	assert.NotContains(t, res.Recommendations, "changed")
}

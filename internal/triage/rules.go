package triage

import "slices"

// Severity of a proposed condition.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Urgency is the overall recommended response speed for a symptom check.
type Urgency string

const (
	UrgencyMonitorAtHome     Urgency = "Monitor at home"
	UrgencyConsultDoctorSoon Urgency = "Consult doctor soon"
	UrgencySeekImmediate     Urgency = "Seek immediate medical attention"
)

// rank orders urgencies so that escalation can only move upward.
func (u Urgency) rank() int {
	switch u {
	case UrgencySeekImmediate:
		return 2
	case UrgencyConsultDoctorSoon:
		return 1
	default:
		return 0
	}
}

// RiskLevel maps an urgency tier to the low/moderate/high scale stored with symptom checks.
func (u Urgency) RiskLevel() string {
	switch u {
	case UrgencySeekImmediate:
		return "high"
	case UrgencyConsultDoctorSoon:
		return "moderate"
	default:
		return "low"
	}
}

// KeywordGroup activates Label when any of its trigger phrases occurs in the input.
type KeywordGroup struct {
	Label    string
	Triggers []string
}

// ConditionRule proposes a condition when every label in Requires was detected.
// A non-empty Urgency escalates the overall urgency of the check.
type ConditionRule struct {
	Name            string
	Description     string
	Requires        []string
	Probability     int
	Severity        Severity
	Urgency         Urgency
	Recommendations []string
}

const (
	LabelFever       = "Fever"
	LabelHeadache    = "Headache"
	LabelCough       = "Cough"
	LabelSoreThroat  = "Sore Throat"
	LabelRunnyNose   = "Runny Nose"
	LabelBodyAche    = "Body Ache"
	LabelFatigue     = "Fatigue"
	LabelNausea      = "Nausea"
	LabelStomachPain = "Stomach Pain"
	LabelDizziness   = "Dizziness"
	LabelRash        = "Rash"
	LabelChestPain   = "Chest Pain"
	LabelBreathing   = "Breathing Difficulty"
)

// symptomGroups is evaluated in declaration order; that order is the order of
// SymptomResult.DetectedLabels.
var symptomGroups = []KeywordGroup{
	{Label: LabelFever, Triggers: []string{"fever", "temperature", "hot", "chills"}},
	{Label: LabelHeadache, Triggers: []string{"headache", "head pain", "migraine"}},
	{Label: LabelCough, Triggers: []string{"cough"}},
	{Label: LabelSoreThroat, Triggers: []string{"sore throat", "throat pain", "scratchy throat"}},
	{Label: LabelRunnyNose, Triggers: []string{"runny nose", "stuffy nose", "sneezing", "congestion"}},
	{Label: LabelBodyAche, Triggers: []string{"body ache", "body pain", "muscle pain", "muscle aches"}},
	{Label: LabelFatigue, Triggers: []string{"fatigue", "weakness", "exhausted"}},
	{Label: LabelNausea, Triggers: []string{"nausea", "nauseous", "vomit"}},
	{Label: LabelStomachPain, Triggers: []string{"stomach", "abdominal", "diarrhea"}},
	{Label: LabelDizziness, Triggers: []string{"dizzy", "dizziness", "lightheaded"}},
	{Label: LabelRash, Triggers: []string{"rash", "itching", "hives"}},
	{Label: LabelChestPain, Triggers: []string{"chest pain", "chest pressure", "chest tightness"}},
	{Label: LabelBreathing, Triggers: []string{"breathing", "breathless", "shortness of breath", "wheez"}},
}

var conditionRules = []ConditionRule{
	{
		Name:        "Viral Fever",
		Description: "Common viral infection causing fever and headache",
		Requires:    []string{LabelFever, LabelHeadache},
		Probability: 80,
		Severity:    SeverityModerate,
		Recommendations: []string{
			"Rest and increase fluid intake",
			"Monitor temperature regularly",
			"Consult a doctor if symptoms worsen",
		},
	},
	{
		Name:        "Influenza",
		Description: "Seasonal flu with fever and muscle pain",
		Requires:    []string{LabelFever, LabelBodyAche},
		Probability: 75,
		Severity:    SeverityModerate,
		Recommendations: []string{
			"Rest and increase fluid intake",
			"Avoid contact with others to prevent spread",
		},
	},
	{
		Name:        "Common Cold",
		Description: "Upper respiratory tract infection",
		Requires:    []string{LabelFever},
		Probability: 65,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Rest and increase fluid intake",
			"Gargle with warm salt water",
		},
	},
	{
		Name:        "Upper Respiratory Infection",
		Description: "Infection of the throat and airways",
		Requires:    []string{LabelCough, LabelSoreThroat},
		Probability: 70,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Gargle with warm salt water",
			"Drink warm fluids",
		},
	},
	{
		Name:        "Pneumonia",
		Description: "Lung infection with fever, cough and laboured breathing",
		Requires:    []string{LabelFever, LabelCough, LabelBreathing},
		Probability: 60,
		Severity:    SeveritySevere,
		Urgency:     UrgencyConsultDoctorSoon,
		Recommendations: []string{
			"Consult a doctor within 24 hours",
			"Monitor temperature regularly",
		},
	},
	{
		Name:        "Allergic Rhinitis",
		Description: "Nasal inflammation triggered by allergens",
		Requires:    []string{LabelRunnyNose},
		Probability: 55,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Avoid known allergens",
			"Consider an over-the-counter antihistamine",
		},
	},
	{
		Name:        "Migraine",
		Description: "Recurring headache often accompanied by nausea",
		Requires:    []string{LabelHeadache, LabelNausea},
		Probability: 70,
		Severity:    SeverityModerate,
		Recommendations: []string{
			"Rest in a dark, quiet room",
			"Stay hydrated",
		},
	},
	{
		Name:        "Tension Headache",
		Description: "Headache related to stress or muscle tension",
		Requires:    []string{LabelHeadache},
		Probability: 55,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Rest in a dark, quiet room",
			"Limit screen time",
		},
	},
	{
		Name:        "Gastroenteritis",
		Description: "Stomach and intestinal infection",
		Requires:    []string{LabelNausea, LabelStomachPain},
		Probability: 70,
		Severity:    SeverityModerate,
		Recommendations: []string{
			"Drink oral rehydration solution",
			"Eat bland foods",
		},
	},
	{
		Name:        "Indigestion",
		Description: "Discomfort in the upper abdomen after eating",
		Requires:    []string{LabelStomachPain},
		Probability: 50,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Eat smaller meals",
			"Avoid spicy and fatty food",
		},
	},
	{
		Name:        "Vertigo",
		Description: "Sensation of spinning or loss of balance",
		Requires:    []string{LabelDizziness},
		Probability: 50,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Sit or lie down when dizzy",
			"Stay hydrated",
		},
	},
	{
		Name:        "Iron Deficiency",
		Description: "Low iron levels causing tiredness and dizziness",
		Requires:    []string{LabelFatigue, LabelDizziness},
		Probability: 45,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Eat iron-rich foods",
			"Get rest",
		},
	},
	{
		Name:        "Allergic Reaction",
		Description: "Skin reaction to an irritant or allergen",
		Requires:    []string{LabelRash},
		Probability: 60,
		Severity:    SeverityMild,
		Recommendations: []string{
			"Avoid known allergens",
			"Apply a soothing lotion",
		},
	},
	{
		Name:        "Cardiac Emergency",
		Description: "Chest pain that may indicate a heart problem",
		Requires:    []string{LabelChestPain},
		Probability: 85,
		Severity:    SeveritySevere,
		Urgency:     UrgencySeekImmediate,
		Recommendations: []string{
			"Call emergency services immediately",
			"Sit down and stay calm",
			"Do not drive yourself to the hospital",
		},
	},
	{
		Name:        "Respiratory Distress",
		Description: "Difficulty breathing that needs prompt assessment",
		Requires:    []string{LabelBreathing},
		Probability: 75,
		Severity:    SeveritySevere,
		Urgency:     UrgencyConsultDoctorSoon,
		Recommendations: []string{
			"Sit upright and breathe slowly",
			"Use your prescribed inhaler if you have one",
		},
	},
}

var fallbackCondition = Condition{
	Name:        "General Health Concern",
	Description: "Symptoms do not match a specific pattern",
	Probability: 50,
	Severity:    SeverityMild,
}

var fallbackRecommendations = []string{
	"Monitor symptoms closely",
	"Stay hydrated",
	"Get rest",
}

// SymptomGroups returns a deep copy of the keyword groups in evaluation order.
func SymptomGroups() []KeywordGroup {
	out := make([]KeywordGroup, len(symptomGroups))
	for i, g := range symptomGroups {
		g.Triggers = slices.Clone(g.Triggers)
		out[i] = g
	}
	return out
}

// ConditionRules returns a deep copy of the condition rules in declaration order.
func ConditionRules() []ConditionRule {
	out := make([]ConditionRule, len(conditionRules))
	for i, r := range conditionRules {
		r.Requires = slices.Clone(r.Requires)
		r.Recommendations = slices.Clone(r.Recommendations)
		out[i] = r
	}
	return out
}

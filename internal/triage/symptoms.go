// Package triage classifies free-text symptom and mood descriptions using fixed
// keyword tables. Every function in this package is pure; the tables are read-only
// after package initialisation and safe for concurrent use.
package triage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned for empty or whitespace-only text.
var ErrInvalidInput = errors.New("invalid input")

// Condition is a condition rule that fired for a given input.
type Condition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Probability int      `json:"probability"`
	Severity    Severity `json:"severity"`
}

// SymptomResult is the outcome of a symptom classification.
type SymptomResult struct {
	DetectedLabels  []string    `json:"detected_labels"`
	Conditions      []Condition `json:"conditions"`
	Recommendations []string    `json:"recommendations"`
	Urgency         Urgency     `json:"urgency"`
	NextSteps       string      `json:"next_steps"`
}

// Confidence is the highest probability among the proposed conditions.
func (r SymptomResult) Confidence() int {
	best := 0
	for _, c := range r.Conditions {
		if c.Probability > best {
			best = c.Probability
		}
	}
	return best
}

const (
	nextStepsImmediate = "Call emergency services (112) immediately or go to the nearest emergency department."
	nextStepsSoon      = "Book a consultation with your doctor within the next 24 hours. Go to emergency care if symptoms get worse."
	nextStepsMonitor   = "Monitor your symptoms for the next 2-3 days. Consult a doctor if they persist or get worse."
)

func normalize(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	return strings.ToLower(text), nil
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// DetectLabels returns the labels whose trigger phrases occur in text, in keyword
// group order. Matching is case-insensitive substring containment.
func DetectLabels(text string) ([]string, error) {
	normalized, err := normalize(text)
	if err != nil {
		return nil, err
	}
	return detect(normalized), nil
}

func detect(normalized string) []string {
	labels := make([]string, 0, len(symptomGroups))
	seen := make(map[string]bool, len(symptomGroups))
	for _, g := range symptomGroups {
		if seen[g.Label] || !containsAny(normalized, g.Triggers) {
			continue
		}
		seen[g.Label] = true
		labels = append(labels, g.Label)
	}
	return labels
}

// firedRules returns the rules whose required labels are all present, in declaration order.
func firedRules(labels []string) []ConditionRule {
	present := make(map[string]bool, len(labels))
	for _, l := range labels {
		present[l] = true
	}

	var fired []ConditionRule
	for _, rule := range conditionRules {
		ok := true
		for _, req := range rule.Requires {
			if !present[req] {
				ok = false
				break
			}
		}
		if ok {
			fired = append(fired, rule)
		}
	}
	return fired
}

// MatchConditions returns every condition whose required labels are a subset of labels.
// When nothing fires, the single generic fallback condition is returned.
func MatchConditions(labels []string) []Condition {
	return conditionsOf(firedRules(labels))
}

func conditionsOf(rules []ConditionRule) []Condition {
	if len(rules) == 0 {
		return []Condition{fallbackCondition}
	}
	out := make([]Condition, 0, len(rules))
	for _, r := range rules {
		out = append(out, Condition{
			Name:        r.Name,
			Description: r.Description,
			Probability: r.Probability,
			Severity:    r.Severity,
		})
	}
	return out
}

// ResolveUrgency returns the most severe urgency override among rules, or
// UrgencyMonitorAtHome when none of them escalates.
func ResolveUrgency(rules []ConditionRule) Urgency {
	urgency := UrgencyMonitorAtHome
	for _, r := range rules {
		if r.Urgency != "" && r.Urgency.rank() > urgency.rank() {
			urgency = r.Urgency
		}
	}
	return urgency
}

// Recommendations merges the recommendation lists of rules, dropping repeats while
// keeping first-seen order. Falls back to generic self-care advice.
func Recommendations(rules []ConditionRule) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range rules {
		for _, rec := range r.Recommendations {
			if seen[rec] {
				continue
			}
			seen[rec] = true
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallbackRecommendations...)
	}
	return out
}

// NextSteps maps an urgency tier to the instruction shown to the patient.
func NextSteps(u Urgency) string {
	switch u {
	case UrgencySeekImmediate:
		return nextStepsImmediate
	case UrgencyConsultDoctorSoon:
		return nextStepsSoon
	default:
		return nextStepsMonitor
	}
}

// ClassifySymptoms runs keyword detection, condition matching and urgency
// resolution over a free-text symptom description.
func ClassifySymptoms(text string) (SymptomResult, error) {
	normalized, err := normalize(text)
	if err != nil {
		return SymptomResult{}, err
	}

	labels := detect(normalized)
	rules := firedRules(labels)
	urgency := ResolveUrgency(rules)

	return SymptomResult{
		DetectedLabels:  labels,
		Conditions:      conditionsOf(rules),
		Recommendations: Recommendations(rules),
		Urgency:         urgency,
		NextSteps:       NextSteps(urgency),
	}, nil
}

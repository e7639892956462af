package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"health-triage/internal/healthlog"
	"health-triage/internal/triage"
)

// Window is the period a weekly report covers, ending at the report time.
const Window = 7 * 24 * time.Hour

// moodOrder fixes the order moods are listed in, best first.
var moodOrder = []healthlog.Mood{
	healthlog.MoodGreat,
	healthlog.MoodGood,
	healthlog.MoodOkay,
	healthlog.MoodSad,
	healthlog.MoodVeryLow,
}

// Weekly is the aggregated view of a patient's last seven days.
type Weekly struct {
	PatientID     uuid.UUID `json:"patient_id"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	SymptomChecks int       `json:"symptom_checks"`
	// HighestRisk is "none" when no checks were recorded.
	HighestRisk     string                 `json:"highest_risk"`
	UrgentChecks    int                    `json:"urgent_checks"`
	TopConditions   []string               `json:"top_conditions"`
	MoodLogs        int                    `json:"mood_logs"`
	MoodCounts      map[healthlog.Mood]int `json:"mood_counts"`
	MoodDays        int                    `json:"mood_days"`
	HighRiskMoods   int                    `json:"high_risk_moods"`
	Score           int                    `json:"score"`
	Achievements    []string               `json:"achievements"`
	Recommendations []string               `json:"recommendations"`
}

var riskRank = map[string]int{"low": 1, "moderate": 2, "high": 3}

// Summarize folds the checks and mood logs recorded between from and to into a Weekly.
// Entries outside the window are ignored.
func Summarize(patientID uuid.UUID, from, to time.Time, checks []healthlog.SymptomCheck, moods []healthlog.MoodLog) Weekly {
	w := Weekly{
		PatientID:   patientID,
		From:        from,
		To:          to,
		HighestRisk: "none",
		MoodCounts:  map[healthlog.Mood]int{},
	}

	conditionCounts := map[string]int{}
	var conditionOrder []string
	penalty := 0

	for _, c := range checks {
		if c.CreatedAt.Before(from) || c.CreatedAt.After(to) {
			continue
		}
		w.SymptomChecks++
		if riskRank[c.RiskLevel] > riskRank[w.HighestRisk] {
			w.HighestRisk = c.RiskLevel
		}
		switch c.RiskLevel {
		case "high":
			w.UrgentChecks++
			penalty += 10
		case "moderate":
			penalty += 5
		}
		for _, cond := range c.Assessment.Conditions {
			if conditionCounts[cond.Name] == 0 {
				conditionOrder = append(conditionOrder, cond.Name)
			}
			conditionCounts[cond.Name]++
		}
	}

	days := map[string]bool{}
	for _, m := range moods {
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		w.MoodLogs++
		if m.Mood != "" {
			w.MoodCounts[m.Mood]++
		}
		days[m.CreatedAt.UTC().Format(time.DateOnly)] = true
		switch m.RiskAssessment {
		case triage.RiskHigh:
			w.HighRiskMoods++
			penalty += 10
		case triage.RiskModerate:
			penalty += 5
		}
	}
	w.MoodDays = len(days)

	w.TopConditions = topConditions(conditionOrder, conditionCounts, 3)
	w.Score = max(0, 100-penalty)
	w.Achievements = achievements(w)
	w.Recommendations = recommendations(w)
	return w
}

// topConditions returns up to n names by count, ties kept in first-seen order.
func topConditions(order []string, counts map[string]int, n int) []string {
	out := []string{}
	for len(out) < n {
		best := ""
		for _, name := range order {
			if slices.Contains(out, name) {
				continue
			}
			if best == "" || counts[name] > counts[best] {
				best = name
			}
		}
		if best == "" {
			break
		}
		out = append(out, best)
	}
	return out
}

func achievements(w Weekly) []string {
	out := []string{}
	if w.SymptomChecks > 0 {
		out = append(out, fmt.Sprintf("Completed symptom check %d time(s)", w.SymptomChecks))
	}
	if w.MoodDays > 0 {
		out = append(out, fmt.Sprintf("Logged mood on %d of 7 days", w.MoodDays))
	}
	if positive := w.MoodCounts[healthlog.MoodGreat] + w.MoodCounts[healthlog.MoodGood]; positive > 0 && positive*2 >= w.MoodLogs {
		out = append(out, fmt.Sprintf("Felt good or great %d time(s)", positive))
	}
	if w.SymptomChecks > 0 && w.HighestRisk == "low" {
		out = append(out, "No moderate or high risk symptoms this week")
	}
	return out
}

func recommendations(w Weekly) []string {
	var out []string
	if w.UrgentChecks > 0 {
		out = append(out, "Follow up with your doctor about this week's urgent symptoms")
	} else if w.HighestRisk == "moderate" {
		out = append(out, "Book a routine appointment if symptoms persist")
	}
	if w.HighRiskMoods > 0 {
		out = append(out, "Reach out to a helpline or someone you trust about how you have been feeling")
	}
	if w.SymptomChecks == 0 {
		out = append(out, "Use the symptom checker whenever you notice something new")
	}
	if w.MoodDays < 4 {
		out = append(out, "Log your mood daily to spot patterns")
	}
	return append(out,
		"Try to increase your daily water intake",
		"Keep a consistent sleep schedule",
	)
}

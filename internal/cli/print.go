package cli

import (
	"fmt"
	"io"
	"strings"

	"health-triage/internal/triage"
)

func printSymptoms(w io.Writer, r triage.SymptomResult) {
	if len(r.DetectedLabels) > 0 {
		fmt.Fprintf(w, "Detected: %s\n", strings.Join(r.DetectedLabels, ", "))
	} else {
		fmt.Fprintln(w, "Detected: no known symptom keywords")
	}
	fmt.Fprintf(w, "Urgency:  %s\n\n", r.Urgency)

	fmt.Fprintln(w, "Possible conditions:")
	for _, c := range r.Conditions {
		fmt.Fprintf(w, "  %3d%%  %-28s %s\n", c.Probability, c.Name, c.Severity)
	}

	fmt.Fprintln(w, "\nRecommendations:")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
	fmt.Fprintf(w, "\nNext steps: %s\n", r.NextSteps)
}

func printMood(w io.Writer, r triage.MoodResult) {
	fmt.Fprintf(w, "Risk: %s\n%s\n", r.RiskTier, r.Message)
	if len(r.Helplines) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSupport lines:")
	for _, h := range r.Helplines {
		fmt.Fprintf(w, "  %s: %s (%s)\n", h.Name, h.Number, h.Available)
	}
}

func printImage(w io.Writer, a triage.ImageAnalysis) {
	fmt.Fprintf(w, "Type: %s (risk %s, confidence %.0f%%)\n", a.Type, a.RiskLevel, a.Confidence*100)
	for _, f := range a.Findings {
		fmt.Fprintf(w, "  - %s\n", f)
	}
	fmt.Fprintf(w, "%s\n", a.Recommendation)
}

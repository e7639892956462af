package triage

// RiskTier is the mental-health risk detected in a mood narrative.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskModerate RiskTier = "moderate"
	RiskHigh     RiskTier = "high"
)

// Helpline is a support line offered when a narrative shows elevated risk.
type Helpline struct {
	Name      string `json:"name"`
	Number    string `json:"number"`
	Available string `json:"available"`
}

// MoodResult is the outcome of a mood classification.
type MoodResult struct {
	RiskTier  RiskTier   `json:"risk_tier"`
	Message   string     `json:"message"`
	Helplines []Helpline `json:"helplines,omitempty"`
}

var highRiskPhrases = []string{"suicide", "kill myself", "end it all", "want to die", "no point living"}

var moderateRiskPhrases = []string{"hopeless", "worthless", "can't cope", "overwhelming", "giving up"}

var helplines = []Helpline{
	{Name: "National Suicide Prevention", Number: "91-9152987821", Available: "24/7"},
	{Name: "Vandrevala Foundation", Number: "91-9999666555", Available: "24/7"},
	{Name: "AASRA", Number: "91-9820466726", Available: "24/7"},
	{Name: "iCall", Number: "91-9152987821", Available: "Mon-Sat, 10AM-8PM"},
}

var moodMessages = map[RiskTier]string{
	RiskHigh:     "High risk detected. Please reach out for immediate help: call one of the helplines below or someone you trust.",
	RiskModerate: "We're here to support you. Consider talking to a mental health professional.",
	RiskLow:      "Thanks for sharing. Keep taking care of your mental health!",
}

// Helplines returns the support lines offered for elevated-risk narratives.
func Helplines() []Helpline {
	return append([]Helpline(nil), helplines...)
}

// ClassifyMood scans text for high-risk phrases first and moderate-risk phrases
// second. High risk always wins when both kinds are present.
func ClassifyMood(text string) (MoodResult, error) {
	normalized, err := normalize(text)
	if err != nil {
		return MoodResult{}, err
	}

	tier := RiskLow
	switch {
	case containsAny(normalized, highRiskPhrases):
		tier = RiskHigh
	case containsAny(normalized, moderateRiskPhrases):
		tier = RiskModerate
	}

	res := MoodResult{RiskTier: tier, Message: moodMessages[tier]}
	if tier != RiskLow {
		res.Helplines = Helplines()
	}
	return res, nil
}

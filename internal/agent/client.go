package agent

import (
	"context"
	"strings"

	"health-triage/internal/copilot"
)

// intent is one canned copilot answer, chosen when any keyword occurs in the
// patient's latest message.
type intent struct {
	name     string
	keywords []string
	reply    string
}

// Order matters: the first matching intent answers.
var intents = []intent{
	{
		name:     "appointments",
		keywords: []string{"appointment", "doctor"},
		reply: "I can help with appointments. I can list your upcoming visits or help you prepare " +
			"questions for your doctor. What would you like to do?",
	},
	{
		name:     "symptoms",
		keywords: []string{"symptom", "pain", "sick"},
		reply: "I understand you're concerned about symptoms. I can give general health information, " +
			"but please consult your healthcare provider for a diagnosis. Would you like to run a " +
			"symptom check and share it with your doctor?",
	},
	{
		name:     "medication",
		keywords: []string{"medication", "medicine"},
		reply: "For medication questions, please speak with your doctor or pharmacist. I can help you " +
			"set up medication reminders or explain general adherence tips. What do you need?",
	},
	{
		name:     "nutrition",
		keywords: []string{"diet", "food", "nutrition"},
		reply: "A balanced diet is crucial for your health. Aim for plenty of vegetables, lean proteins, " +
			"whole grains, and stay hydrated. Would you like tips for your health goals?",
	},
	{
		name:     "fitness",
		keywords: []string{"exercise", "workout", "fitness"},
		reply: "Regular exercise is excellent for your health. Start at your current fitness level and " +
			"check with your doctor before beginning a new program. Would you like some general tips?",
	},
}

const defaultReply = "Thank you for your question. I'm here to provide general health information and " +
	"support. For specific medical advice, please consult your healthcare provider. Is there a " +
	"health topic you'd like to learn more about?"

var suggestions = []string{
	"Tell me more about this",
	"What should I do next?",
	"When should I see a doctor?",
}

// Responder answers copilot chat messages from a fixed intent table. It is the
// stand-in for a hosted language model and never calls out.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Respond answers the latest user message in history.
func (r *Responder) Respond(ctx context.Context, history []copilot.Message) (copilot.Reply, error) {
	if err := ctx.Err(); err != nil {
		return copilot.Reply{}, err
	}

	var last string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == copilot.RoleUser {
			last = history[i].Content
			break
		}
	}

	intentName, text := Classify(last)
	return copilot.Reply{
		Intent:      intentName,
		Text:        text,
		Suggestions: append([]string(nil), suggestions...),
	}, nil
}

// Classify picks the intent for message and returns its name and reply.
func Classify(message string) (string, string) {
	lower := strings.ToLower(message)
	for _, in := range intents {
		for _, kw := range in.keywords {
			if strings.Contains(lower, kw) {
				return in.name, in.reply
			}
		}
	}
	return "general", defaultReply
}

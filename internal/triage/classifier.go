package triage

import (
	"context"
	"time"
)

// Classifier is the context-aware form of the classification functions, used by
// services that may want to decorate them.
type Classifier interface {
	Symptoms(ctx context.Context, text string) (SymptomResult, error)
	Mood(ctx context.Context, text string) (MoodResult, error)
}

// Rules is the table-driven Classifier. It never blocks.
type Rules struct{}

func (Rules) Symptoms(_ context.Context, text string) (SymptomResult, error) {
	return ClassifySymptoms(text)
}

func (Rules) Mood(_ context.Context, text string) (MoodResult, error) {
	return ClassifyMood(text)
}

type delayed struct {
	next  Classifier
	delay time.Duration
}

// WithLatency wraps c so every call waits d before classifying. Blank input is
// rejected before the wait. The wait does not change results. A non-positive d
// returns c.
func WithLatency(c Classifier, d time.Duration) Classifier {
	if d <= 0 {
		return c
	}
	return &delayed{next: c, delay: d}
}

func (d *delayed) wait(ctx context.Context) error {
	t := time.NewTimer(d.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *delayed) Symptoms(ctx context.Context, text string) (SymptomResult, error) {
	if _, err := normalize(text); err != nil {
		return SymptomResult{}, err
	}
	if err := d.wait(ctx); err != nil {
		return SymptomResult{}, err
	}
	return d.next.Symptoms(ctx, text)
}

func (d *delayed) Mood(ctx context.Context, text string) (MoodResult, error) {
	if _, err := normalize(text); err != nil {
		return MoodResult{}, err
	}
	if err := d.wait(ctx); err != nil {
		return MoodResult{}, err
	}
	return d.next.Mood(ctx, text)
}

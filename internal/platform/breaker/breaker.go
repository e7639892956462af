// Package breaker guards outbound calls (Telegram, speech-to-text) with a
// circuit breaker so a failing dependency is not hammered on every request.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ErrOpen is returned while the circuit is open.
var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// MaxFailures consecutive failures trip the circuit. Default 3.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before probing. Default 30s.
	Timeout time.Duration
	// HalfOpenMaxRequests is how many trial requests pass while half-open. Default 1.
	HalfOpenMaxRequests uint32
}

type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

func New(name string, cfg Config) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxRequests == 0 {
		cfg.HalfOpenMaxRequests = 1
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})}
}

// Do runs fn through the breaker. Context cancellation is not counted as a
// dependency failure.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var callErr error
	_, err := b.cb.Execute(func() (interface{}, error) {
		callErr = fn(ctx)
		if callErr != nil && ctx.Err() != nil {
			return nil, nil
		}
		return nil, callErr
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	if err != nil {
		return err
	}
	return callErr
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}

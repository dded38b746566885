package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls after
// repeated provider failures.
var ErrCircuitOpen = errors.New("content provider circuit open")

// Breaker wraps a Client with a circuit breaker so a failing provider
// stops being hammered and orchestrators fail fast into their degraded
// paths instead of waiting out timeouts.
type Breaker struct {
	inner Client
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps client with a circuit breaker. The breaker opens
// after five consecutive failures and probes again after 30 seconds.
func WithBreaker(client Client) *Breaker {
	settings := gobreaker.Settings{
		Name: client.Name(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Breaker{
		inner: client,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *Breaker) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return v, err
}

// GenerateStructured implements Client.
func (b *Breaker) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.GenerateStructured(ctx, prompt, schema, out)
	})
	return err
}

// GenerateImage implements Client.
func (b *Breaker) GenerateImage(ctx context.Context, prompt string) (*Blob, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.GenerateImage(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Blob), nil
}

// GenerateSpeech implements Client.
func (b *Breaker) GenerateSpeech(ctx context.Context, text string) (*Audio, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.GenerateSpeech(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Audio), nil
}

// Name returns the wrapped provider name.
func (b *Breaker) Name() string {
	return b.inner.Name()
}

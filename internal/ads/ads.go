// Package ads provides simulated ad playback collaborators. Each provider
// registers itself with the registry so the CLI can select one by name.
package ads

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

// ErrNoFill is returned when a provider has no ad to show.
var ErrNoFill = errors.New("ads: no fill")

// DefaultDuration is the playback length when Options.Duration is zero.
const DefaultDuration = 3 * time.Second

// Countdown simulates an ad that plays for a fixed duration.
type Countdown struct {
	Duration time.Duration
}

// Play blocks for the duration or until ctx is done.
func (c Countdown) Play(ctx context.Context, kind continuation.AdKind) (bool, error) {
	return wait(ctx, c.Duration)
}

// Instant completes every ad immediately.
type Instant struct{}

func (Instant) Play(ctx context.Context, kind continuation.AdKind) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Failing never has an ad to show.
type Failing struct{}

func (Failing) Play(ctx context.Context, kind continuation.AdKind) (bool, error) {
	return false, ErrNoFill
}

// Flaky fails a seeded fraction of playbacks and plays the rest as a countdown.
type Flaky struct {
	Duration time.Duration
	FailRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFlaky creates a flaky provider with a deterministic failure sequence.
func NewFlaky(seed int64, failRate float64, d time.Duration) *Flaky {
	return &Flaky{
		Duration: d,
		FailRate: failRate,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Play fails with probability FailRate.
func (f *Flaky) Play(ctx context.Context, kind continuation.AdKind) (bool, error) {
	f.mu.Lock()
	fail := f.rng.Float64() < f.FailRate
	f.mu.Unlock()
	if fail {
		return false, ErrNoFill
	}
	return wait(ctx, f.Duration)
}

func wait(ctx context.Context, d time.Duration) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func duration(opts registry.Options) time.Duration {
	if opts.Duration > 0 {
		return opts.Duration
	}
	return DefaultDuration
}

func init() {
	registry.Register("countdown", "Simulated ad that plays for a few seconds", func(opts registry.Options) continuation.AdPlayer {
		return Countdown{Duration: duration(opts)}
	})
	registry.Register("instant", "Every ad completes immediately", func(registry.Options) continuation.AdPlayer {
		return Instant{}
	})
	registry.Register("failing", "No ad is ever available", func(registry.Options) continuation.AdPlayer {
		return Failing{}
	})
	registry.Register("flaky", "Fails a seeded fraction of ads", func(opts registry.Options) continuation.AdPlayer {
		rate := opts.FailRate
		if rate <= 0 {
			rate = 0.3
		}
		return NewFlaky(opts.Seed, rate, duration(opts))
	})
}

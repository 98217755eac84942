package ads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

func TestCountdownCompletes(t *testing.T) {
	ok, err := Countdown{Duration: time.Millisecond}.Play(context.Background(), continuation.AdRewarded)
	if !ok || err != nil {
		t.Errorf("Expected completion, got ok=%v err=%v", ok, err)
	}
}

func TestCountdownTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	ok, err := Countdown{Duration: time.Hour}.Play(ctx, continuation.AdInterstitial)
	if ok {
		t.Error("Timed out ad must not complete")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestInstantHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if ok, _ := (Instant{}).Play(ctx, continuation.AdRewarded); ok {
		t.Error("Cancelled context should not complete")
	}
}

func TestFailing(t *testing.T) {
	ok, err := Failing{}.Play(context.Background(), continuation.AdRewarded)
	if ok || !errors.Is(err, ErrNoFill) {
		t.Errorf("Expected no fill, got ok=%v err=%v", ok, err)
	}
}

func TestFlakyDeterministic(t *testing.T) {
	run := func() []bool {
		f := NewFlaky(42, 0.5, 0)
		out := make([]bool, 50)
		for i := range out {
			out[i], _ = f.Play(context.Background(), continuation.AdRewarded)
		}
		return out
	}
	a, b := run(), run()
	fails := 0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Outcome %d differs between runs", i)
		}
		if !a[i] {
			fails++
		}
	}
	if fails == 0 || fails == len(a) {
		t.Errorf("Expected a mix of outcomes, got %d failures", fails)
	}
}

func TestProvidersRegistered(t *testing.T) {
	for _, name := range []string{"countdown", "instant", "failing", "flaky"} {
		if _, err := registry.Create(name, registry.Options{Duration: time.Millisecond}); err != nil {
			t.Errorf("Provider %q: %v", name, err)
		}
	}
}

package continuation

import (
	"context"
	"time"
)

// AdPlayer plays an ad and reports whether it was watched to completion.
// Implementations should stop when ctx is done; PlayBounded does not rely on it.
type AdPlayer interface {
	Play(ctx context.Context, kind AdKind) (bool, error)
}

// PlayBounded plays an ad and returns no later than timeout, or when ctx is
// done. A player that does not return in time is left running and its
// result is discarded; the caller gets ctx's error. timeout <= 0 means no
// limit beyond ctx.
func PlayBounded(ctx context.Context, p AdPlayer, kind AdKind, timeout time.Duration) (bool, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		completed bool
		err       error
	}
	done := make(chan outcome, 1)
	go func() {
		completed, err := p.Play(ctx, kind)
		done <- outcome{completed, err}
	}()

	select {
	case o := <-done:
		return o.completed, o.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// RewardSink receives fire-and-forget reward notifications.
type RewardSink interface {
	OnCollectiblePickup()
	OnAttemptComplete(done AttemptComplete)
}

// Entitlements answers pure queries about the player's grants.
type Entitlements interface {
	IsAdFree() bool
	HasUnusedRevive() bool
}

// NoEntitlements is an Entitlements with nothing granted.
type NoEntitlements struct{}

func (NoEntitlements) IsAdFree() bool        { return false }
func (NoEntitlements) HasUnusedRevive() bool { return false }

// Notify forwards reward effects to sink. Other effects are skipped.
func Notify(sink RewardSink, effects []Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case PickupReward:
			sink.OnCollectiblePickup()
		case AttemptComplete:
			sink.OnAttemptComplete(e)
		}
	}
}

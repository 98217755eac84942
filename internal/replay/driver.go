package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/profile"
)

// Driver steps a game without a terminal. Ads are played synchronously,
// each bounded by Timeout, so the simulation never advances while one is
// pending.
type Driver struct {
	Game     *flappy.Game
	Ads      continuation.AdPlayer
	Timeout  time.Duration
	Ent      *profile.Entitlements
	Recorder *Recorder
	Publish  func([]continuation.Effect) // Optional effect sink

	adsPlayed int
}

// Step runs one tick and resolves any ad it requested.
func (d *Driver) Step(ctx context.Context, in core.InputFrame) flappy.StepResult {
	if d.Recorder != nil {
		d.Recorder.Frame(in)
	}
	res := d.Game.Step(in)
	res.Effects = d.settle(ctx, res.Effects)
	return res
}

// AdsPlayed returns how many ads were requested so far.
func (d *Driver) AdsPlayed() int {
	return d.adsPlayed
}

func (d *Driver) settle(ctx context.Context, effects []continuation.Effect) []continuation.Effect {
	all := effects
	for i := 0; i < len(all); i++ {
		switch e := all[i].(type) {
		case continuation.PlayAd:
			completed, err := d.play(ctx, e.Kind)
			if d.Recorder != nil {
				d.Recorder.AdOutcome(completed && err == nil)
			}
			all = append(all, d.Game.ResolveAd(e.Request, completed, err)...)
		case continuation.ConsumeRevivePass:
			if d.Ent != nil {
				d.Ent.SpendPass()
			}
		}
	}
	if d.Publish != nil && len(all) > 0 {
		d.Publish(all)
	}
	return all
}

func (d *Driver) play(ctx context.Context, kind continuation.AdKind) (bool, error) {
	d.adsPlayed++
	if d.Ads == nil {
		return false, errors.New("replay: no ad player")
	}
	return continuation.PlayBounded(ctx, d.Ads, kind, d.Timeout)
}

// scripted replays recorded ad outcomes in order.
type scripted struct {
	outcomes []bool
	next     int
}

func (s *scripted) Play(ctx context.Context, kind continuation.AdKind) (bool, error) {
	if s.next >= len(s.outcomes) {
		return false, fmt.Errorf("%w: ad %d was never recorded", ErrDiverged, s.next+1)
	}
	ok := s.outcomes[s.next]
	s.next++
	return ok, nil
}

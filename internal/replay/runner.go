package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/profile"
)

// ErrDiverged is returned when a replay does not reproduce its recording.
var ErrDiverged = errors.New("replay: diverged from recording")

// DefaultMaxTicks bounds a simulated attempt.
const DefaultMaxTicks = 20000

// replayEpoch is the fixed clock used for entitlements during playback.
var replayEpoch = time.Unix(0, 0).UTC()

// Result summarises a finished attempt.
type Result struct {
	Score     int
	Coins     int
	Hearts    int
	Ticks     int
	Ads       int
	Route     continuation.Route
	Counters  continuation.Counters
	Hash      uint64
	Passes    int  // Revive passes left
	Completed bool // Attempt reached Terminal
}

func resultOf(g *flappy.Game, d *Driver) Result {
	st := g.State()
	passes := 0
	if d.Ent != nil {
		passes = d.Ent.Passes()
	}
	return Result{
		Score:     st.Score,
		Coins:     st.Coins,
		Hearts:    st.Hearts,
		Ticks:     g.Tick(),
		Ads:       d.AdsPlayed(),
		Passes:    passes,
		Route:     g.Machine().Route(),
		Counters:  g.Machine().Counters(),
		Hash:      g.Hash(),
		Completed: g.Over(),
	}
}

// fixedEntitlements builds an entitlement provider whose ad-free answer
// never changes during the attempt.
func fixedEntitlements(adFree bool, passes int) *profile.Entitlements {
	var until time.Time
	if adFree {
		until = replayEpoch.Add(time.Hour)
	}
	return profile.NewEntitlements(until, passes, func() time.Time { return replayEpoch })
}

// SimOptions configures Simulate.
type SimOptions struct {
	Config   config.FlappyConfig
	Runtime  core.RuntimeConfig
	Counters continuation.Counters
	AdFree   bool
	Passes   int
	Ads      continuation.AdPlayer
	Policy   Policy
	MaxTicks int
	Player   string
	Publish  func([]continuation.Effect)
	Logger   *log.Logger
}

// Simulate plays one attempt with a policy and returns its result and recording.
func Simulate(ctx context.Context, opts SimOptions) (Result, Recording, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Policy == nil {
		opts.Policy = Autopilot{}
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = DefaultMaxTicks
	}

	ent := fixedEntitlements(opts.AdFree, opts.Passes)
	g := flappy.New(opts.Config, flappy.NewMachine(opts.Config, opts.Counters, ent, opts.Logger))
	effects := g.Reset(opts.Runtime)
	if opts.Publish != nil && len(effects) > 0 {
		opts.Publish(effects)
	}

	d := &Driver{
		Game:     g,
		Ads:      opts.Ads,
		Timeout:  opts.Config.Continuation.AdTimeout,
		Ent:      ent,
		Recorder: NewRecorder(opts.Player, g, opts.Runtime, opts.AdFree, opts.Passes),
		Publish:  opts.Publish,
	}

	// Steps spent waiting on an offer or the resume tap also count.
	for steps := 0; !g.Over() && steps < opts.MaxTicks; steps++ {
		if err := ctx.Err(); err != nil {
			return resultOf(g, d), d.Recorder.Finish(g), err
		}
		d.Step(ctx, opts.Policy.Decide(g))
	}
	// The recording is sealed before any abandon; playback never abandons.
	rec := d.Recorder.Finish(g)
	if !g.Over() {
		effects := g.Abandon()
		if opts.Publish != nil {
			opts.Publish(effects)
		}
		opts.Logger.Debug("simulation hit tick limit", "ticks", g.Tick(), "score", g.State().Score)
	}
	return resultOf(g, d), rec, nil
}

// Replay plays a recording back and verifies that it reproduces the
// recorded final state.
func Replay(ctx context.Context, rec Recording, logger *log.Logger) (Result, error) {
	if rec.Version != Version {
		return Result{}, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ent := fixedEntitlements(rec.AdFree, rec.Passes)
	g := flappy.New(rec.Config, flappy.NewMachine(rec.Config, rec.Counters, ent, logger))
	g.Reset(rec.Runtime())

	ads := &scripted{outcomes: rec.AdOutcomes}
	d := &Driver{Game: g, Ads: ads, Ent: ent}

	for _, mask := range rec.Frames {
		if err := ctx.Err(); err != nil {
			return resultOf(g, d), err
		}
		d.Step(ctx, core.FrameFromMask(mask))
	}
	logger.Debug("replay finished", "frames", len(rec.Frames), "phase", g.State().Phase)

	result := resultOf(g, d)
	if d.AdsPlayed() != len(rec.AdOutcomes) {
		return result, fmt.Errorf("%w: %d ads played, %d recorded", ErrDiverged, d.AdsPlayed(), len(rec.AdOutcomes))
	}
	if result.Score != rec.FinalScore || result.Hash != rec.FinalHash {
		return result, fmt.Errorf("%w: score %d hash %x, recorded score %d hash %x",
			ErrDiverged, result.Score, result.Hash, rec.FinalScore, rec.FinalHash)
	}
	return result, nil
}

package replay

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/ads"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// sinker never flaps; it watches the optional ad and taps to resume.
var sinker = PolicyFunc(func(g *flappy.Game) core.InputFrame {
	in := core.NewInputFrame()
	if g.Machine().Phase() == continuation.PhaseReviving {
		switch g.Machine().Stage() {
		case continuation.StageOffer:
			in.Set(core.ActionConfirm)
		case continuation.StageReady:
			in.Set(core.ActionJump)
		}
	}
	return in
})

func simOptions(policy Policy) SimOptions {
	rc := core.DefaultConfig()
	rc.Seed = 7
	return SimOptions{
		Config:   config.DefaultFlappyConfig(),
		Runtime:  rc,
		Counters: continuation.Counters{Lives: 3},
		Ads:      ads.Instant{},
		Policy:   policy,
		MaxTicks: 3000,
		Player:   "alice",
	}
}

func TestSimulateSinkerRevivesOnce(t *testing.T) {
	res, rec, err := Simulate(context.Background(), simOptions(sinker))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if !res.Completed {
		t.Fatal("Attempt should end after the second crash")
	}
	if res.Ads != 1 || res.Route != continuation.RouteOptionalAd {
		t.Errorf("Expected one optional ad, got ads=%d route=%s", res.Ads, res.Route)
	}
	if res.Counters.GamesSinceAd != 1 {
		t.Errorf("Expected GamesSinceAd=1, got %d", res.Counters.GamesSinceAd)
	}
	if len(rec.AdOutcomes) != 1 || !rec.AdOutcomes[0] {
		t.Errorf("Expected one completed ad recorded, got %v", rec.AdOutcomes)
	}
	if len(rec.Frames) == 0 {
		t.Error("Expected frames to be recorded")
	}
}

func TestReplayReproducesSimulation(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
	}{
		{"sinker", sinker},
		{"autopilot", Autopilot{}},
		{"autopilot with lives", Autopilot{PreferLife: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, rec, err := Simulate(context.Background(), simOptions(tt.policy))
			if err != nil {
				t.Fatalf("Simulate failed: %v", err)
			}

			var buf bytes.Buffer
			if err := rec.Encode(&buf); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			loaded, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			got, err := Replay(context.Background(), loaded, nil)
			if err != nil {
				t.Fatalf("Replay failed: %v", err)
			}
			if got.Score != res.Score {
				t.Errorf("Replayed score %d, simulated %d", got.Score, res.Score)
			}
			if got.Hash != rec.FinalHash {
				t.Errorf("Replayed hash %x, recorded %x", got.Hash, rec.FinalHash)
			}
		})
	}
}

func TestReplayDetectsDivergence(t *testing.T) {
	_, rec, err := Simulate(context.Background(), simOptions(sinker))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	tampered := rec
	tampered.FinalHash ^= 1
	if _, err := Replay(context.Background(), tampered, nil); !errors.Is(err, ErrDiverged) {
		t.Errorf("Expected ErrDiverged for wrong hash, got %v", err)
	}

	missing := rec
	missing.AdOutcomes = nil
	if _, err := Replay(context.Background(), missing, nil); !errors.Is(err, ErrDiverged) {
		t.Errorf("Expected ErrDiverged for missing ad outcome, got %v", err)
	}

	old := rec
	old.Version = 0
	if _, err := Replay(context.Background(), old, nil); !errors.Is(err, ErrVersion) {
		t.Errorf("Expected ErrVersion, got %v", err)
	}
}

func TestRecordingFile(t *testing.T) {
	_, rec, err := Simulate(context.Background(), simOptions(Autopilot{}))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "runs", "alice.fpr")
	if err := rec.SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Player != "alice" || loaded.Seed != 7 || len(loaded.Frames) != len(rec.Frames) {
		t.Errorf("Loaded recording mismatch: player=%q seed=%d frames=%d", loaded.Player, loaded.Seed, len(loaded.Frames))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.fpr")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFailingAdsEndAttempt(t *testing.T) {
	opts := simOptions(sinker)
	opts.Ads = ads.Failing{}

	var completes int
	opts.Publish = func(effects []continuation.Effect) {
		for _, e := range effects {
			if _, ok := e.(continuation.AttemptComplete); ok {
				completes++
			}
		}
	}

	res, rec, err := Simulate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if !res.Completed || res.Ads != 1 {
		t.Errorf("Expected attempt to end after one failed ad, got %+v", res)
	}
	if completes != 1 {
		t.Errorf("Expected exactly one AttemptComplete, got %d", completes)
	}
	if len(rec.AdOutcomes) != 1 || rec.AdOutcomes[0] {
		t.Errorf("Expected one failed ad recorded, got %v", rec.AdOutcomes)
	}
}

// stuckAds never returns until released and ignores ctx.
type stuckAds struct{ release chan struct{} }

func (a stuckAds) Play(context.Context, continuation.AdKind) (bool, error) {
	<-a.release
	return true, nil
}

func TestStuckAdTimesOut(t *testing.T) {
	ads := stuckAds{release: make(chan struct{})}
	t.Cleanup(func() { close(ads.release) })

	opts := simOptions(sinker)
	opts.Ads = ads
	opts.Config.Continuation.AdTimeout = 20 * time.Millisecond

	res, rec, err := Simulate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if !res.Completed || res.Ads != 1 {
		t.Errorf("Expected attempt to end after the ad timed out, got %+v", res)
	}
	if len(rec.AdOutcomes) != 1 || rec.AdOutcomes[0] {
		t.Errorf("Expected one failed ad recorded, got %v", rec.AdOutcomes)
	}
}

func TestMandatoryAdInSimulation(t *testing.T) {
	opts := simOptions(sinker)
	opts.Counters.GamesSinceAd = 1

	res, _, err := Simulate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if res.Route != continuation.RouteMandatoryAd {
		t.Errorf("Expected mandatory ad route, got %s", res.Route)
	}
	if res.Counters.GamesSinceAd != 0 {
		t.Errorf("Mandatory ad should reset the counter, got %d", res.Counters.GamesSinceAd)
	}
}

func TestAutopilotAnswersOffer(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	newGame := func(lives int) *flappy.Game {
		g := flappy.New(cfg, flappy.NewMachine(cfg, continuation.Counters{Lives: lives}, nil, nil))
		g.Reset(core.DefaultConfig())
		// Sink until the offer opens.
		for i := 0; i < 500 && g.Machine().Phase() == continuation.PhasePlaying; i++ {
			g.Step(core.NewInputFrame())
		}
		if g.Machine().Stage() != continuation.StageOffer {
			t.Fatalf("Expected open offer, got %s", g.State().Phase)
		}
		return g
	}

	tests := []struct {
		name  string
		pilot Autopilot
		lives int
		want  core.Action
	}{
		{"watch ad", Autopilot{}, 2, core.ActionConfirm},
		{"use life", Autopilot{PreferLife: true}, 2, core.ActionUseLife},
		{"no life left", Autopilot{PreferLife: true}, 0, core.ActionConfirm},
		{"decline", Autopilot{Decline: true}, 2, core.ActionDecline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.pilot.Decide(newGame(tt.lives))
			if !in.Has(tt.want) {
				t.Errorf("Expected %s, got %v", tt.want, in.Actions)
			}
		})
	}
}

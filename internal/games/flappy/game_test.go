package flappy

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// crash drops the actor onto the ground on the next tick.
func crash(g *Game) StepResult {
	g.body.Y = g.floor() - 0.5
	g.body.Vel = 1
	return g.Step(input())
}

func TestGameDeterminism(t *testing.T) {
	// Test that given the same seed and inputs, the game produces identical results
	inputSequence := make([]core.InputFrame, 600)
	for i := range inputSequence {
		inputSequence[i] = core.NewInputFrame()
		if i%9 == 0 {
			inputSequence[i].Set(core.ActionJump)
		}
		if i%97 == 0 {
			inputSequence[i].Set(core.ActionDecline)
		}
	}

	run := func() []uint64 {
		g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})
		hashes := make([]uint64, 0, len(inputSequence))
		for _, in := range inputSequence {
			g.Step(in)
			hashes = append(hashes, g.Hash())
		}
		return hashes
	}

	h1, h2 := run(), run()
	for i := range h1 {
		if h1[i] != h2[i] {
			t.Fatalf("Determinism failed at tick %d: %x != %x", i, h1[i], h2[i])
		}
	}
}

func TestGameReset(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})

	// Play a few ticks
	for i := 0; i < 50; i++ {
		if i%10 == 0 {
			g.Step(input(core.ActionJump))
		} else {
			g.Step(input())
		}
	}

	// Reset mid-attempt abandons it
	effects := g.Reset(testRuntime(1))
	done, ok := hasEffect[continuation.AttemptComplete](effects)
	if !ok || !done.Abandoned {
		t.Errorf("Reset mid-attempt should abandon it, got %v", effects)
	}

	if g.score != 0 {
		t.Errorf("Reset should clear score, got %d", g.score)
	}
	if g.paused {
		t.Error("Reset should clear paused flag")
	}
	if g.tickCount != 0 {
		t.Errorf("Reset should clear tickCount, got %d", g.tickCount)
	}
	if g.machine.Phase() != continuation.PhasePlaying {
		t.Errorf("Reset should start a new attempt, got %s", g.machine.Phase())
	}
}

func TestGameJumpPhysics(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})
	initialY := g.body.Y

	g.Step(input(core.ActionJump))

	if g.body.Y >= initialY {
		t.Errorf("Jump should move player up, was %f, now %f", initialY, g.body.Y)
	}
	if g.body.Vel >= 0 {
		t.Errorf("Jump velocity should be negative, got %f", g.body.Vel)
	}
}

func TestGameGravity(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})
	g.body.Y = 10
	g.body.Vel = 0

	g.Step(input())

	if g.body.Y <= 10 {
		t.Errorf("Gravity should pull player down, Y is still %f", g.body.Y)
	}
	if g.body.Vel != g.cfg.Physics.Gravity {
		t.Errorf("Velocity should equal gravity after one tick, got %f", g.body.Vel)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})

	g.Step(input(core.ActionPause))
	if !g.paused {
		t.Fatal("Game should be paused")
	}

	yBefore := g.body.Y
	g.Step(input(core.ActionJump))
	if g.body.Y != yBefore {
		t.Errorf("Player position should not change while paused, was %f, now %f", yBefore, g.body.Y)
	}

	g.Step(input(core.ActionPause))
	if g.paused {
		t.Error("Game should be unpaused")
	}
}

func TestGroundCollisionOpensOffer(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})

	result := crash(g)
	if result.State.Phase != "reviving/offer" {
		t.Fatalf("Expected revive offer, got %s", result.State.Phase)
	}
	if _, ok := hasEffect[continuation.OfferRevive](result.Effects); !ok {
		t.Error("Expected OfferRevive effect")
	}

	// Impulses are ignored outside Playing.
	y := g.body.Y
	g.Step(input(core.ActionJump))
	if g.body.Y != y {
		t.Error("Impulse must be dropped while the offer is open")
	}

	result = g.Step(input(core.ActionDecline))
	if !result.State.GameOver {
		t.Error("Declining should end the attempt")
	}
}

func TestOfferExpires(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})
	crash(g)

	for i := 0; i < g.cfg.Continuation.OfferTicks-1; i++ {
		g.Step(input())
	}
	if g.Over() {
		t.Fatal("Offer expired too early")
	}
	result := g.Step(input())
	if !result.State.GameOver {
		t.Error("Offer should auto-decline after its countdown")
	}
	if _, ok := hasEffect[continuation.AttemptComplete](result.Effects); !ok {
		t.Error("Expected AttemptComplete on expiry")
	}
}

func TestReviveInvulnerability(t *testing.T) {
	g := newTestGame(t, continuation.Counters{Lives: 1}, continuation.NoEntitlements{})
	crash(g)

	result := g.Step(input(core.ActionUseLife))
	if _, ok := hasEffect[continuation.Revive](result.Effects); !ok {
		t.Fatalf("Expected revive, got %v", result.Effects)
	}
	if result.State.Lives != 0 {
		t.Errorf("Expected life spent, got %d", result.State.Lives)
	}

	// Waits for input in Ready.
	ticks := g.tickCount
	g.Step(input())
	if g.tickCount != ticks {
		t.Error("Simulation should hold until the resume tap")
	}

	result = g.Step(input(core.ActionJump))
	if _, ok := hasEffect[continuation.Resumed](result.Effects); !ok {
		t.Fatalf("Expected resume, got %v", result.Effects)
	}
	if !g.Invulnerable() {
		t.Fatal("Expected invulnerability after revive")
	}

	// A pipe right on top of the actor and a dive through the floor are both ignored.
	g.pipes.pipes = append([]Pipe{{ID: 99, X: g.body.X - 1, Width: 5, GapCenter: 2, GapHalf: 1}}, g.pipes.pipes...)
	g.body.Y = 40
	result = g.Step(input())
	if result.State.Phase != "playing" {
		t.Fatalf("Collision checks must be suppressed, got %s", result.State.Phase)
	}
	if g.body.Rect().Bottom() > g.floor() {
		t.Errorf("Actor should be kept inside the playfield, bottom %f", g.body.Rect().Bottom())
	}

	// Once the window closes the next crash ends the attempt.
	g.invulnerableUntil = 0
	result = crash(g)
	if !result.State.GameOver {
		t.Errorf("Second crash must be terminal, got %s", result.State.Phase)
	}
}

func TestAdFreeRevive(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, adFree{})

	result := crash(g)
	if _, ok := hasEffect[continuation.PlayAd](result.Effects); ok {
		t.Error("Ad-free revive must not play an ad")
	}
	rev, ok := hasEffect[continuation.Revive](result.Effects)
	if !ok || rev.Route != continuation.RouteFree {
		t.Fatalf("Expected free revive, got %v", result.Effects)
	}
	if g.body.Vel != 0 {
		t.Error("Revive should zero velocity")
	}
}

func TestMandatoryAdSuspends(t *testing.T) {
	g := newTestGame(t, continuation.Counters{GamesSinceAd: 1}, continuation.NoEntitlements{})

	result := crash(g)
	play, ok := hasEffect[continuation.PlayAd](result.Effects)
	if !ok || play.Kind != continuation.AdInterstitial {
		t.Fatalf("Expected interstitial, got %v", result.Effects)
	}
	if !g.Suspended() {
		t.Fatal("Game should be suspended during the ad")
	}

	snap := g.Hash()
	g.Step(input(core.ActionJump))
	if g.Hash() != snap {
		t.Error("State must be preserved while suspended")
	}

	effects := g.ResolveAd(play.Request, true, nil)
	if _, ok := hasEffect[continuation.Revive](effects); !ok {
		t.Errorf("Expected revive after ad, got %v", effects)
	}
	if g.Suspended() {
		t.Error("Game should not be suspended after the ad")
	}
	if g.machine.Counters().GamesSinceAd != 0 {
		t.Errorf("Expected counter reset, got %d", g.machine.Counters().GamesSinceAd)
	}
}

func TestAdFailureEndsAttempt(t *testing.T) {
	g := newTestGame(t, continuation.Counters{GamesSinceAd: 1}, continuation.NoEntitlements{})
	result := crash(g)
	play, _ := hasEffect[continuation.PlayAd](result.Effects)

	g.ResolveAd(play.Request, false, errors.New("ad: timed out"))
	if !g.Over() {
		t.Error("Failed ad must end the attempt")
	}
	if g.Suspended() {
		t.Error("Terminal game must not be suspended")
	}
}

func TestHeartPickup(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})
	cx, cy := g.body.Center()
	speed := g.cfg.Physics.BaseSpeed
	g.hearts.hearts = append(g.hearts.hearts, Heart{ID: 99, X: cx + speed, Y: cy})

	result := g.Step(input())
	if _, ok := hasEffect[continuation.PickupReward](result.Effects); !ok {
		t.Fatalf("Expected pickup reward, got %v", result.Effects)
	}
	if result.State.Hearts != 1 || result.State.Lives != 1 {
		t.Errorf("Expected 1 heart and 1 life, got %+v", result.State)
	}
	if result.State.Coins != g.cfg.Economy.CoinsPerHeart {
		t.Errorf("Expected %d coins, got %d", g.cfg.Economy.CoinsPerHeart, result.State.Coins)
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})
	rc := testRuntime(1)

	screen := core.NewScreen(rc.ScreenW, rc.ScreenH)
	g.Render(screen)

	groundY := rc.ScreenH - 1
	if screen.Get(0, groundY) != GroundChar {
		t.Errorf("Ground should be drawn at bottom, got %q", screen.Get(0, groundY))
	}
	if screen.GetCell(0, groundY).Color != core.ColorGround {
		t.Error("Ground should use the ground color")
	}
	if !strings.Contains(screen.Row(0), "Score: 0") {
		t.Errorf("HUD missing, got %q", screen.Row(0))
	}

	crash(g)
	g.Render(screen)
	if !strings.Contains(screen.String(), "CONTINUE?") {
		t.Error("Offer overlay should be drawn")
	}
}

func TestPipeCollision(t *testing.T) {
	g := newTestGame(t, continuation.Counters{}, continuation.NoEntitlements{})

	// Manually create a pipe right at the player with the gap far above
	g.pipes.pipes = append(g.pipes.pipes, Pipe{
		ID:        99,
		X:         g.body.X - 1,
		Width:     5,
		GapCenter: 3,
		GapHalf:   2,
	})

	result := g.Step(input())
	if result.State.Phase == "playing" {
		t.Error("Hitting a pipe should leave the playing phase")
	}
}

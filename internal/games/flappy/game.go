// Package flappy implements a Flappy Bird-style game.
// The player controls a bird that must navigate through gaps in vertical pipes,
// collecting hearts along the way. What happens after a crash is decided by
// the continuation machine.
package flappy

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// StepResult is returned by Step.
type StepResult struct {
	State   core.GameState
	Effects []continuation.Effect // Continuation effects produced this tick
}

// Game implements the Flappy Bird game logic.
type Game struct {
	cfg        config.FlappyConfig
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig

	body     *Body
	pipes    *PipeManager
	hearts   *HeartManager
	detector Detector
	machine  *continuation.Machine

	score             int
	heartsCollected   int
	tickCount         int // Simulated ticks this attempt
	invulnerableUntil int // Detector is skipped while tickCount < this
	offerTicks        int // Remaining ticks before an open offer is declined
	paused            bool
}

// New creates a game bound to a continuation machine.
func New(cfg config.FlappyConfig, machine *continuation.Machine) *Game {
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		machine:    machine,
	}
}

// NewMachine builds a continuation machine from the game configuration.
func NewMachine(cfg config.FlappyConfig, counters continuation.Counters, ent continuation.Entitlements, logger *log.Logger) *continuation.Machine {
	return continuation.NewMachine(continuation.Config{
		AdCadence: cfg.Continuation.AdCadence,
		MaxLives:  cfg.Continuation.MaxLives,
	}, counters, ent, logger)
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "flappy"
}

// Reset starts a new attempt. An attempt still in progress is abandoned first.
func (g *Game) Reset(rc core.RuntimeConfig) []continuation.Effect {
	var effects []continuation.Effect
	if g.machine.Phase() != continuation.PhaseIdle && g.machine.Phase() != continuation.PhaseTerminal {
		effects = append(effects, g.machine.Handle(continuation.Abandon{Score: g.score, Coins: g.Coins()})...)
	}

	g.runtime = rc
	g.score = 0
	g.heartsCollected = 0
	g.tickCount = 0
	g.invulnerableUntil = 0
	g.offerTicks = 0
	g.paused = false

	g.body = NewBody(g.cfg.Physics, g.cfg.Player, g.floor()/2)
	g.detector = Detector{Top: 0, Floor: g.floor()}
	if g.pipes == nil {
		g.pipes = NewPipeManager(rc.Seed, rc.ScreenW, g.floor(), &g.cfg, g.difficulty)
	} else {
		g.pipes.UpdateScreenSize(rc.ScreenW, g.floor())
		g.pipes.Reset(rc.Seed)
	}
	if g.hearts == nil {
		g.hearts = NewHeartManager(g.cfg.Hearts)
	} else {
		g.hearts.Reset()
	}

	return append(effects, g.machine.Handle(continuation.NewAttempt{})...)
}

// floor is the y of the ground row; the playfield is [0, floor).
func (g *Game) floor() float64 {
	return float64(g.runtime.ScreenH - 1)
}

// UpdateScreenSize adapts the playfield to a resized terminal.
func (g *Game) UpdateScreenSize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.detector.Floor = g.floor()
	if g.pipes != nil {
		g.pipes.UpdateScreenSize(w, g.floor())
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) StepResult {
	var effects []continuation.Effect

	switch g.machine.Phase() {
	case continuation.PhasePlaying:
	case continuation.PhaseReviving:
		switch g.machine.Stage() {
		case continuation.StageOffer:
			return g.result(g.stepOffer(in))
		case continuation.StageReady:
			if !in.Has(core.ActionJump) {
				return g.result(nil)
			}
			// The resume tap doubles as the first impulse.
			effects = g.handle(continuation.Resume{})
		default:
			return g.result(nil)
		}
	default:
		return g.result(nil)
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result(effects)
	}

	g.tickCount++

	// 1. Integrate
	if in.Has(core.ActionJump) {
		g.body.Impulse()
	}
	g.body.Integrate()
	if g.Invulnerable() {
		g.body.Confine(g.detector.Top, g.detector.Floor)
	}

	// 2. Advance obstacles and collectibles
	speed := g.difficulty.Speed(g.cfg.Physics.BaseSpeed, g.score, g.tickCount)
	g.score += g.pipes.Advance(g.body.X, speed)
	g.pipes.MaybeSpawn(g.tickCount, g.score)
	g.pipes.Prune()

	if latest, ok := g.pipes.Latest(); ok {
		g.hearts.MaybeSpawnForScore(g.score, g.tickCount, latest.X+latest.Width/2, latest.GapCenter)
	}
	cx, cy := g.body.Center()
	g.hearts.Advance(speed, cx, cy, g.body.Radius(), func(Heart) {
		g.heartsCollected++
		effects = append(effects, g.handle(continuation.Pickup{})...)
	})

	// 3. Detect, 4. transition
	if !g.Invulnerable() && g.detector.Check(g.body.Rect(), g.pipes.Pipes()) {
		effects = append(effects, g.handle(continuation.Collision{Score: g.score, Coins: g.Coins()})...)
	}

	return g.result(effects)
}

// stepOffer handles the revive choice and its countdown.
func (g *Game) stepOffer(in core.InputFrame) []continuation.Effect {
	switch {
	case in.Has(core.ActionConfirm):
		return g.handle(continuation.Choose{Option: continuation.OptionWatchAd})
	case in.Has(core.ActionUseLife):
		if effects := g.handle(continuation.Choose{Option: continuation.OptionUseLife}); effects != nil {
			return effects
		}
	case in.Has(core.ActionDecline):
		return g.handle(continuation.Choose{Option: continuation.OptionDecline})
	}
	g.offerTicks--
	if g.offerTicks <= 0 {
		return g.handle(continuation.Choose{Option: continuation.OptionDecline})
	}
	return nil
}

// ResolveAd feeds an ad outcome back into the machine.
func (g *Game) ResolveAd(request uint64, completed bool, err error) []continuation.Effect {
	return g.handle(continuation.AdResult{Request: request, Completed: completed, Err: err})
}

// Abandon ends the current attempt early.
func (g *Game) Abandon() []continuation.Effect {
	return g.handle(continuation.Abandon{Score: g.score, Coins: g.Coins()})
}

// handle forwards ev to the machine and applies the effects that belong to
// the simulation itself. All effects are returned for the caller.
func (g *Game) handle(ev continuation.Event) []continuation.Effect {
	effects := g.machine.Handle(ev)
	for _, e := range effects {
		switch e.(type) {
		case continuation.Revive:
			g.revive()
		case continuation.OfferRevive:
			g.offerTicks = g.cfg.Continuation.OfferTicks
		case continuation.AttemptComplete:
			g.paused = false
		}
	}
	return effects
}

// revive puts the actor in the nearest gap and arms invulnerability.
func (g *Game) revive() {
	y := g.floor() / 2
	if p, ok := g.pipes.Nearest(g.body.X); ok {
		y = p.GapCenter
	}
	g.body.Place(y - g.body.H/2)
	g.body.Confine(g.detector.Top, g.detector.Floor)
	g.invulnerableUntil = g.tickCount + g.cfg.Continuation.InvulnerableTicks
}

func (g *Game) result(effects []continuation.Effect) StepResult {
	return StepResult{State: g.State(), Effects: effects}
}

// Invulnerable reports whether collision checks are suppressed this tick.
func (g *Game) Invulnerable() bool {
	return g.tickCount < g.invulnerableUntil
}

// Suspended reports whether the loop should stop ticking until an ad resolves.
func (g *Game) Suspended() bool {
	switch g.machine.Phase() {
	case continuation.PhaseMandatoryAd:
		return true
	case continuation.PhaseReviving:
		return g.machine.Stage() == continuation.StageAwaitingAd
	}
	return false
}

// Over reports whether the attempt has ended.
func (g *Game) Over() bool {
	return g.machine.Phase() == continuation.PhaseTerminal
}

// Coins returns the coins earned so far this attempt.
func (g *Game) Coins() int {
	return g.score*g.cfg.Economy.CoinsPerPoint + g.heartsCollected*g.cfg.Economy.CoinsPerHeart
}

// Machine exposes the continuation machine for inspection.
func (g *Game) Machine() *continuation.Machine {
	return g.machine
}

// Config returns the game configuration.
func (g *Game) Config() config.FlappyConfig {
	return g.cfg
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	phase := g.machine.Phase().String()
	if g.machine.Phase() == continuation.PhaseReviving {
		phase += "/" + g.machine.Stage().String()
	}
	return core.GameState{
		Score:    g.score,
		Phase:    phase,
		Lives:    g.machine.Counters().Lives,
		Coins:    g.Coins(),
		Hearts:   g.heartsCollected,
		GameOver: g.Over(),
		Paused:   g.paused,
	}
}

// Actor returns a copy of the actor body.
func (g *Game) Actor() Body {
	return *g.body
}

// NextPipe returns the first pipe the actor has not cleared yet.
func (g *Game) NextPipe() (Pipe, bool) {
	return g.pipes.Nearest(g.body.X)
}

// Floor returns the y of the ground row.
func (g *Game) Floor() float64 {
	return g.floor()
}

// Tick returns the number of simulated ticks in this attempt.
func (g *Game) Tick() int {
	return g.tickCount
}

// OfferTicksLeft returns the remaining ticks of an open revive offer.
func (g *Game) OfferTicksLeft() int {
	return g.offerTicks
}

package replay

import (
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// Policy chooses the input for the next tick.
type Policy interface {
	Decide(g *flappy.Game) core.InputFrame
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(g *flappy.Game) core.InputFrame

func (f PolicyFunc) Decide(g *flappy.Game) core.InputFrame { return f(g) }

// Autopilot is a simple bot that flaps whenever it sinks below the centre of
// the next gap. Offers are answered with a life when PreferLife is set and a
// life is available, otherwise with the optional ad.
type Autopilot struct {
	PreferLife bool
	Decline    bool // Never revive
}

// Decide implements Policy.
func (a Autopilot) Decide(g *flappy.Game) core.InputFrame {
	in := core.NewInputFrame()
	m := g.Machine()

	switch m.Phase() {
	case continuation.PhaseReviving:
		switch m.Stage() {
		case continuation.StageOffer:
			switch {
			case a.Decline:
				in.Set(core.ActionDecline)
			case a.PreferLife && m.Counters().Lives > 0:
				in.Set(core.ActionUseLife)
			default:
				in.Set(core.ActionConfirm)
			}
		case continuation.StageReady:
			in.Set(core.ActionJump)
		}
		return in
	case continuation.PhasePlaying:
	default:
		return in
	}

	body := g.Actor()
	target := g.Floor() / 2
	if p, ok := g.NextPipe(); ok {
		target = p.GapCenter
	}
	_, cy := body.Center()
	if cy > target && body.Vel >= 0 && body.Y > 1 {
		in.Set(core.ActionJump)
	}
	return in
}

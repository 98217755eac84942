package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// Detector checks the actor against the playfield bounds and the pipes.
// It holds no state besides the bounds, so results are reproducible.
type Detector struct {
	Top   float64
	Floor float64
}

// Check reports whether actor leaves the bounds or touches a pipe's solid part.
// pipes must be sorted by x.
func (d Detector) Check(actor core.RectF, pipes []Pipe) bool {
	if actor.Y < d.Top || actor.Bottom() > d.Floor {
		return true
	}
	for _, p := range pipes {
		if p.Right() <= actor.X {
			continue // Behind
		}
		if p.X >= actor.Right() {
			break // This and every later pipe is ahead
		}
		if actor.Intersects(p.TopRect()) || actor.Intersects(p.BottomRect(d.Floor)) {
			return true
		}
	}
	return false
}

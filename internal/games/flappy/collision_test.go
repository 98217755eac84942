package flappy

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

func TestDetectorCheck(t *testing.T) {
	d := Detector{Top: 0, Floor: 23}
	pipe := Pipe{ID: 1, X: 20, Width: 5, GapCenter: 10, GapHalf: 3} // gap [7, 13]

	tests := []struct {
		name  string
		actor core.RectF
		pipes []Pipe
		want  bool
	}{
		{"free air", core.NewRectF(10, 10, 2, 1), nil, false},
		{"above ceiling", core.NewRectF(10, -0.1, 2, 1), nil, true},
		{"below floor", core.NewRectF(10, 22.5, 2, 1), nil, true},
		{"resting on floor", core.NewRectF(10, 22, 2, 1), nil, false},
		{"inside gap", core.NewRectF(21, 9, 2, 1), []Pipe{pipe}, false},
		{"hits top section", core.NewRectF(21, 6.5, 2, 1), []Pipe{pipe}, true},
		{"hits bottom section", core.NewRectF(21, 12.5, 2, 1), []Pipe{pipe}, true},
		{"touching leading edge", core.NewRectF(18, 2, 2, 1), []Pipe{pipe}, false},
		{"pipe behind", core.NewRectF(30, 2, 2, 1), []Pipe{pipe}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Check(tt.actor, tt.pipes); got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectorPure(t *testing.T) {
	d := Detector{Top: 0, Floor: 23}
	pipes := []Pipe{
		{ID: 1, X: 8, Width: 5, GapCenter: 5, GapHalf: 3},
		{ID: 2, X: 40, Width: 5, GapCenter: 15, GapHalf: 3},
	}
	actor := core.NewRectF(10, 12, 2, 1)

	first := d.Check(actor, pipes)
	for i := 0; i < 100; i++ {
		if d.Check(actor, pipes) != first {
			t.Fatal("Check must return the same result for the same input")
		}
	}
	if !first {
		t.Error("Actor below the first gap should collide")
	}
}

func TestDetectorStopsAtPipesAhead(t *testing.T) {
	d := Detector{Top: 0, Floor: 23}
	// The second pipe would collide, but it is fully ahead of the actor.
	pipes := []Pipe{
		{ID: 1, X: 30, Width: 5, GapCenter: 10, GapHalf: 3},
		{ID: 2, X: 9, Width: 5, GapCenter: 1, GapHalf: 1},
	}
	if d.Check(core.NewRectF(10, 10, 2, 1), pipes) {
		t.Error("Iteration should stop at the first pipe fully ahead")
	}
}

package flappy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Pipe is a vertical obstacle with a gap for the actor to pass through.
type Pipe struct {
	ID        int
	X         float64 // Left edge
	Width     float64
	GapCenter float64
	GapHalf   float64
	Passed    bool // Actor cleared the trailing edge (scored once)
}

// Right returns the trailing edge.
func (p Pipe) Right() float64 {
	return p.X + p.Width
}

// GapTop returns the first y inside the gap.
func (p Pipe) GapTop() float64 {
	return p.GapCenter - p.GapHalf
}

// GapBottom returns the first y below the gap.
func (p Pipe) GapBottom() float64 {
	return p.GapCenter + p.GapHalf
}

// TopRect returns the solid region above the gap.
func (p Pipe) TopRect() core.RectF {
	return core.NewRectF(p.X, 0, p.Width, p.GapTop())
}

// BottomRect returns the solid region between the gap and the floor.
func (p Pipe) BottomRect(floor float64) core.RectF {
	return core.NewRectF(p.X, p.GapBottom(), p.Width, floor-p.GapBottom())
}

// PipeManager handles spawning, movement, and removal of pipes.
// Pipes are kept in spawn order, which is also ascending x.
type PipeManager struct {
	pipes         []Pipe
	rng           *rand.Rand
	screenW       int
	floor         float64
	nextID        int
	lastSpawnTick int
	cfg           *config.FlappyConfig
	difficulty    *config.DifficultyManager
}

// NewPipeManager creates a new pipe manager with the given RNG seed.
func NewPipeManager(seed int64, screenW int, floor float64, cfg *config.FlappyConfig, diff *config.DifficultyManager) *PipeManager {
	pm := &PipeManager{
		pipes:      make([]Pipe, 0, 8),
		screenW:    screenW,
		floor:      floor,
		cfg:        cfg,
		difficulty: diff,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
	pm.nextID = 0
	pm.lastSpawnTick = -1 // First pipe spawns on the first tick
}

// UpdateScreenSize updates the playfield dimensions.
func (pm *PipeManager) UpdateScreenSize(screenW int, floor float64) {
	pm.screenW = screenW
	pm.floor = floor
}

// Advance moves pipes left by speed and returns the points earned:
// one for each pipe whose trailing edge crossed actorX this tick.
func (pm *PipeManager) Advance(actorX, speed float64) int {
	passed := 0
	for i := range pm.pipes {
		pm.pipes[i].X -= speed
		if !pm.pipes[i].Passed && pm.pipes[i].Right() < actorX {
			pm.pipes[i].Passed = true
			passed++
		}
	}
	return passed
}

// MaybeSpawn appends a pipe at the right edge when the spawn interval has elapsed.
func (pm *PipeManager) MaybeSpawn(tick, score int) bool {
	interval := pm.difficulty.SpawnInterval(pm.cfg.Obstacles.SpawnEveryTicks, score, tick)
	if pm.lastSpawnTick >= 0 && tick-pm.lastSpawnTick < interval {
		return false
	}
	pm.lastSpawnTick = tick
	pm.spawn(score, tick)
	return true
}

func (pm *PipeManager) spawn(score, tick int) {
	obs := pm.cfg.Obstacles
	gapHalf := pm.difficulty.GapHalf(obs.GapHalf, obs.MinGapHalf, score, tick)

	// The gap never exceeds the playfield.
	usable := pm.floor - obs.TopMargin - obs.BottomMargin
	if usable < 2*gapHalf {
		gapHalf = math.Max(usable/2, 0.5)
	}

	minCenter := obs.TopMargin + gapHalf
	maxCenter := pm.floor - obs.BottomMargin - gapHalf
	center := pm.floor / 2
	if maxCenter > minCenter {
		center = minCenter + pm.rng.Float64()*(maxCenter-minCenter)
	}

	pm.nextID++
	pm.pipes = append(pm.pipes, Pipe{
		ID:        pm.nextID,
		X:         float64(pm.screenW),
		Width:     obs.PipeWidth,
		GapCenter: center,
		GapHalf:   gapHalf,
	})
}

// Prune removes pipes that have moved off the left side.
func (pm *PipeManager) Prune() {
	valid := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.Right() > 0 {
			valid = append(valid, p)
		}
	}
	pm.pipes = valid
}

// Nearest returns the first pipe whose trailing edge is not behind actorX.
func (pm *PipeManager) Nearest(actorX float64) (Pipe, bool) {
	for _, p := range pm.pipes {
		if p.Right() >= actorX {
			return p, true
		}
	}
	return Pipe{}, false
}

// Latest returns the most recently spawned pipe.
func (pm *PipeManager) Latest() (Pipe, bool) {
	if len(pm.pipes) == 0 {
		return Pipe{}, false
	}
	return pm.pipes[len(pm.pipes)-1], true
}

// Pipes returns the current list of pipes.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Heart is a collectible that restores a life.
type Heart struct {
	ID        int
	X, Y      float64 // Center
	Collected bool
	SpawnTick int
}

// HeartManager spawns hearts at score thresholds and collects them.
type HeartManager struct {
	hearts     []Heart
	thresholds []int
	fired      map[int]bool
	nextID     int
	radius     float64
}

// NewHeartManager creates a manager for the ascending threshold set.
func NewHeartManager(cfg config.HeartsConfig) *HeartManager {
	hm := &HeartManager{
		thresholds: append([]int(nil), cfg.Thresholds...),
		fired:      make(map[int]bool, len(cfg.Thresholds)),
		radius:     cfg.Radius,
	}
	return hm
}

// Reset clears hearts and the fired thresholds. IDs keep increasing.
func (hm *HeartManager) Reset() {
	hm.hearts = hm.hearts[:0]
	for k := range hm.fired {
		delete(hm.fired, k)
	}
}

// MaybeSpawnForScore spawns one heart at (x, y) for every threshold that
// score has reached and that has not fired yet this attempt.
func (hm *HeartManager) MaybeSpawnForScore(score, tick int, x, y float64) int {
	spawned := 0
	for _, th := range hm.thresholds {
		if th > score {
			break
		}
		if hm.fired[th] {
			continue
		}
		hm.fired[th] = true
		hm.nextID++
		hm.hearts = append(hm.hearts, Heart{ID: hm.nextID, X: x, Y: y, SpawnTick: tick})
		spawned++
	}
	return spawned
}

// Advance moves hearts left, collects those within reach of the actor
// centered at (cx, cy), and drops collected and off-screen hearts.
// onCollect runs exactly once per collected heart.
func (hm *HeartManager) Advance(speed, cx, cy, actorRadius float64, onCollect func(Heart)) {
	valid := hm.hearts[:0]
	for _, h := range hm.hearts {
		h.X -= speed
		if !h.Collected && core.Distance(h.X, h.Y, cx, cy) < actorRadius+hm.radius {
			h.Collected = true
			if onCollect != nil {
				onCollect(h)
			}
		}
		if h.Collected || h.X+hm.radius < 0 {
			continue
		}
		valid = append(valid, h)
	}
	hm.hearts = valid
}

// Hearts returns pending hearts.
func (hm *HeartManager) Hearts() []Heart {
	return hm.hearts
}

// Fired reports whether threshold has fired this attempt.
func (hm *HeartManager) Fired(threshold int) bool {
	return hm.fired[threshold]
}

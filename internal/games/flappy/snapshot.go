package flappy

import (
	"hash/fnv"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is a serializable view of the simulation used to compare runs.
type Snapshot struct {
	Tick         int     `msgpack:"tick"`
	Score        int     `msgpack:"score"`
	Hearts       int     `msgpack:"hearts"`
	ActorY       float64 `msgpack:"actor_y"`
	ActorVel     float64 `msgpack:"actor_vel"`
	Invulnerable int     `msgpack:"invulnerable_until"`
	Pipes        []Pipe  `msgpack:"pipes"`
	Pending      []Heart `msgpack:"pending_hearts"`
	Phase        string  `msgpack:"phase"`
	Stage        string  `msgpack:"stage"`
	GamesSinceAd int     `msgpack:"games_since_ad"`
	Lives        int     `msgpack:"lives"`
}

// Snapshot captures the current simulation state.
func (g *Game) Snapshot() Snapshot {
	c := g.machine.Counters()
	return Snapshot{
		Tick:         g.tickCount,
		Score:        g.score,
		Hearts:       g.heartsCollected,
		ActorY:       g.body.Y,
		ActorVel:     g.body.Vel,
		Invulnerable: g.invulnerableUntil,
		Pipes:        append([]Pipe(nil), g.pipes.Pipes()...),
		Pending:      append([]Heart(nil), g.hearts.Hearts()...),
		Phase:        g.machine.Phase().String(),
		Stage:        g.machine.Stage().String(),
		GamesSinceAd: c.GamesSinceAd,
		Lives:        c.Lives,
	}
}

// Hash returns a 64-bit FNV-1a digest of the msgpack encoding.
func (s Snapshot) Hash() uint64 {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	h.Write(data) //nolint:errcheck
	return h.Sum64()
}

// Hash is shorthand for g.Snapshot().Hash().
func (g *Game) Hash() uint64 {
	return g.Snapshot().Hash()
}

package flappy

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// testConfig returns defaults with difficulty progression off so that
// speeds, gaps and cadence stay at their base values.
func testConfig() config.FlappyConfig {
	cfg := config.DefaultFlappyConfig()
	cfg.Difficulty.Enabled = false
	cfg.Difficulty.InitialLevel = 0
	return cfg
}

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func newTestGame(t *testing.T, counters continuation.Counters, ent continuation.Entitlements) *Game {
	t.Helper()
	cfg := testConfig()
	g := New(cfg, NewMachine(cfg, counters, ent, log.New(io.Discard)))
	g.Reset(testRuntime(1))
	return g
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func hasEffect[T continuation.Effect](effects []continuation.Effect) (T, bool) {
	for _, e := range effects {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

type adFree struct{}

func (adFree) IsAdFree() bool        { return true }
func (adFree) HasUnusedRevive() bool { return false }

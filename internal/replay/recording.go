// Package replay records attempts and plays them back headlessly.
//
// A recording holds everything the simulation depends on: the seed, the
// screen size, the game configuration, the counters and entitlements at the
// start of the attempt, one action mask per simulated step and the outcome
// of every ad in the order it was resolved.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// Version is the current recording format.
const Version = 1

// ErrVersion is returned when a recording uses an unknown format.
var ErrVersion = errors.New("replay: unsupported recording version")

// Recording is one recorded attempt.
type Recording struct {
	Version    int                   `msgpack:"v"`
	Player     string                `msgpack:"player"`
	RecordedAt time.Time             `msgpack:"recorded_at"`
	Seed       int64                 `msgpack:"seed"`
	ScreenW    int                   `msgpack:"screen_w"`
	ScreenH    int                   `msgpack:"screen_h"`
	Config     config.FlappyConfig   `msgpack:"config"`
	Counters   continuation.Counters `msgpack:"counters"`
	AdFree     bool                  `msgpack:"ad_free"`
	Passes     int                   `msgpack:"passes"`
	Frames     []uint16              `msgpack:"frames"`
	AdOutcomes []bool                `msgpack:"ads"`
	FinalScore int                   `msgpack:"final_score"`
	FinalHash  uint64                `msgpack:"final_hash"`
}

// Runtime returns the runtime config the attempt was played with.
func (r Recording) Runtime() core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.ScreenW = r.ScreenW
	rc.ScreenH = r.ScreenH
	rc.Seed = r.Seed
	return rc
}

// Encode writes the recording to w.
func (r Recording) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a recording from rd.
func Decode(rd io.Reader) (Recording, error) {
	var r Recording
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return Recording{}, fmt.Errorf("replay: decode: %w", err)
	}
	if r.Version != Version {
		return Recording{}, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return r, nil
}

// SaveFile writes the recording to path, creating parent directories.
func (r Recording) SaveFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("replay: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: create: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a recording from path.
func LoadFile(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("replay: open: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Recorder accumulates a recording while an attempt is played.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for a game that was just Reset.
func NewRecorder(player string, g *flappy.Game, rc core.RuntimeConfig, adFree bool, passes int) *Recorder {
	return &Recorder{rec: Recording{
		Version:    Version,
		Player:     player,
		RecordedAt: time.Now(),
		Seed:       rc.Seed,
		ScreenW:    rc.ScreenW,
		ScreenH:    rc.ScreenH,
		Config:     g.Config(),
		Counters:   g.Machine().Counters(),
		AdFree:     adFree,
		Passes:     passes,
	}}
}

// Frame records the input of one Step call.
func (r *Recorder) Frame(in core.InputFrame) {
	r.rec.Frames = append(r.rec.Frames, in.Mask())
}

// AdOutcome records the result of one ad playback.
func (r *Recorder) AdOutcome(completed bool) {
	r.rec.AdOutcomes = append(r.rec.AdOutcomes, completed)
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int {
	return len(r.rec.Frames)
}

// Finish seals the recording with the final state of g.
func (r *Recorder) Finish(g *flappy.Game) Recording {
	out := r.rec
	out.Frames = append([]uint16(nil), r.rec.Frames...)
	out.AdOutcomes = append([]bool(nil), r.rec.AdOutcomes...)
	out.FinalScore = g.State().Score
	out.FinalHash = g.Hash()
	return out
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Verify a recorded attempt",
	Long: `Play a recording back headlessly and check that it reproduces the
recorded score and final state. Recordings are written by
'flappy play --record <dir>' and 'flappy sim --out <file>'.

Exits non-zero when the playback diverges.

Examples:
  flappy replay run.fpr
  flappy replay ~/runs/alice_20260301-120000.fpr`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	rec, err := replay.LoadFile(expandHome(args[0]))
	if err != nil {
		return err
	}

	fmt.Printf("Recording: %s (seed %d, %dx%d, %d frames, %d ads)\n",
		rec.Player, rec.Seed, rec.ScreenW, rec.ScreenH, len(rec.Frames), len(rec.AdOutcomes))
	fmt.Printf("Recorded:  %s\n", rec.RecordedAt.Format("2006-01-02 15:04:05"))

	res, err := replay.Replay(cmd.Context(), rec, stderrLogger().WithPrefix("replay"))
	if errors.Is(err, replay.ErrDiverged) {
		fmt.Printf("DIVERGED:  score %d (recorded %d)\n", res.Score, rec.FinalScore)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("OK:        score %d, coins %d, route %s, %d ticks\n", res.Score, res.Coins, res.Route, res.Ticks)
	return nil
}

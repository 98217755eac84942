package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/profile"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagDifficulty string
	flagAds        string
	flagAdDuration time.Duration
	flagAdFailRate float64
	flagRecordDir  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a single session",
	Long: `Start playing straight away.

Controls:
  Space/Up/W   - Flap (also resumes after a revive)
  P            - Pause
  Enter/A      - Watch an ad to revive
  L            - Spend a life or revive pass
  N/X          - Decline the revive
  R            - Restart (after game over or while paused)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  flappy play
  flappy play --difficulty hard
  flappy play --ads flaky --ad-fail-rate 0.5
  flappy play --record ./runs
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addAdFlags(playCmd)
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagRecordDir, "record", "", "Directory to write attempt recordings to")
}

// addAdFlags registers the ad provider flags on cmd.
func addAdFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagAds, "ads", "countdown", "Ad provider (see 'flappy ads')")
	cmd.Flags().DurationVar(&flagAdDuration, "ad-duration", 0, "Simulated ad length (0 = provider default)")
	cmd.Flags().Float64Var(&flagAdFailRate, "ad-fail-rate", 0, "Failure probability for the flaky provider")
}

func adOptions(seed int64) registry.Options {
	return registry.Options{
		Duration: flagAdDuration,
		Seed:     seed,
		FailRate: flagAdFailRate,
	}
}

// terminalRuntime sizes the runtime config from the controlling terminal.
func terminalRuntime() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed(),
	}
}

// openProfiles opens the database. A failure is not fatal: the game still
// works without persistence, so both returns are nil then.
func openProfiles(cfg config.FlappyConfig, logger *log.Logger) (*storage.Store, *profile.Service) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("playing without persistence", "err", err)
		return nil, nil
	}
	return store, profile.NewService(store, cfg.Continuation, logger.WithPrefix("profiles"))
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig(flagDifficulty)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rc := terminalRuntime()
	ads, err := registry.Create(flagAds, adOptions(rc.Seed))
	if err != nil {
		return err
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	store, profiles := openProfiles(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.Options{
		Player:    flagPlayer,
		Config:    cfg,
		Runtime:   rc,
		Ads:       ads,
		Profiles:  profiles,
		Logger:    logger,
		RecordDir: flagRecordDir,
	})
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/profile"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagSimAds        string
	flagSimRuns       int
	flagSimMaxTicks   int
	flagSimLives      int
	flagSimSinceAd    int
	flagSimAdFree     bool
	flagSimPasses     int
	flagSimPreferLife bool
	flagSimDecline    bool
	flagSimOut        string
	flagSimPersist    bool
	flagSimDifficulty string
	flagSimWidth      int
	flagSimHeight     int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Simulate attempts with the autopilot",
	Long: `Play attempts headlessly with a built-in autopilot.

Counters carry from one run to the next, so --runs shows the mandatory
ad cadence at work. With --persist the starting counters come from the
player's profile and every result is written back to the database.

Examples:
  flappy sim --seed 42
  flappy sim --runs 5 --lives 0
  flappy sim --adfree --out run.fpr
  flappy sim --persist --player bot --ads flaky`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	f := simCmd.Flags()
	f.StringVar(&flagSimAds, "ads", "instant", "Ad provider (see 'flappy ads')")
	f.DurationVar(&flagAdDuration, "ad-duration", 0, "Simulated ad length (0 = provider default)")
	f.Float64Var(&flagAdFailRate, "ad-fail-rate", 0, "Failure probability for the flaky provider")
	f.IntVar(&flagSimRuns, "runs", 1, "Number of consecutive attempts")
	f.IntVar(&flagSimMaxTicks, "max-ticks", replay.DefaultMaxTicks, "Abandon an attempt after this many steps")
	f.IntVar(&flagSimLives, "lives", -1, "Starting lives (-1 = max)")
	f.IntVar(&flagSimSinceAd, "games-since-ad", 0, "Starting mandatory ad counter")
	f.BoolVar(&flagSimAdFree, "adfree", false, "Simulate an active ad-free window")
	f.IntVar(&flagSimPasses, "passes", 0, "Premium revive passes")
	f.BoolVar(&flagSimPreferLife, "prefer-life", false, "Autopilot spends a life instead of watching an ad")
	f.BoolVar(&flagSimDecline, "decline", false, "Autopilot declines every revive offer")
	f.StringVar(&flagSimOut, "out", "", "Write the recording of the last run to this file")
	f.BoolVar(&flagSimPersist, "persist", false, "Load and save the --player profile")
	f.StringVar(&flagSimDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	f.IntVar(&flagSimWidth, "width", 80, "Playfield width")
	f.IntVar(&flagSimHeight, "height", 24, "Playfield height")
}

func runSim(cmd *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig(flagSimDifficulty)
	if err != nil {
		return err
	}
	logger := stderrLogger().WithPrefix("sim")

	rc := core.RuntimeConfig{
		ScreenW:  flagSimWidth,
		ScreenH:  flagSimHeight,
		TickRate: flagFPS,
		Seed:     seed(),
	}
	ads, err := registry.Create(flagSimAds, adOptions(rc.Seed))
	if err != nil {
		return err
	}

	counters := continuation.Counters{Lives: cfg.Continuation.MaxLives, GamesSinceAd: flagSimSinceAd}
	if flagSimLives >= 0 {
		counters.Lives = flagSimLives
	}
	adFree, passes := flagSimAdFree, flagSimPasses

	var publish func([]continuation.Effect)
	if flagSimPersist {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		svc := profile.NewService(store, cfg.Continuation, logger.WithPrefix("profiles"))
		p, err := svc.Load(flagPlayer)
		if err != nil {
			return err
		}
		ent := svc.Entitlements(p)
		counters, adFree, passes = p.Counters, ent.IsAdFree(), ent.Passes()

		dispatcher := notify.New(flagPlayer, svc, logger, notify.DefaultBufferSize)
		defer func() {
			dispatcher.Close()
			delivered, dropped, failed := dispatcher.Stats()
			logger.Info("profile updates", "delivered", delivered, "dropped", dropped, "failed", failed)
		}()
		publish = dispatcher.Publish
	}

	policy := replay.Autopilot{PreferLife: flagSimPreferLife, Decline: flagSimDecline}

	fmt.Printf("  %-4s  %-6s  %-6s  %-6s  %-6s  %-3s  %-12s  %s\n", "Run", "Score", "Coins", "Hearts", "Ticks", "Ads", "Route", "Lives/SinceAd")
	fmt.Printf("  %-4s  %-6s  %-6s  %-6s  %-6s  %-3s  %-12s  %s\n", "---", "-----", "-----", "------", "-----", "---", "-----", "-------------")

	var last replay.Recording
	for i := 0; i < flagSimRuns; i++ {
		run := rc
		run.Seed = rc.Seed + int64(i)

		res, rec, err := replay.Simulate(cmd.Context(), replay.SimOptions{
			Config:   cfg,
			Runtime:  run,
			Counters: counters,
			AdFree:   adFree,
			Passes:   passes,
			Ads:      ads,
			Policy:   policy,
			MaxTicks: flagSimMaxTicks,
			Player:   flagPlayer,
			Publish:  publish,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		last = rec

		marker := ""
		if !res.Completed {
			marker = " (abandoned)"
		}
		fmt.Printf("  %-4d  %-6d  %-6d  %-6d  %-6d  %-3d  %-12s  %d/%d%s\n",
			i+1, res.Score, res.Coins, res.Hearts, res.Ticks, res.Ads, res.Route,
			res.Counters.Lives, res.Counters.GamesSinceAd, marker)

		counters, passes = res.Counters, res.Passes
	}

	if flagSimOut != "" {
		if err := last.SaveFile(flagSimOut); err != nil {
			return fmt.Errorf("saving recording: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Recording written to %s\n", flagSimOut)
	}
	return nil
}

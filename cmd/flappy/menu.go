package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a difficulty menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a difficulty.
After an attempt ends, press Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  flappy menu
  flappy menu --fps 30
  flappy menu --player alice --db ./flappy.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	addAdFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) error {
	// Presets are applied by the menu
	cfg, err := loadGameConfig("")
	if err != nil {
		return err
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

	return tui.RunSession(tui.SessionOptions{
		Player:   flagPlayer,
		Runtime:  rc,
		Game:     cfg,
		Ads:      ads,
		Store:    store,
		Profiles: profiles,
		Logger:   logger,
	})
}

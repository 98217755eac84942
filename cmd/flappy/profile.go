package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/profile"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and manage player profiles",
	Long: `Show a player's lives, coins, ad counter and entitlements, or grant
entitlements. Granting is an operator action; there is no purchase flow.

Examples:
  flappy profile show --player alice
  flappy profile list
  flappy profile grant-adfree 24h --player alice
  flappy profile add-passes 3 --player alice`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a player's profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every player with a profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileAdFreeCmd = &cobra.Command{
	Use:   "grant-adfree <duration>",
	Short: "Extend a player's ad-free window",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAdFree,
}

var profilePassesCmd = &cobra.Command{
	Use:   "add-passes <n>",
	Short: "Credit premium revive passes",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilePasses,
}

func init() {
	profileCmd.AddCommand(profileShowCmd, profileListCmd, profileAdFreeCmd, profilePassesCmd)
}

// withProfiles opens the database and runs fn with a profile service.
func withProfiles(fn func(*storage.Store, *profile.Service, config.FlappyConfig) error) error {
	cfg, err := loadGameConfig("")
	if err != nil {
		return err
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()
	return fn(store, profile.NewService(store, cfg.Continuation, stderrLogger().WithPrefix("profiles")), cfg)
}

func runProfileShow(_ *cobra.Command, _ []string) error {
	return withProfiles(func(store *storage.Store, svc *profile.Service, cfg config.FlappyConfig) error {
		p, err := svc.Load(flagPlayer)
		if err != nil {
			return err
		}
		cc := cfg.Continuation

		fmt.Printf("Player:          %s\n", p.Player)
		fmt.Printf("Lives:           %d/%d\n", p.Counters.Lives, cc.MaxLives)
		if next := p.NextLife(cc.LifeRegen, cc.MaxLives); !next.IsZero() {
			fmt.Printf("Next life:       %s\n", next.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("Games since ad:  %d (mandatory ad every %d)\n", p.Counters.GamesSinceAd, cc.AdCadence)
		fmt.Printf("Coins:           %d\n", p.Coins)
		fmt.Printf("Hearts:          %d\n", p.HeartsCollected)
		fmt.Printf("Revive passes:   %d\n", p.RevivePasses)
		if p.Counters.AdFreeAt(time.Now()) {
			fmt.Printf("Ad-free until:   %s\n", p.Counters.AdFreeUntil.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("Ad-free:         no")
		}

		if stats, err := store.GetPlayerStats(flagPlayer); err == nil && stats.GamesCount > 0 {
			fmt.Println()
			fmt.Printf("Games: %d  Best: %d  Average: %.1f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
		}
		if routes, err := store.RouteCounts(flagPlayer); err == nil && len(routes) > 0 {
			fmt.Print("Revives:")
			for r := continuation.RouteNone; r <= continuation.RouteLife; r++ {
				if n := routes[r.String()]; n > 0 {
					fmt.Printf("  %s=%d", r, n)
				}
			}
			fmt.Println()
		}
		return nil
	})
}

func runProfileList(_ *cobra.Command, _ []string) error {
	return withProfiles(func(store *storage.Store, _ *profile.Service, _ config.FlappyConfig) error {
		players, err := store.Players()
		if err != nil {
			return err
		}
		if len(players) == 0 {
			fmt.Println("No profiles yet.")
			return nil
		}
		for _, p := range players {
			fmt.Println(p)
		}
		return nil
	})
}

func runProfileAdFree(_ *cobra.Command, args []string) error {
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", args[0], err)
	}
	return withProfiles(func(_ *storage.Store, svc *profile.Service, _ config.FlappyConfig) error {
		until, err := svc.GrantAdFree(flagPlayer, d)
		if err != nil {
			return err
		}
		fmt.Printf("%s is ad-free until %s\n", flagPlayer, until.Format("2006-01-02 15:04:05"))
		return nil
	})
}

func runProfilePasses(_ *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", args[0], err)
	}
	return withProfiles(func(_ *storage.Store, svc *profile.Service, _ config.FlappyConfig) error {
		if err := svc.AddRevivePasses(flagPlayer, n); err != nil {
			return err
		}
		fmt.Printf("Added %d revive pass(es) to %s\n", n, flagPlayer)
		return nil
	})
}

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagScoresMine    bool
	flagScoresLimit   int
	flagScoresAll     bool
	flagScoresPlayers bool
	flagScoresClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the leaderboard.

Examples:
  flappy scores
  flappy scores --mine --player alice
  flappy scores --all
  flappy scores --players
  flappy scores --clear --mine`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresMine, "mine", false, "Only show scores of --player")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every recorded score")
	scoresCmd.Flags().BoolVar(&flagScoresPlayers, "players", false, "Show per-player statistics")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete scores (of --player with --mine, otherwise all)")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	player := ""
	if flagScoresMine {
		player = flagPlayer
	}

	switch {
	case flagScoresClear:
		if err := store.ClearScores(player); err != nil {
			return err
		}
		fmt.Println("Scores cleared.")
		return nil
	case flagScoresPlayers:
		return printPlayerStats(store)
	}

	var scores []storage.ScoreEntry
	if flagScoresAll {
		scores, err = store.AllScores()
	} else {
		scores, err = store.TopScores(player, flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	// Display scores
	if player != "" {
		fmt.Printf("High Scores - %s\n", player)
	} else {
		fmt.Println("High Scores")
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %s\n", "Rank", "Player", "Score", "Coins", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %s\n", "----", "------", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-8d  %-6d  %s\n", i+1, entry.Player, entry.Score, entry.Coins, dateStr)
	}

	// Show high score
	if player != "" {
		if best, err := store.HighScore(player); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}
	}
	return nil
}

func printPlayerStats(store *storage.Store) error {
	stats, err := store.GetAllPlayersStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("  %-12s  %-6s  %-6s  %-8s  %s\n", "Player", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-12s  %-6s  %-6s  %-8s  %s\n", "------", "-----", "----", "-------", "-----------")
	for _, name := range names {
		ps := stats[name]
		fmt.Printf("  %-12s  %-6d  %-6d  %-8.1f  %s\n",
			ps.Player, ps.GamesCount, ps.HighScore, ps.AvgScore, ps.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

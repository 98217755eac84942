// flappy is a terminal reflex game with a revive and ad continuation flow.
//
// Usage:
//
//	flappy play              - Play a single session
//	flappy menu              - Pick a difficulty from a menu
//	flappy serve             - Start SSH server for remote play
//	flappy scores            - Show high scores
//	flappy profile           - Inspect and grant player entitlements
//	flappy ads               - List ad providers
//	flappy sim               - Simulate an attempt with the autopilot
//	flappy replay <file>     - Verify a recorded attempt
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.arcade/flappy.db)
//	--player <name>   - Player profile to use (default: $USER)
//	--config <path>   - Custom game config YAML
//	--log <path>      - Log file (default: ~/.arcade/flappy.log)
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Register ad providers
	_ "github.com/vovakirdan/tui-flappy/internal/ads"
	"github.com/vovakirdan/tui-flappy/internal/config"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagPlayer  string
	flagConfig  string
	flagLogPath string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - a reflex game in your terminal",
	Long: `Flappy is a terminal reflex game. Keep the bird airborne and thread
it through the pipe gaps. After a crash you may be offered one revive per
attempt: watch an ad, spend a life, or give up. Every few attempts a
mandatory ad stands in for the offer.

Available commands:
  play     - Play a single session
  menu     - Interactive difficulty menu
  serve    - Start SSH server for remote play
  scores   - View high scores
  profile  - Inspect lives, coins and entitlements
  ads      - List ad providers
  sim      - Simulate an attempt with the autopilot
  replay   - Verify a recorded attempt

Examples:
  flappy play
  flappy play --difficulty hard --ads instant
  flappy menu --player alice
  flappy serve --ssh :2222
  flappy sim --seed 42 --out run.fpr
  flappy replay run.fpr`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/flappy.db", "Path to scores and profiles database")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player profile name")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.arcade/flappy.log", "Log file path")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(adsCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
}

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// seed returns the --seed flag or a time based seed.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// loadGameConfig loads the game configuration and applies a difficulty preset.
func loadGameConfig(difficulty string) (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return cfg, err
	}
	if difficulty != "" {
		config.ApplyFlappyPreset(&cfg, config.ParsePreset(difficulty))
	}
	return cfg, nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// fileLogger opens the log file. The terminal belongs to the game, so logs
// never go to stderr while a session is running. The returned func closes
// the file.
func fileLogger() (*log.Logger, func()) {
	path := expandHome(flagLogPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return stderrLogger(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return stderrLogger(), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           logLevel(),
		Prefix:          "flappy",
	})
	return logger, func() { _ = f.Close() }
}

// stderrLogger is used by commands that do not own the terminal.
func stderrLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           logLevel(),
	})
}

func logLevel() log.Level {
	if flagVerbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/registry"
)

var adsCmd = &cobra.Command{
	Use:   "ads",
	Short: "List available ad providers",
	Long: `Display all registered ad providers with their descriptions.

Pick one with --ads on play, menu, serve or sim.`,
	Args: cobra.NoArgs,
	Run:  runAds,
}

func runAds(_ *cobra.Command, _ []string) {
	providers := registry.List()

	if len(providers) == 0 {
		fmt.Println("No ad providers registered.")
		return
	}

	fmt.Println("Ad providers:")
	fmt.Println()

	// Find max name length for alignment
	maxLen := 0
	for _, p := range providers {
		if len(p.Name) > maxLen {
			maxLen = len(p.Name)
		}
	}

	for _, p := range providers {
		fmt.Printf("  %-*s  %s\n", maxLen, p.Name, p.Description)
	}
	fmt.Println()
	fmt.Println("Use 'flappy play --ads <provider>' to pick one.")
}

package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is a summary of the current attempt for the platform layer.
type GameState struct {
	Score    int    // Points scored in this attempt
	Phase    string // Continuation phase name (playing, reviving, ...)
	Lives    int    // Lives available for a premium revive
	Coins    int    // Coins earned so far in this attempt
	Hearts   int    // Hearts collected in this attempt
	GameOver bool   // Whether the attempt has ended
	Paused   bool   // Whether the game is paused
}

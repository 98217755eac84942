package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
)

// Palette roles used by the flappy renderer.
const (
	ColorActor      = ColorBrightYellow
	ColorActorGhost = ColorGray // invulnerable after a revive
	ColorPipe       = ColorGreen
	ColorPipeCap    = ColorBrightGreen
	ColorHeart      = ColorBrightRed
	ColorGround     = ColorOrange
	ColorHUD        = ColorBrightCyan
)

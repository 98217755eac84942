// Package config provides YAML-based game configuration loading and
// difficulty management for the flappy runtime.
package config

import "time"

// FlappyConfig contains all configuration for the game.
type FlappyConfig struct {
	Physics      FlappyPhysics      `yaml:"physics"`
	Obstacles    FlappyObstacles    `yaml:"obstacles"`
	Player       FlappyPlayer       `yaml:"player"`
	Hearts       HeartsConfig       `yaml:"hearts"`
	Continuation ContinuationConfig `yaml:"continuation"`
	Economy      EconomyConfig      `yaml:"economy"`
	Difficulty   DifficultyConfig   `yaml:"difficulty"`
}

// FlappyPhysics defines physics parameters.
type FlappyPhysics struct {
	Gravity         float64 `yaml:"gravity"`           // Added to velocity every tick
	JumpImpulse     float64 `yaml:"jump_impulse"`      // Velocity set by an impulse (negative = up)
	BaseSpeed       float64 `yaml:"base_speed"`        // Cells per tick the world scrolls left
	RotationFactor  float64 `yaml:"rotation_factor"`   // Degrees of tilt per unit of velocity
	MaxRotationUp   float64 `yaml:"max_rotation_up"`   // Most negative tilt (nose up)
	MaxRotationDown float64 `yaml:"max_rotation_down"` // Most positive tilt (nose down)
}

// FlappyObstacles defines obstacle parameters.
type FlappyObstacles struct {
	PipeWidth       float64 `yaml:"pipe_width"`
	SpawnEveryTicks int     `yaml:"spawn_every_ticks"` // Cadence in elapsed ticks at lowest difficulty
	GapHalf         float64 `yaml:"gap_half"`          // Gap half-height at lowest difficulty
	MinGapHalf      float64 `yaml:"min_gap_half"`      // Playability floor
	TopMargin       float64 `yaml:"top_margin"`
	BottomMargin    float64 `yaml:"bottom_margin"`
}

// FlappyPlayer defines player parameters.
type FlappyPlayer struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// HeartsConfig defines collectible hearts.
type HeartsConfig struct {
	Thresholds []int   `yaml:"thresholds"` // Ascending scores at which a heart spawns
	Radius     float64 `yaml:"radius"`
}

// ContinuationConfig defines the revive/ad policy.
type ContinuationConfig struct {
	AdCadence         int           `yaml:"ad_cadence"`         // Mandatory ad every Nth completed attempt
	MaxLives          int           `yaml:"max_lives"`          // Lives cap
	InvulnerableTicks int           `yaml:"invulnerable_ticks"` // Collision-free window after a revive
	OfferTicks        int           `yaml:"offer_ticks"`        // How long the revive offer stays open
	AdTimeout         time.Duration `yaml:"ad_timeout"`         // Ad playback is abandoned after this
	LifeRegen         time.Duration `yaml:"life_regen"`         // One life regenerates per interval
}

// EconomyConfig defines coin rewards.
type EconomyConfig struct {
	CoinsPerPoint int `yaml:"coins_per_point"`
	CoinsPerHeart int `yaml:"coins_per_heart"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // Multiplier added to speed at max difficulty
	GapReduction     float64 `yaml:"gap_reduction"`     // Gap half-height reduction at max difficulty
	CadenceReduction int     `yaml:"cadence_reduction"` // Spawn cadence reduction (ticks) at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

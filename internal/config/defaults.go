package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the hardcoded default configuration.
// It mirrors defaults/flappy.yaml and is used if the embedded file cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:         0.25,
			JumpImpulse:     -1.6,
			BaseSpeed:       0.8,
			RotationFactor:  30,
			MaxRotationUp:   -30,
			MaxRotationDown: 90,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:       5,
			SpawnEveryTicks: 55,
			GapHalf:         5,
			MinGapHalf:      3,
			TopMargin:       2,
			BottomMargin:    2,
		},
		Player: FlappyPlayer{
			X:      10,
			Width:  2,
			Height: 1,
		},
		Hearts: HeartsConfig{
			Thresholds: []int{5, 15, 30, 50, 80, 120},
			Radius:     1.0,
		},
		Continuation: ContinuationConfig{
			AdCadence:         2,
			MaxLives:          3,
			InvulnerableTicks: 120, // 2 seconds at 60 FPS
			OfferTicks:        300, // 5 seconds at 60 FPS
			AdTimeout:         30 * time.Second,
			LifeRegen:         30 * time.Minute,
		},
		Economy: EconomyConfig{
			CoinsPerPoint: 1,
			CoinsPerHeart: 5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 60,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  0.75,
				GapReduction:     2,
				CadenceReduction: 20,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}

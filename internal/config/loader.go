package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// LoadFlappy loads the game configuration.
// Search order: customPath -> ~/.arcade/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default
func LoadFlappy(customPath string) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("flappy.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultFlappyConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/flappy.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultFlappyConfig()
	}

	// Use embedded default YAML
	var embedded FlappyConfig
	if err := yaml.Unmarshal(defaultFlappyYAML, &embedded); err != nil {
		return DefaultFlappyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyFlappyPreset modifies the config based on a difficulty preset.
func ApplyFlappyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// Validate reports the first setting that would make the simulation unplayable.
func (c FlappyConfig) Validate() error {
	switch {
	case c.Physics.Gravity <= 0:
		return fmt.Errorf("%w: physics.gravity must be positive", ErrInvalidConfig)
	case c.Physics.JumpImpulse >= 0:
		return fmt.Errorf("%w: physics.jump_impulse must be negative", ErrInvalidConfig)
	case c.Physics.BaseSpeed <= 0:
		return fmt.Errorf("%w: physics.base_speed must be positive", ErrInvalidConfig)
	case c.Obstacles.PipeWidth <= 0:
		return fmt.Errorf("%w: obstacles.pipe_width must be positive", ErrInvalidConfig)
	case c.Obstacles.SpawnEveryTicks <= 0:
		return fmt.Errorf("%w: obstacles.spawn_every_ticks must be positive", ErrInvalidConfig)
	case c.Obstacles.GapHalf < c.Obstacles.MinGapHalf || c.Obstacles.MinGapHalf <= 0:
		return fmt.Errorf("%w: obstacles.gap_half must be >= min_gap_half > 0", ErrInvalidConfig)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("%w: player size must be positive", ErrInvalidConfig)
	case c.Continuation.AdCadence < 1:
		return fmt.Errorf("%w: continuation.ad_cadence must be >= 1", ErrInvalidConfig)
	case c.Continuation.MaxLives < 0:
		return fmt.Errorf("%w: continuation.max_lives must not be negative", ErrInvalidConfig)
	case c.Continuation.AdTimeout <= 0:
		return fmt.Errorf("%w: continuation.ad_timeout must be positive", ErrInvalidConfig)
	case c.Continuation.InvulnerableTicks < 0:
		return fmt.Errorf("%w: continuation.invulnerable_ticks must not be negative", ErrInvalidConfig)
	}
	for i := 1; i < len(c.Hearts.Thresholds); i++ {
		if c.Hearts.Thresholds[i] <= c.Hearts.Thresholds[i-1] {
			return fmt.Errorf("%w: hearts.thresholds must be strictly ascending", ErrInvalidConfig)
		}
	}
	return nil
}

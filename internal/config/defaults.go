package config

import (
	_ "embed"
)

//go:embed defaults/labyrinth.yaml
var defaultLabyrinthYAML []byte

// Default returns the default labyrinth configuration.
func Default() LabyrinthConfig {
	return LabyrinthConfig{
		Grid: GridConfig{
			Width:  50,
			Height: 50,
			Depth:  10,
		},
		Stamina: StaminaConfig{
			RunDrain:     0.02,
			WalkRecovery: 0.01,
		},
		Sight: SightConfig{
			Walking: 2,
			Running: 6,
		},
		Audio: AudioConfig{
			Faint:     15.0,
			Close:     8.0,
			VeryClose: 3.0,
		},
		Timers: TimerConfig{
			VanishMin:      5.0,
			VanishMax:      10.0,
			JumpCooldown:   600.0,
			Paralysis:      120.0,
			LanternRespawn: 720.0,
		},
		Spawn: SpawnConfig{
			User:     Coords{X: 25, Y: 25, Z: 0},
			Minotaur: Coords{X: 10, Y: 10, Z: 0},
		},
		Policy: PolicyConfig{
			JumpDistance:  10.0,
			ChaseDistance: 5.0,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultLabyrinthYAML
}

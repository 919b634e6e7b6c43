// Package config provides YAML-based configuration loading for the
// labyrinth simulation.
package config

// LabyrinthConfig contains all tunable constants for a simulation session.
// Loaded once at startup and never mutated afterwards.
type LabyrinthConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Stamina StaminaConfig `yaml:"stamina"`
	Sight   SightConfig   `yaml:"sight"`
	Audio   AudioConfig   `yaml:"audio"`
	Timers  TimerConfig   `yaml:"timers"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Policy  PolicyConfig  `yaml:"policy"`
}

// GridConfig defines the labyrinth dimensions.
// Movement collides with the x/y bounds; ramps along z are unbounded.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Depth  int `yaml:"depth"`
}

// StaminaConfig defines stamina changes per step moved.
// Running drains stamina; walking recovers it.
type StaminaConfig struct {
	RunDrain     float64 `yaml:"run_drain"`
	WalkRecovery float64 `yaml:"walk_recovery"`
}

// SightConfig defines how far the user can see at each speed.
type SightConfig struct {
	Walking int `yaml:"walking"`
	Running int `yaml:"running"`
}

// AudioConfig defines distance thresholds for minotaur sound cues.
type AudioConfig struct {
	Faint     float64 `yaml:"faint"`
	Close     float64 `yaml:"close"`
	VeryClose float64 `yaml:"very_close"`
}

// TimerConfig defines the temporal state machine constants, in time units.
type TimerConfig struct {
	VanishMin      float64 `yaml:"vanish_min"`      // Shortest possible vanish duration
	VanishMax      float64 `yaml:"vanish_max"`      // Longest possible vanish duration
	JumpCooldown   float64 `yaml:"jump_cooldown"`   // Cooldown before the next jump
	Paralysis      float64 `yaml:"paralysis"`       // Paralysis duration after lantern use
	LanternRespawn float64 `yaml:"lantern_respawn"` // Lantern respawn cooldown after use
}

// SpawnConfig defines the starting coordinates for both actors.
type SpawnConfig struct {
	User     Coords `yaml:"user"`
	Minotaur Coords `yaml:"minotaur"`
}

// Coords is a YAML-friendly 3D coordinate.
type Coords struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// PolicyConfig defines the minotaur decision thresholds used by the turn loop.
type PolicyConfig struct {
	JumpDistance  float64 `yaml:"jump_distance"`  // Beyond this, jump if off cooldown
	ChaseDistance float64 `yaml:"chase_distance"` // Within this, chase onto the user's cell
}

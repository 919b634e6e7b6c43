// Package core provides fundamental types for the labyrinth simulation.
// It contains no external dependencies (especially no Bubble Tea) to keep
// simulation logic pure and testable.
package core

import "math"

// Direction is a compass or ramp direction on the labyrinth grid.
type Direction int

const (
	North Direction = iota
	South
	East
	West
	UpRamp
	DownRamp
)

// String returns the display name used in commands and narration.
func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	case East:
		return "EAST"
	case West:
		return "WEST"
	case UpRamp:
		return "UP RAMP"
	case DownRamp:
		return "DOWN RAMP"
	default:
		return "UNKNOWN"
	}
}

// CardinalDirections lists the four flat directions, in reporting order.
var CardinalDirections = []Direction{North, South, East, West}

// Position is an integer coordinate on the 3D labyrinth grid.
// It is a value type: two positions are equal iff their coordinates are.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// Step returns the position reached by moving n cells in the given direction.
// The receiver is not modified.
func (p Position) Step(d Direction, n int) Position {
	switch d {
	case North:
		p.Y += n
	case South:
		p.Y -= n
	case East:
		p.X += n
	case West:
		p.X -= n
	case UpRamp:
		p.Z += n
	case DownRamp:
		p.Z -= n
	}
	return p
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	dz := float64(p.Z - other.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 depending on the sign of x.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

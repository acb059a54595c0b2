package grid

import (
	"fmt"
	"math"
)

// MaxCoord bounds the coordinate space accepted from callers. Anything
// farther out is rejected before it can reach the node cache.
const MaxCoord = 1 << 26

// Coord identifies a single block cell by its integer corner coordinate.
type Coord struct {
	X int
	Y int
	Z int
}

// Vec3 is a world-space position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FromWorld maps a world position to the cell containing it.
func FromWorld(p Vec3) Coord {
	return Coord{
		X: int(math.Floor(p.X)),
		Y: int(math.Floor(p.Y)),
		Z: int(math.Floor(p.Z)),
	}
}

// Center returns the world-space center of the cell.
func (c Coord) Center() Vec3 {
	return Vec3{
		X: float64(c.X) + 0.5,
		Y: float64(c.Y) + 0.5,
		Z: float64(c.Z) + 0.5,
	}
}

// Offset returns the cell displaced by the given deltas.
func (c Coord) Offset(dx, dy, dz int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Key renders the coordinate in its canonical "x,y,z" form used by log
// payloads and the trace stream.
func (c Coord) Key() string {
	return fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z)
}

// InRange reports whether the coordinate sits inside the supported space.
func (c Coord) InRange() bool {
	return abs(c.X) <= MaxCoord && abs(c.Y) <= MaxCoord && abs(c.Z) <= MaxCoord
}

// Manhattan returns the L1 distance between two cells.
func Manhattan(a, b Coord) float64 {
	return float64(abs(a.X-b.X) + abs(a.Y-b.Y) + abs(a.Z-b.Z))
}

// Finite reports whether every component of p is a finite number.
func Finite(p Vec3) bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

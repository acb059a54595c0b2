package nav

import (
	"math"

	"blockpath/engine/grid"
)

const (
	// DefaultSmoothLookahead is how many waypoints ahead the smoothing pass
	// inspects for a shortcut.
	DefaultSmoothLookahead = 4

	// smoothMaxHorizontal caps the horizontal displacement a single
	// shortcut may span.
	smoothMaxHorizontal = 4.5

	// smoothMaxRise caps the net climb a shortcut may hide. Descents are
	// unrestricted.
	smoothMaxRise = 1.0
)

// Path is a finite, non-restartable waypoint sequence in world space.
// Next consumes waypoints one at a time; once drained the path is spent.
type Path struct {
	points []grid.Vec3
	cursor int
}

// Next yields the next waypoint, reporting false once the path is drained.
func (p *Path) Next() (grid.Vec3, bool) {
	if p == nil || p.cursor >= len(p.points) {
		return grid.Vec3{}, false
	}
	point := p.points[p.cursor]
	p.cursor++
	return point, true
}

// Remaining reports how many waypoints have not been consumed yet.
func (p *Path) Remaining() int {
	if p == nil {
		return 0
	}
	return len(p.points) - p.cursor
}

// Waypoints drains the rest of the path into a slice.
func (p *Path) Waypoints() []grid.Vec3 {
	if p == nil || p.cursor >= len(p.points) {
		return nil
	}
	rest := append([]grid.Vec3(nil), p.points[p.cursor:]...)
	p.cursor = len(p.points)
	return rest
}

// BuildPath converts a raw cell route into a smoothed world-space path.
// Waypoints sit at cell centers. A non-positive lookahead falls back to the
// default.
func BuildPath(route []grid.Coord, lookahead int) *Path {
	if len(route) == 0 {
		return &Path{}
	}
	if lookahead <= 0 {
		lookahead = DefaultSmoothLookahead
	}
	points := make([]grid.Vec3, len(route))
	for i, c := range route {
		points[i] = c.Center()
	}
	return &Path{points: smooth(points, lookahead)}
}

// smooth runs a single forward pass over the waypoints, skipping ahead to
// the farthest point within the lookahead window that admits a direct
// connection. The first and last waypoints always survive.
func smooth(points []grid.Vec3, lookahead int) []grid.Vec3 {
	if len(points) <= 2 {
		return points
	}
	out := make([]grid.Vec3, 0, len(points))
	out = append(out, points[0])
	i := 0
	for i < len(points)-1 {
		next := i + 1
		limit := i + lookahead
		if limit > len(points)-1 {
			limit = len(points) - 1
		}
		for j := limit; j > i+1; j-- {
			if directConnection(points[i], points[j]) {
				next = j
				break
			}
		}
		out = append(out, points[next])
		i = next
	}
	return out
}

// directConnection approves a shortcut when the horizontal displacement is
// short enough and the net vertical change is at most one cell of rise.
func directConnection(a, b grid.Vec3) bool {
	horizontal := math.Hypot(b.X-a.X, b.Z-a.Z)
	if horizontal >= smoothMaxHorizontal {
		return false
	}
	return b.Y-a.Y <= smoothMaxRise
}

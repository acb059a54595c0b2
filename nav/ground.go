package nav

import (
	"math"

	"blockpath/engine/blocks"
	"blockpath/engine/grid"
)

// Movement cost shaping. Ascending is always dearer than descending and
// diagonals pay the Euclidean constant instead of 1.
const (
	moveCost         = 1.0
	diagonalCost     = math.Sqrt2
	extendedMoveCost = 2.2
	stepUpCostPer    = 0.8
	stepDownCostPer  = 0.3
	climbUpCost      = 2.0
	climbDownCost    = 1.4

	// DefaultOriginBias gently penalizes cells far from the search origin so
	// detours stay local.
	DefaultOriginBias = 0.02
)

var cardinalDirs = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

var diagonalDirs = [4][2]int{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}

// GroundEvaluator models a walking agent: step-height limits, diagonal moves
// with corner-cut prevention, two-cell extended steps, and climbing gated on
// having something to climb. It shares the engine's node cache, so two
// evaluators over the same cache also share classification state; surcharge
// memos are generation-stamped, so they never leak between evaluators or
// across preference changes.
type GroundEvaluator struct {
	Caps       Capabilities
	Prefs      Preferences
	OriginBias float64

	cache  *NodeCache
	query  WorldQuery
	origin grid.Coord

	gen       uint64
	seenPrefs Preferences
}

// NewGroundEvaluator binds a walking-agent evaluator to a node cache and a
// world query.
func NewGroundEvaluator(cache *NodeCache, query WorldQuery, caps Capabilities) *GroundEvaluator {
	if caps.MaxStepUp <= 0 {
		caps.MaxStepUp = 1
	}
	if caps.MaxStepDown <= 0 {
		caps.MaxStepDown = 8
	}
	if caps.MaxFall <= 0 {
		caps.MaxFall = caps.MaxStepDown
	}
	return &GroundEvaluator{
		Caps:       caps,
		OriginBias: DefaultOriginBias,
		cache:      cache,
		query:      query,
		gen:        prefsGen.Add(1),
	}
}

// SetOrigin fixes the reference point for the distance-from-origin bias.
// The engine calls this once per search with the start cell.
func (e *GroundEvaluator) SetOrigin(c grid.Coord) {
	e.origin = c
}

// occupiable reports whether an agent's body can overlap the material.
func (e *GroundEvaluator) occupiable(info blocks.Info) bool {
	if !info.Solid {
		return true
	}
	if info.CrossShape {
		return true
	}
	if info.Door && e.Caps.OpenDoors {
		return true
	}
	if info.Soft && e.Caps.BreakBlocks {
		return true
	}
	return false
}

// Classify derives the terrain for a cell. An agent occupies two cells of
// height, so both the foot cell and the one above must be occupiable before
// anything else matters.
func (e *GroundEvaluator) Classify(x, y, z int) Terrain {
	foot := blocks.Lookup(e.query(x, y, z))
	head := blocks.Lookup(e.query(x, y+1, z))
	if !e.occupiable(foot) || !e.occupiable(head) {
		return TerrainBlocked
	}
	if foot.Liquid {
		if foot.Hazard {
			return TerrainBlocked
		}
		return TerrainLiquid
	}
	if foot.Climbable {
		return TerrainClimb
	}
	if foot.Door {
		return TerrainDoor
	}
	below := blocks.Lookup(e.query(x, y-1, z))
	if below.Solid && !below.CrossShape {
		return TerrainWalkable
	}
	// Air at foot level directly above a walkable surface still counts as
	// walkable so landing transitions resolve.
	if e.occupiable(below) && blocks.Lookup(e.query(x, y-2, z)).Solid {
		return TerrainWalkable
	}
	return TerrainOpen
}

// nodeAt resolves the cached node for a cell under its current terrain.
func (e *GroundEvaluator) nodeAt(x, y, z int) *Node {
	return e.cache.Get(x, y, z, e.Classify(x, y, z))
}

// standable reports terrains a ground agent can end a move on.
func standable(t Terrain) bool {
	switch t {
	case TerrainWalkable, TerrainClimb, TerrainDoor, TerrainLiquid:
		return true
	}
	return false
}

// Neighbors enumerates the legal moves out of a node. Blocked terrain is
// never emitted.
func (e *GroundEvaluator) Neighbors(n *Node) []Edge {
	edges := make([]Edge, 0, 12)
	c := n.Coord

	for _, d := range cardinalDirs {
		edges = e.appendCardinal(edges, c, d[0], d[1])
		edges = e.appendExtended(edges, c, d[0], d[1])
	}
	for _, d := range diagonalDirs {
		edges = e.appendDiagonal(edges, c, d[0], d[1])
	}
	edges = e.appendVertical(edges, n)
	return edges
}

// appendCardinal handles single-cell horizontal moves plus the step-up and
// step-down variants along the same direction.
func (e *GroundEvaluator) appendCardinal(edges []Edge, c grid.Coord, dx, dz int) []Edge {
	t := e.Classify(c.X+dx, c.Y, c.Z+dz)
	switch {
	case standable(t):
		return append(edges, Edge{To: e.cache.Get(c.X+dx, c.Y, c.Z+dz, t), Cost: moveCost})
	case t == TerrainOpen:
		// Nothing to stand on ahead: descend along the column. A descent
		// must satisfy both the step-down limit and the fall limit.
		maxDrop := e.Caps.MaxStepDown
		if e.Caps.MaxFall < maxDrop {
			maxDrop = e.Caps.MaxFall
		}
		for drop := 1; drop <= maxDrop; drop++ {
			dt := e.Classify(c.X+dx, c.Y-drop, c.Z+dz)
			if !dt.Passable() {
				break
			}
			if standable(dt) {
				cost := moveCost + stepDownCostPer*float64(drop)
				return append(edges, Edge{To: e.cache.Get(c.X+dx, c.Y-drop, c.Z+dz, dt), Cost: cost})
			}
		}
		return edges
	}

	// Blocked ahead: try stepping up onto it. The cell above the agent's
	// head must be free to make room for the hop.
	for rise := 1; rise <= e.Caps.MaxStepUp; rise++ {
		if !e.occupiable(blocks.Lookup(e.query(c.X, c.Y+1+rise, c.Z))) {
			break
		}
		ut := e.Classify(c.X+dx, c.Y+rise, c.Z+dz)
		if standable(ut) {
			cost := moveCost + stepUpCostPer*float64(rise)
			return append(edges, Edge{To: e.cache.Get(c.X+dx, c.Y+rise, c.Z+dz, ut), Cost: cost})
		}
		if ut == TerrainBlocked {
			continue
		}
		break
	}
	return edges
}

// appendDiagonal emits a same-level diagonal move when both orthogonal
// shoulder cells are passable, preventing corner cutting.
func (e *GroundEvaluator) appendDiagonal(edges []Edge, c grid.Coord, dx, dz int) []Edge {
	t := e.Classify(c.X+dx, c.Y, c.Z+dz)
	if !standable(t) {
		return edges
	}
	if !e.Classify(c.X+dx, c.Y, c.Z).Passable() || !e.Classify(c.X, c.Y, c.Z+dz).Passable() {
		return edges
	}
	return append(edges, Edge{To: e.cache.Get(c.X+dx, c.Y, c.Z+dz, t), Cost: diagonalCost})
}

// appendExtended emits a two-cell cardinal move with every intermediate cell
// validated.
func (e *GroundEvaluator) appendExtended(edges []Edge, c grid.Coord, dx, dz int) []Edge {
	if !e.Classify(c.X+dx, c.Y, c.Z+dz).Passable() {
		return edges
	}
	t := e.Classify(c.X+2*dx, c.Y, c.Z+2*dz)
	if !standable(t) {
		return edges
	}
	return append(edges, Edge{To: e.cache.Get(c.X+2*dx, c.Y, c.Z+2*dz, t), Cost: extendedMoveCost})
}

// appendVertical emits climbing moves. Ascending requires either a climbable
// column or a horizontally-adjacent walkable cell at the destination height,
// a proxy for "there is something to climb".
func (e *GroundEvaluator) appendVertical(edges []Edge, n *Node) []Edge {
	c := n.Coord

	up := e.Classify(c.X, c.Y+1, c.Z)
	if up.Passable() && (n.Terrain == TerrainClimb || e.climbSupport(c.X, c.Y+1, c.Z)) {
		edges = append(edges, Edge{To: e.cache.Get(c.X, c.Y+1, c.Z, up), Cost: climbUpCost})
	}

	down := e.Classify(c.X, c.Y-1, c.Z)
	if down.Passable() && (down == TerrainClimb || standable(down) || n.Terrain == TerrainClimb) {
		edges = append(edges, Edge{To: e.cache.Get(c.X, c.Y-1, c.Z, down), Cost: climbDownCost})
	}
	return edges
}

// climbSupport reports whether any cardinal neighbor at the given height is
// passable and walkable.
func (e *GroundEvaluator) climbSupport(x, y, z int) bool {
	for _, d := range cardinalDirs {
		if e.Classify(x+d[0], y, z+d[1]) == TerrainWalkable {
			return true
		}
	}
	return false
}

// ExtraCost returns the memoized terrain surcharge for the node plus the
// per-search origin bias. The memoized part lives on the node, stamped with
// the preference generation that computed it; it is recomputed when the
// preferences changed, when the memo belongs to another evaluator, or when
// the cache observed a new classification.
func (e *GroundEvaluator) ExtraCost(n *Node) float64 {
	if !e.Prefs.equal(e.seenPrefs) {
		e.gen = prefsGen.Add(1)
		e.seenPrefs = e.Prefs.clone()
	}
	if n.extraGen != e.gen {
		n.ExtraCost = surcharge(n, e.Prefs, e.hazardAdjacent)
		n.extraGen = e.gen
	}
	cost := n.ExtraCost
	if e.OriginBias > 0 {
		cost += e.OriginBias * grid.Manhattan(n.Coord, e.origin)
	}
	return cost
}

// hazardAdjacent reports whether the cell or any face neighbor carries a
// hazard flag (fire, lava).
func (e *GroundEvaluator) hazardAdjacent(c grid.Coord) bool {
	offsets := [7][3]int{
		{0, 0, 0},
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	for _, o := range offsets {
		if blocks.Lookup(e.query(c.X+o[0], c.Y+o[1], c.Z+o[2])).Hazard {
			return true
		}
	}
	return false
}

// CanReach reports whether the node's classification permits occupancy.
func (e *GroundEvaluator) CanReach(n *Node) bool {
	return n != nil && n.Terrain.Passable()
}

// NearestReachable scans the cube around a coordinate for the closest
// passable node.
func (e *GroundEvaluator) NearestReachable(x, y, z, radius int) *Node {
	return nearestReachable(e, e.cache, x, y, z, radius)
}

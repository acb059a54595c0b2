package nav

import "blockpath/engine/grid"

// Terrain classifies a cell for traversal. The sign is the passability
// sentinel: negative terrains can never be occupied, non-negative values
// double as the baseline malus for standing on the cell.
type Terrain int

const (
	// TerrainBlocked marks cells an agent can never occupy.
	TerrainBlocked Terrain = -1
	// TerrainWalkable is supported ground with two cells of headroom.
	TerrainWalkable Terrain = 0
	// TerrainOpen is passable air with nothing to stand on.
	TerrainOpen Terrain = 1
	// TerrainClimb is a climbable column (ladders and the like).
	TerrainClimb Terrain = 2
	// TerrainDoor is a door cell, passable only with the right capability.
	TerrainDoor Terrain = 3
	// TerrainLiquid is a swimmable liquid column.
	TerrainLiquid Terrain = 4
)

// Passable reports whether the terrain permits occupancy at all.
func (t Terrain) Passable() bool {
	return t >= 0
}

// BaseMalus is the cost contribution encoded in the classification itself.
func (t Terrain) BaseMalus() float64 {
	if t < 0 {
		return 0
	}
	return float64(t)
}

func (t Terrain) String() string {
	switch t {
	case TerrainBlocked:
		return "blocked"
	case TerrainWalkable:
		return "walkable"
	case TerrainOpen:
		return "open"
	case TerrainClimb:
		return "climb"
	case TerrainDoor:
		return "door"
	case TerrainLiquid:
		return "liquid"
	}
	return "unknown"
}

// Node is a cached, classified cell used as a search vertex. Identity is the
// coordinate; the cache guarantees at most one live Node per coordinate
// between evictions. Search bookkeeping (g/f scores, predecessors) lives in
// per-search maps, never on the Node, so long-lived cache entries carry no
// state from any individual search.
type Node struct {
	Coord   grid.Coord
	Terrain Terrain

	// ExtraCost memoizes the "cost of being on this cell" surcharge,
	// stamped with the preference generation that computed it. Cleared
	// whenever the cache observes a new classification for the coordinate.
	ExtraCost float64
	extraGen  uint64

	key string
}

func newNode(c grid.Coord, t Terrain) *Node {
	return &Node{Coord: c, Terrain: t, key: c.Key()}
}

// Key returns the memoized "x,y,z" form of the coordinate.
func (n *Node) Key() string {
	return n.key
}

// reset is applied in place when the world mutated under a cached node. The
// node keeps its identity; only classification-derived state is dropped.
func (n *Node) reset(t Terrain) {
	n.Terrain = t
	n.ExtraCost = 0
	n.extraGen = 0
}

package nav

import (
	"sync/atomic"

	"blockpath/engine/blocks"
	"blockpath/engine/grid"
)

// WorldQuery answers "what material occupies this cell". It is the only
// capability the engine consumes from the surrounding world and is expected
// to be O(1) or cache-friendly.
type WorldQuery func(x, y, z int) blocks.Material

// Edge is a weighted move from one node to a neighbor. Cost covers the move
// itself; the per-cell surcharge from ExtraCost is added by the search when
// the edge lands.
type Edge struct {
	To   *Node
	Cost float64
}

// Evaluator is the capability set that turns a raw world into a search
// graph for one kind of agent. Distinct agent types (ground, flying,
// swimming) are distinct implementations selected at construction time.
type Evaluator interface {
	// Classify derives the terrain for a cell from current world state.
	// A negative result means the cell can never be occupied.
	Classify(x, y, z int) Terrain

	// Neighbors enumerates the legal moves out of a node with their base
	// costs. Implementations never emit an edge onto blocked terrain.
	Neighbors(n *Node) []Edge

	// ExtraCost is the additive surcharge for standing on the node,
	// independent of how it was entered.
	ExtraCost(n *Node) float64

	// CanReach reports whether the node's classification permits occupancy.
	CanReach(n *Node) bool

	// NearestReachable scans the cube of the given radius around a
	// coordinate for the passable node closest to it. Radius zero resolves
	// the exact cell. Returns nil when nothing in range is passable.
	NearestReachable(x, y, z, radius int) *Node
}

// Capabilities are the agent abilities that shape which moves are legal.
type Capabilities struct {
	OpenDoors   bool
	BreakBlocks bool

	// MaxFall caps the survivable drop height. A descent has to satisfy
	// both it and MaxStepDown.
	MaxFall     int
	MaxStepUp   int
	MaxStepDown int
}

// Preferences bias costs without changing which moves exist.
type Preferences struct {
	// Preferred terrains receive a bonus, Avoided a penalty, on top of the
	// classification's own malus.
	Preferred []Terrain
	Avoided   []Terrain

	// Malus maps classifications to additional cost modifiers. Negative
	// entries act as bonuses.
	Malus map[Terrain]float64
}

// clone deep-copies the preference lists so later mutation by the owner
// stays detectable.
func (p Preferences) clone() Preferences {
	c := Preferences{}
	if len(p.Preferred) > 0 {
		c.Preferred = append([]Terrain(nil), p.Preferred...)
	}
	if len(p.Avoided) > 0 {
		c.Avoided = append([]Terrain(nil), p.Avoided...)
	}
	if len(p.Malus) > 0 {
		c.Malus = make(map[Terrain]float64, len(p.Malus))
		for t, m := range p.Malus {
			c.Malus[t] = m
		}
	}
	return c
}

// equal reports whether two preference sets produce identical surcharges.
func (p Preferences) equal(o Preferences) bool {
	if len(p.Preferred) != len(o.Preferred) || len(p.Avoided) != len(o.Avoided) || len(p.Malus) != len(o.Malus) {
		return false
	}
	for i, t := range p.Preferred {
		if o.Preferred[i] != t {
			return false
		}
	}
	for i, t := range p.Avoided {
		if o.Avoided[i] != t {
			return false
		}
	}
	for t, m := range p.Malus {
		if om, ok := o.Malus[t]; !ok || om != m {
			return false
		}
	}
	return true
}

// prefsGen hands out a fresh generation whenever any evaluator's preferences
// change. Surcharge memos on nodes are stamped with the generation that
// computed them, so a stale memo or another evaluator's memo is never reused.
var prefsGen atomic.Uint64

const (
	preferredBonus  = -0.5
	avoidedPenalty  = 4.0
	hazardSurcharge = 8.0
	liquidSurcharge = 3.0

	// minSurcharge floors the combined surcharge. The floor keeps every
	// effective edge weight positive, since the cheapest move costs 1.
	minSurcharge = preferredBonus
)

// surcharge computes the terrain-derived "cost of being here" for a node:
// baseline malus from the classification, the malus-table entry, preference
// adjustments and hazard surcharges. hazardous reports whether any cell
// adjacent to the node carries a hazard flag. The distance-from-origin bias
// is layered on top by the evaluator since it varies per search.
func surcharge(n *Node, prefs Preferences, hazardous func(grid.Coord) bool) float64 {
	cost := n.Terrain.BaseMalus()
	if m, ok := prefs.Malus[n.Terrain]; ok {
		cost += m
	}
	for _, t := range prefs.Preferred {
		if t == n.Terrain {
			cost += preferredBonus
			break
		}
	}
	for _, t := range prefs.Avoided {
		if t == n.Terrain {
			cost += avoidedPenalty
			break
		}
	}
	if n.Terrain == TerrainLiquid {
		cost += liquidSurcharge
	}
	if hazardous != nil && hazardous(n.Coord) {
		cost += hazardSurcharge
	}
	if cost < minSurcharge {
		cost = minSurcharge
	}
	return cost
}

// nearestReachable is the shared brute-force cubic scan behind
// Evaluator.NearestReachable implementations.
func nearestReachable(ev Evaluator, cache *NodeCache, x, y, z, radius int) *Node {
	if radius < 0 {
		radius = 0
	}
	var best *Node
	bestDist := -1.0
	ref := grid.Coord{X: x, Y: y, Z: z}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				terrain := ev.Classify(x+dx, y+dy, z+dz)
				if !terrain.Passable() {
					continue
				}
				node := cache.Get(x+dx, y+dy, z+dz, terrain)
				dist := grid.Manhattan(node.Coord, ref)
				if best == nil || dist < bestDist {
					best = node
					bestDist = dist
				}
			}
		}
	}
	return best
}

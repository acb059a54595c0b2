package nav

import (
	"math"
	"testing"

	"blockpath/engine/blocks"
	"blockpath/engine/grid"
)

func TestClassifyTerrains(t *testing.T) {
	world := flatWorld(-8, -8, 8, 8)
	world.set(1, 0, 0, blocks.Stone) // solid at foot level
	world.set(2, 1, 0, blocks.Stone) // headroom blocked
	world.set(3, 0, 0, blocks.Water)
	world.set(4, 0, 0, blocks.Lava)
	world.set(5, 0, 0, blocks.Ladder)
	world.set(6, 0, 0, blocks.WoodenDoor)

	ev, _ := groundEvaluator(world, Capabilities{OpenDoors: true})

	cases := []struct {
		name    string
		x, y, z int
		want    Terrain
	}{
		{"supported ground", 0, 0, 0, TerrainWalkable},
		{"solid foot", 1, 0, 0, TerrainBlocked},
		{"no headroom", 2, 0, 0, TerrainBlocked},
		{"water", 3, 0, 0, TerrainLiquid},
		{"lava", 4, 0, 0, TerrainBlocked},
		{"ladder", 5, 0, 0, TerrainClimb},
		{"door", 6, 0, 0, TerrainDoor},
		{"mid-air", 0, 5, 0, TerrainOpen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ev.Classify(tc.x, tc.y, tc.z); got != tc.want {
				t.Fatalf("expected %v at (%d,%d,%d), got %v", tc.want, tc.x, tc.y, tc.z, got)
			}
		})
	}
}

func TestClassifyLandingCell(t *testing.T) {
	// Air directly above a supported column still reads walkable so drop
	// moves have somewhere to land.
	world := newTestWorld()
	world.set(0, -2, 0, blocks.Stone)

	ev, _ := groundEvaluator(world, Capabilities{})
	if got := ev.Classify(0, 0, 0); got != TerrainWalkable {
		t.Fatalf("expected landing cell to classify walkable, got %v", got)
	}
}

func TestClassifyCapabilityGates(t *testing.T) {
	world := flatWorld(-2, -2, 2, 2)
	world.set(0, 0, 0, blocks.WoodenDoor)
	world.set(1, 0, 0, blocks.Leaves)

	t.Run("door without capability", func(t *testing.T) {
		ev, _ := groundEvaluator(world, Capabilities{})
		if got := ev.Classify(0, 0, 0); got != TerrainBlocked {
			t.Fatalf("expected door to block without OpenDoors, got %v", got)
		}
	})
	t.Run("door with capability", func(t *testing.T) {
		ev, _ := groundEvaluator(world, Capabilities{OpenDoors: true})
		if got := ev.Classify(0, 0, 0); got != TerrainDoor {
			t.Fatalf("expected door terrain with OpenDoors, got %v", got)
		}
	})
	t.Run("soft block without capability", func(t *testing.T) {
		ev, _ := groundEvaluator(world, Capabilities{})
		if got := ev.Classify(1, 0, 0); got != TerrainBlocked {
			t.Fatalf("expected leaves to block without BreakBlocks, got %v", got)
		}
	})
	t.Run("soft block with capability", func(t *testing.T) {
		ev, _ := groundEvaluator(world, Capabilities{BreakBlocks: true})
		if got := ev.Classify(1, 0, 0); got == TerrainBlocked {
			t.Fatalf("expected leaves to be passable with BreakBlocks, got %v", got)
		}
	})
}

func TestNeighborsFlatGround(t *testing.T) {
	world := flatWorld(-5, -5, 5, 5)
	ev, cache := groundEvaluator(world, Capabilities{})

	node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
	edges := ev.Neighbors(node)

	east, ok := edgeTo(edges, 1, 0, 0)
	if !ok {
		t.Fatalf("expected a cardinal edge east")
	}
	if east.Cost != 1.0 {
		t.Fatalf("expected cardinal cost 1.0, got %v", east.Cost)
	}

	diagonal, ok := edgeTo(edges, 1, 0, 1)
	if !ok {
		t.Fatalf("expected a diagonal edge")
	}
	if math.Abs(diagonal.Cost-math.Sqrt2) > 1e-9 {
		t.Fatalf("expected diagonal cost sqrt(2), got %v", diagonal.Cost)
	}

	extended, ok := edgeTo(edges, 2, 0, 0)
	if !ok {
		t.Fatalf("expected an extended edge two cells east")
	}
	if extended.Cost != 2.2 {
		t.Fatalf("expected extended cost 2.2, got %v", extended.Cost)
	}

	for _, e := range edges {
		if e.To.Terrain == TerrainBlocked {
			t.Fatalf("expected no edge onto blocked terrain, got one to %s", e.To.Key())
		}
	}
}

func TestNeighborsDiagonalCornerCut(t *testing.T) {
	world := flatWorld(-5, -5, 5, 5)
	world.set(1, 0, 0, blocks.Stone)
	world.set(1, 1, 0, blocks.Stone)

	ev, cache := groundEvaluator(world, Capabilities{})
	node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
	edges := ev.Neighbors(node)

	if _, ok := edgeTo(edges, 1, 0, 1); ok {
		t.Fatalf("expected the diagonal past a blocked shoulder to be suppressed")
	}
	if _, ok := edgeTo(edges, 1, 0, -1); ok {
		t.Fatalf("expected the other diagonal past the blocked shoulder to be suppressed")
	}
	if _, ok := edgeTo(edges, -1, 0, 1); !ok {
		t.Fatalf("expected the diagonal with clear shoulders to survive")
	}
}

func TestNeighborsStepUp(t *testing.T) {
	world := flatWorld(-5, -5, 5, 5)
	world.set(1, 0, 0, blocks.Stone) // one-cell ledge

	t.Run("within limit", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{MaxStepUp: 1})
		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		edges := ev.Neighbors(node)

		up, ok := edgeTo(edges, 1, 1, 0)
		if !ok {
			t.Fatalf("expected a step-up edge onto the ledge")
		}
		if math.Abs(up.Cost-1.8) > 1e-9 {
			t.Fatalf("expected step-up cost 1.8, got %v", up.Cost)
		}
	})

	t.Run("no headroom for the hop", func(t *testing.T) {
		capped := flatWorld(-5, -5, 5, 5)
		capped.set(1, 0, 0, blocks.Stone)
		capped.set(0, 2, 0, blocks.Stone) // ceiling above the agent

		ev, cache := groundEvaluator(capped, Capabilities{MaxStepUp: 1})
		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		if _, ok := edgeTo(ev.Neighbors(node), 1, 1, 0); ok {
			t.Fatalf("expected the step-up to be suppressed under a low ceiling")
		}
	})

	t.Run("wall above the limit", func(t *testing.T) {
		walled := flatWorld(-5, -5, 5, 5)
		walled.set(1, 0, 0, blocks.Stone)
		walled.set(1, 1, 0, blocks.Stone)

		ev, cache := groundEvaluator(walled, Capabilities{MaxStepUp: 1})
		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		for _, e := range ev.Neighbors(node) {
			if e.To.Coord.X == 1 && e.To.Coord.Z == 0 {
				t.Fatalf("expected no edge through a two-cell wall, got one to %s", e.To.Key())
			}
		}
	})
}

func TestNeighborsStepDown(t *testing.T) {
	// Floor ends east of x=0; a lower shelf sits at y=-3, so the landing
	// column at x=1 resolves at y=-1.
	world := newTestWorld()
	world.fill(-3, -1, -3, 0, -1, 3, blocks.Stone)
	world.set(1, -3, 0, blocks.Stone)

	t.Run("within limit", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{MaxStepDown: 4})
		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		edges := ev.Neighbors(node)

		down, ok := edgeTo(edges, 1, -1, 0)
		if !ok {
			t.Fatalf("expected a descent edge off the ledge")
		}
		if math.Abs(down.Cost-1.3) > 1e-9 {
			t.Fatalf("expected descent cost 1.3, got %v", down.Cost)
		}
	})

	t.Run("beyond limit", func(t *testing.T) {
		pit := newTestWorld()
		pit.fill(-3, -1, -3, 0, -1, 3, blocks.Stone)
		pit.set(1, -9, 0, blocks.Stone)

		ev, cache := groundEvaluator(pit, Capabilities{MaxStepDown: 2})
		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		for _, e := range ev.Neighbors(node) {
			if e.To.Coord.X == 1 && e.To.Coord.Z == 0 {
				t.Fatalf("expected no edge into a pit deeper than the limit, got one to %s", e.To.Key())
			}
		}
	})

	t.Run("beyond the fall limit", func(t *testing.T) {
		chasm := newTestWorld()
		chasm.fill(-3, -1, -3, 0, -1, 3, blocks.Stone)
		chasm.set(1, -6, 0, blocks.Stone)

		ev, cache := groundEvaluator(chasm, Capabilities{MaxFall: 1})
		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		for _, e := range ev.Neighbors(node) {
			if e.To.Coord.X == 1 && e.To.Coord.Z == 0 {
				t.Fatalf("expected no edge dropping past the fall limit, got one to %s", e.To.Key())
			}
		}
	})

	t.Run("within the fall limit", func(t *testing.T) {
		chasm := newTestWorld()
		chasm.fill(-3, -1, -3, 0, -1, 3, blocks.Stone)
		chasm.set(1, -6, 0, blocks.Stone)

		ev, cache := groundEvaluator(chasm, Capabilities{MaxFall: 4})
		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		down, ok := edgeTo(ev.Neighbors(node), 1, -4, 0)
		if !ok {
			t.Fatalf("expected the four-cell drop to be legal")
		}
		if math.Abs(down.Cost-2.2) > 1e-9 {
			t.Fatalf("expected drop cost 2.2, got %v", down.Cost)
		}
	})
}

func TestNeighborsExtendedOverGap(t *testing.T) {
	world := newTestWorld()
	world.set(0, -1, 0, blocks.Stone)
	world.set(2, -1, 0, blocks.Stone)

	ev, cache := groundEvaluator(world, Capabilities{})
	node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
	edges := ev.Neighbors(node)

	jump, ok := edgeTo(edges, 2, 0, 0)
	if !ok {
		t.Fatalf("expected an extended edge across the one-cell gap")
	}
	if jump.Cost != 2.2 {
		t.Fatalf("expected extended cost 2.2, got %v", jump.Cost)
	}
	if _, ok := edgeTo(edges, 1, 0, 0); ok {
		t.Fatalf("expected no cardinal edge into the unsupported gap cell")
	}
}

func TestNeighborsClimb(t *testing.T) {
	world := flatWorld(-3, -3, 3, 3)
	world.set(0, 0, 0, blocks.Ladder)
	world.set(0, 1, 0, blocks.Ladder)
	world.set(0, 2, 0, blocks.Ladder)

	ev, cache := groundEvaluator(world, Capabilities{})

	foot := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
	if foot.Terrain != TerrainClimb {
		t.Fatalf("expected ladder foot to classify climb, got %v", foot.Terrain)
	}

	up, ok := edgeTo(ev.Neighbors(foot), 0, 1, 0)
	if !ok {
		t.Fatalf("expected an ascent edge on the ladder")
	}
	if up.Cost != 2.0 {
		t.Fatalf("expected climb-up cost 2.0, got %v", up.Cost)
	}

	mid := cache.Get(0, 1, 0, ev.Classify(0, 1, 0))
	down, ok := edgeTo(ev.Neighbors(mid), 0, 0, 0)
	if !ok {
		t.Fatalf("expected a descent edge on the ladder")
	}
	if down.Cost != 1.4 {
		t.Fatalf("expected climb-down cost 1.4, got %v", down.Cost)
	}
}

func TestExtraCostSurcharges(t *testing.T) {
	world := flatWorld(-8, -8, 8, 8)
	world.set(1, 0, 0, blocks.Lava)
	world.set(5, 0, 5, blocks.Water)

	t.Run("hazard adjacency", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{})
		ev.SetOrigin(grid.Coord{X: 0, Y: 0, Z: 0})

		node := cache.Get(0, 0, 0, ev.Classify(0, 0, 0))
		if got := ev.ExtraCost(node); got != 8.0 {
			t.Fatalf("expected hazard surcharge 8.0 next to lava, got %v", got)
		}
	})

	t.Run("origin bias", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{})
		ev.SetOrigin(grid.Coord{X: 0, Y: 0, Z: 0})

		node := cache.Get(-3, 0, -3, ev.Classify(-3, 0, -3))
		want := DefaultOriginBias * 6
		if got := ev.ExtraCost(node); math.Abs(got-want) > 1e-9 {
			t.Fatalf("expected origin bias %v six cells out, got %v", want, got)
		}
	})

	t.Run("avoided liquid", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{})
		ev.Prefs = Preferences{Avoided: []Terrain{TerrainLiquid}}
		ev.SetOrigin(grid.Coord{X: 5, Y: 0, Z: 5})

		node := cache.Get(5, 0, 5, ev.Classify(5, 0, 5))
		// base malus 4 + liquid surcharge 3 + avoidance 4
		if got := ev.ExtraCost(node); got != 11.0 {
			t.Fatalf("expected avoided-liquid surcharge 11.0, got %v", got)
		}
	})

	t.Run("preferred ground earns the bonus", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{})
		ev.Prefs = Preferences{Preferred: []Terrain{TerrainWalkable}}
		ev.SetOrigin(grid.Coord{X: -5, Y: 0, Z: 0})

		node := cache.Get(-5, 0, 0, ev.Classify(-5, 0, 0))
		if got := ev.ExtraCost(node); got != preferredBonus {
			t.Fatalf("expected the preference bonus %v on plain ground, got %v", preferredBonus, got)
		}
	})

	t.Run("surcharge floors at the bonus", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{})
		ev.Prefs = Preferences{
			Preferred: []Terrain{TerrainWalkable},
			Malus:     map[Terrain]float64{TerrainWalkable: -50},
		}
		ev.SetOrigin(grid.Coord{X: -5, Y: 0, Z: 0})

		node := cache.Get(-5, 0, 0, ev.Classify(-5, 0, 0))
		if got := ev.ExtraCost(node); got != minSurcharge {
			t.Fatalf("expected the surcharge to floor at %v, got %v", minSurcharge, got)
		}
	})

	t.Run("preference change takes effect", func(t *testing.T) {
		ev, cache := groundEvaluator(world, Capabilities{})
		ev.SetOrigin(grid.Coord{X: 5, Y: 0, Z: 5})

		node := cache.Get(5, 0, 5, ev.Classify(5, 0, 5))
		if got := ev.ExtraCost(node); got != 7.0 {
			t.Fatalf("expected the liquid surcharge 7.0 before the change, got %v", got)
		}

		ev.Prefs.Avoided = []Terrain{TerrainLiquid}
		if got := ev.ExtraCost(node); got != 11.0 {
			t.Fatalf("expected the avoidance penalty to apply after the change, got %v", got)
		}
	})

	t.Run("evaluators never share surcharges", func(t *testing.T) {
		cache := NewNodeCache(DefaultCacheCapacity)
		plain := NewGroundEvaluator(cache, world.query, Capabilities{})
		wary := NewGroundEvaluator(cache, world.query, Capabilities{})
		wary.Prefs = Preferences{Avoided: []Terrain{TerrainLiquid}}
		plain.SetOrigin(grid.Coord{X: 5, Y: 0, Z: 5})
		wary.SetOrigin(grid.Coord{X: 5, Y: 0, Z: 5})

		node := cache.Get(5, 0, 5, plain.Classify(5, 0, 5))
		if got := wary.ExtraCost(node); got != 11.0 {
			t.Fatalf("expected the avoiding evaluator to pay 11.0, got %v", got)
		}
		if got := plain.ExtraCost(node); got != 7.0 {
			t.Fatalf("expected the plain evaluator to pay 7.0, got %v", got)
		}
		if got := wary.ExtraCost(node); got != 11.0 {
			t.Fatalf("expected the avoiding evaluator's surcharge to survive, got %v", got)
		}
	})
}

func TestNearestReachable(t *testing.T) {
	world := flatWorld(-3, -3, 3, 3)
	world.set(0, 0, 0, blocks.Stone)
	world.set(0, 1, 0, blocks.Stone)

	ev, _ := groundEvaluator(world, Capabilities{})

	if node := ev.NearestReachable(0, 0, 0, 0); node != nil {
		t.Fatalf("expected no exact match inside a sealed cell, got %s", node.Key())
	}

	node := ev.NearestReachable(0, 0, 0, 1)
	if node == nil {
		t.Fatalf("expected a substitute within radius 1")
	}
	if !node.Terrain.Passable() {
		t.Fatalf("expected the substitute to be passable, got %v", node.Terrain)
	}
	if got := grid.Manhattan(node.Coord, grid.Coord{X: 0, Y: 0, Z: 0}); got != 1 {
		t.Fatalf("expected the substitute one cell away, got distance %v", got)
	}
}

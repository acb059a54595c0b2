package nav

import (
	"blockpath/engine/blocks"
	"blockpath/engine/grid"
)

// testWorld is a sparse voxel map; unset cells read as air.
type testWorld struct {
	cells map[grid.Coord]blocks.Material
}

func newTestWorld() *testWorld {
	return &testWorld{cells: make(map[grid.Coord]blocks.Material)}
}

func (w *testWorld) set(x, y, z int, m blocks.Material) {
	w.cells[grid.Coord{X: x, Y: y, Z: z}] = m
}

// fill places one material across an inclusive box.
func (w *testWorld) fill(x1, y1, z1, x2, y2, z2 int, m blocks.Material) {
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			for z := z1; z <= z2; z++ {
				w.set(x, y, z, m)
			}
		}
	}
}

func (w *testWorld) query(x, y, z int) blocks.Material {
	return w.cells[grid.Coord{X: x, Y: y, Z: z}]
}

// flatWorld lays a stone floor at y=-1 spanning the inclusive x/z box, so
// cells at y=0 classify walkable.
func flatWorld(x1, z1, x2, z2 int) *testWorld {
	w := newTestWorld()
	w.fill(x1, -1, z1, x2, -1, z2, blocks.Stone)
	return w
}

func groundEvaluator(w *testWorld, caps Capabilities) (*GroundEvaluator, *NodeCache) {
	cache := NewNodeCache(DefaultCacheCapacity)
	return NewGroundEvaluator(cache, w.query, caps), cache
}

// edgeTo scans an edge list for a move landing on the given cell.
func edgeTo(edges []Edge, x, y, z int) (Edge, bool) {
	target := grid.Coord{X: x, Y: y, Z: z}
	for _, e := range edges {
		if e.To.Coord == target {
			return e, true
		}
	}
	return Edge{}, false
}

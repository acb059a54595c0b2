// Package worlddef loads voxel world documents used by the demo binaries
// and scenario fixtures. A document names a material palette, box fills and
// individual block placements; the compiled World answers the engine's
// world query.
package worlddef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"blockpath/engine/blocks"
	"blockpath/engine/grid"
	"blockpath/engine/nav"
)

// Document is the on-disk YAML shape.
type Document struct {
	Name   string  `yaml:"name" json:"name"`
	Fills  []Fill  `yaml:"fills,omitempty" json:"fills,omitempty"`
	Blocks []Block `yaml:"blocks,omitempty" json:"blocks,omitempty"`
}

// Fill places one material across an inclusive box.
type Fill struct {
	Material string `yaml:"material" json:"material"`
	Min      [3]int `yaml:"min" json:"min"`
	Max      [3]int `yaml:"max" json:"max"`
}

// Block places one material at a single cell.
type Block struct {
	Material string `yaml:"material" json:"material"`
	At       [3]int `yaml:"at" json:"at"`
}

// World is a compiled document. Unset cells read as air.
type World struct {
	name  string
	cells map[grid.Coord]blocks.Material
}

// Load reads and compiles a document from disk.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("worlddef: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse compiles a YAML document.
func Parse(data []byte) (*World, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("worlddef: parse: %w", err)
	}
	return Compile(doc)
}

// Compile expands fills and placements into a queryable world.
func Compile(doc Document) (*World, error) {
	w := &World{name: doc.Name, cells: make(map[grid.Coord]blocks.Material)}
	for i, fill := range doc.Fills {
		material, ok := blocks.ByName(fill.Material)
		if !ok {
			return nil, fmt.Errorf("worlddef: fill %d: unknown material %q", i, fill.Material)
		}
		for x := fill.Min[0]; x <= fill.Max[0]; x++ {
			for y := fill.Min[1]; y <= fill.Max[1]; y++ {
				for z := fill.Min[2]; z <= fill.Max[2]; z++ {
					w.cells[grid.Coord{X: x, Y: y, Z: z}] = material
				}
			}
		}
	}
	for i, block := range doc.Blocks {
		material, ok := blocks.ByName(block.Material)
		if !ok {
			return nil, fmt.Errorf("worlddef: block %d: unknown material %q", i, block.Material)
		}
		w.cells[grid.Coord{X: block.At[0], Y: block.At[1], Z: block.At[2]}] = material
	}
	return w, nil
}

// Name returns the document's display name.
func (w *World) Name() string {
	return w.name
}

// Set overwrites one cell.
func (w *World) Set(x, y, z int, m blocks.Material) {
	w.cells[grid.Coord{X: x, Y: y, Z: z}] = m
}

// At reads one cell.
func (w *World) At(x, y, z int) blocks.Material {
	return w.cells[grid.Coord{X: x, Y: y, Z: z}]
}

// Bounds returns the inclusive min and max corners of the set cells. The
// second return is false for an empty world.
func (w *World) Bounds() (grid.Coord, grid.Coord, bool) {
	if len(w.cells) == 0 {
		return grid.Coord{}, grid.Coord{}, false
	}
	var min, max grid.Coord
	first := true
	for c := range w.cells {
		if first {
			min, max = c, c
			first = false
			continue
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.Z < min.Z {
			min.Z = c.Z
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
		if c.Z > max.Z {
			max.Z = c.Z
		}
	}
	return min, max, true
}

// Size reports how many cells are explicitly set.
func (w *World) Size() int {
	return len(w.cells)
}

// Query adapts the world to the engine's query capability.
func (w *World) Query() nav.WorldQuery {
	return func(x, y, z int) blocks.Material {
		return w.cells[grid.Coord{X: x, Y: y, Z: z}]
	}
}

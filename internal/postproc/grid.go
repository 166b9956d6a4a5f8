// Package postproc tracks which content categories each cell has already
// received during one generation pass.
package postproc

import (
	"strings"

	"codeberg.org/anaseto/gruid"
)

// Mask is a set of content categories written to a cell.
type Mask uint8

const (
	Terrain Mask = 1 << iota
	Panel
	Item

	None Mask = 0
	All       = Terrain | Panel | Item
)

// Has reports whether every bit of o is set in m.
func (m Mask) Has(o Mask) bool {
	return m&o == o
}

// Any reports whether m shares a bit with o.
func (m Mask) Any(o Mask) bool {
	return m&o != 0
}

func (m Mask) String() string {
	if m == None {
		return "none"
	}
	var parts []string
	if m.Has(Terrain) {
		parts = append(parts, "terrain")
	}
	if m.Has(Panel) {
		parts = append(parts, "panel")
	}
	if m.Has(Item) {
		parts = append(parts, "item")
	}
	return strings.Join(parts, "|")
}

// Grid holds one mask per cell. Bits are only ever added; a new Grid is
// allocated for every floor.
type Grid struct {
	width, height int
	cells         []Mask
}

// New returns an all-zero grid.
func New(width, height int) *Grid {
	return &Grid{width: width, height: height, cells: make([]Mask, width*height)}
}

// Size returns the grid dimensions.
func (g *Grid) Size() gruid.Point {
	return gruid.Point{X: g.width, Y: g.height}
}

func (g *Grid) contains(p gruid.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// At returns the mask at p, None outside the grid.
func (g *Grid) At(p gruid.Point) Mask {
	if !g.contains(p) {
		return None
	}
	return g.cells[p.Y*g.width+p.X]
}

// AddMask ORs mask into the cell at p. Points outside the grid are ignored.
func (g *Grid) AddMask(p gruid.Point, mask Mask) {
	if !g.contains(p) {
		return
	}
	g.cells[p.Y*g.width+p.X] |= mask
}

// Has reports whether the cell at p carries every bit of mask.
func (g *Grid) Has(p gruid.Point, mask Mask) bool {
	return g.At(p).Has(mask)
}

// Count returns how many cells carry every bit of mask.
func (g *Grid) Count(mask Mask) int {
	n := 0
	for _, m := range g.cells {
		if m.Has(mask) {
			n++
		}
	}
	return n
}

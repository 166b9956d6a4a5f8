// Package steps holds the floor steps a zone can schedule: terrain layout,
// terrain features, stairs, panels, items, monsters and metadata.
package steps

import (
	"fmt"
	"math/rand/v2"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"codeberg.org/anaseto/gruid/rl"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/postproc"
)

// CARule is one cellular automata pass; see rl.CellularAutomataRule.
type CARule struct {
	WCutoff1        int  `yaml:"wcutoff1"`
	WCutoff2        int  `yaml:"wcutoff2"`
	Reps            int  `yaml:"reps"`
	WallsOutOfRange bool `yaml:"walls_out_of_range"`
}

var defaultCaveRules = []CARule{
	{WCutoff1: 5, WCutoff2: 2, Reps: 4, WallsOutOfRange: true},
	{WCutoff1: 5, WCutoff2: 25, Reps: 3, WallsOutOfRange: true},
}

func caRules(rules []CARule) []rl.CellularAutomataRule {
	if len(rules) == 0 {
		rules = defaultCaveRules
	}
	out := make([]rl.CellularAutomataRule, len(rules))
	for i, r := range rules {
		out[i] = rl.CellularAutomataRule{
			WCutoff1:        r.WCutoff1,
			WCutoff2:        r.WCutoff2,
			Reps:            r.Reps,
			WallsOutOfRange: r.WallsOutOfRange,
		}
	}
	return out
}

// CaveStep lays out a cave with cellular automata.
type CaveStep struct {
	WallRatio float64  `yaml:"wall_ratio"` // initial wall probability, 0.42 when unset
	Rules     []CARule `yaml:"rules,omitempty"`
}

func (s *CaveStep) Apply(m *floor.Map) error {
	winit := s.WallRatio
	if winit <= 0 {
		winit = 0.42
	}
	mgen := rl.MapGen{Rand: m.Rand, Grid: m.Tiles}
	mgen.CellularAutomataCave(floor.Wall, floor.Ground, winit, caRules(s.Rules))
	return nil
}

// WalkCaveStep digs ground with random walks.
type WalkCaveStep struct {
	Fill  float64 `yaml:"fill"` // fraction of cells to dig, 0.4 when unset
	Walks int     `yaml:"walks"`
}

// walker implements rl.RandomWalker, favoring horizontal moves.
type walker struct {
	rand *rand.Rand
}

func (w walker) Neighbor(p gruid.Point) gruid.Point {
	switch w.rand.IntN(6) {
	case 0, 1:
		return p.Shift(1, 0)
	case 2, 3:
		return p.Shift(-1, 0)
	case 4:
		return p.Shift(0, 1)
	default:
		return p.Shift(0, -1)
	}
}

func (s *WalkCaveStep) Apply(m *floor.Map) error {
	fill := s.Fill
	if fill <= 0 {
		fill = 0.4
	}
	walks := s.Walks
	if walks <= 0 {
		walks = 8
	}
	mgen := rl.MapGen{Rand: m.Rand, Grid: m.Tiles}
	mgen.RandomWalkCave(walker{rand: m.Rand}, floor.Ground, fill, walks)
	return nil
}

// BorderStep walls off the outermost ring of cells.
type BorderStep struct{}

func (s *BorderStep) Apply(m *floor.Map) error {
	size := m.Size()
	for x := 0; x < size.X; x++ {
		m.Tiles.Set(gruid.Point{X: x, Y: 0}, floor.Wall)
		m.Tiles.Set(gruid.Point{X: x, Y: size.Y - 1}, floor.Wall)
	}
	for y := 0; y < size.Y; y++ {
		m.Tiles.Set(gruid.Point{X: 0, Y: y}, floor.Wall)
		m.Tiles.Set(gruid.Point{X: size.X - 1, Y: y}, floor.Wall)
	}
	return nil
}

// passablePather walks cardinal neighbors of passable cells.
type passablePather struct {
	tiles rl.Grid
	nbs   paths.Neighbors
}

func (pp *passablePather) Neighbors(p gruid.Point) []gruid.Point {
	return pp.nbs.Cardinal(p, func(q gruid.Point) bool {
		return floor.Passable(pp.tiles.At(q))
	})
}

// ConnectStep keeps the largest connected passable region and walls off the
// rest. Ties go to the region found first in row-major order.
type ConnectStep struct {
	MinCells int `yaml:"min_cells,omitempty"` // warn below this many cells
}

func (s *ConnectStep) Apply(m *floor.Map) error {
	size := m.Size()
	pr := paths.NewPathRange(gruid.NewRange(0, 0, size.X, size.Y))
	pather := &passablePather{tiles: m.Tiles}

	seen := make(map[gruid.Point]bool)
	best, bestSize := gruid.Point{}, 0
	for _, p := range m.Cells(func(_ gruid.Point, c rl.Cell) bool { return floor.Passable(c) }) {
		if seen[p] {
			continue
		}
		cc := pr.CCMap(pather, p)
		for _, q := range cc {
			seen[q] = true
		}
		if len(cc) > bestSize {
			best, bestSize = p, len(cc)
		}
	}
	if bestSize == 0 {
		return fmt.Errorf("connect: floor has no passable cells")
	}
	pr.CCMap(pather, best)
	mgen := rl.MapGen{Rand: m.Rand, Grid: m.Tiles}
	kept := mgen.KeepCC(pr, best, floor.Wall)
	if kept < s.MinCells {
		logger.Warning("connected region smaller than expected", "floor", m.Index, "cells", kept, "min", s.MinCells)
	}
	return nil
}

// WaterStep floods ground with pools shaped by cellular automata on a
// separate layer. Flooded cells are marked as terrain-written.
type WaterStep struct {
	WallRatio float64  `yaml:"wall_ratio"` // 0.54 when unset; higher means less water
	Rules     []CARule `yaml:"rules,omitempty"`
}

var defaultWaterRules = []CARule{
	{WCutoff1: 5, WCutoff2: 2, Reps: 4, WallsOutOfRange: true},
	{WCutoff1: 5, WCutoff2: 25, Reps: 2, WallsOutOfRange: true},
}

func (s *WaterStep) Apply(m *floor.Map) error {
	winit := s.WallRatio
	if winit <= 0 {
		winit = 0.54
	}
	rules := s.Rules
	if len(rules) == 0 {
		rules = defaultWaterRules
	}
	size := m.Size()
	layer := rl.NewGrid(size.X, size.Y)
	mgen := rl.MapGen{Rand: m.Rand, Grid: layer}
	mgen.CellularAutomataCave(floor.Wall, floor.Water, winit, caRules(rules))

	it := m.Tiles.Iterator()
	itl := layer.Iterator()
	for it.Next() && itl.Next() {
		if it.Cell() == floor.Ground && itl.Cell() == floor.Water && m.PostProc.At(it.P()) == postproc.None {
			it.SetCell(floor.Water)
			m.PostProc.AddMask(it.P(), postproc.Terrain)
		}
	}
	return nil
}

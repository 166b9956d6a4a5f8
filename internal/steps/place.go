package steps

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/postproc"
	"github.com/lawnchairsociety/dungeongen/internal/rangeindex"
	"github.com/lawnchairsociety/dungeongen/internal/spawn"
)

// ErrNoRoom is returned when a step must place something and no free cell is
// left.
var ErrNoRoom = errors.New("steps: no free cell")

// takeCell removes and returns a random point from cells.
func takeCell(r *rand.Rand, cells *[]gruid.Point) (gruid.Point, bool) {
	n := len(*cells)
	if n == 0 {
		return gruid.Point{}, false
	}
	i := r.IntN(n)
	p := (*cells)[i]
	(*cells)[i] = (*cells)[n-1]
	*cells = (*cells)[:n-1]
	return p, true
}

// StairsStep places the down stairs, and the up stairs when Up is set, on
// cells nothing else has written.
type StairsStep struct {
	Up bool `yaml:"up,omitempty"`
}

func (s *StairsStep) Apply(m *floor.Map) error {
	free := m.FreeCells(postproc.All)
	place := func(c rl.Cell) error {
		p, ok := takeCell(m.Rand, &free)
		if !ok {
			return fmt.Errorf("stairs: %w", ErrNoRoom)
		}
		m.Tiles.Set(p, c)
		m.PostProc.AddMask(p, postproc.Terrain)
		return nil
	}
	if err := place(floor.StairsDown); err != nil {
		return err
	}
	if s.Up {
		return place(floor.StairsUp)
	}
	return nil
}

// PanelStep embeds Count panels whose kinds are drawn from Kinds.
type PanelStep struct {
	Count rangeindex.IntRange `yaml:"count"`
	Kinds *spawn.List[string] `yaml:"kinds"`
}

func (s *PanelStep) Apply(m *floor.Map) error {
	n := s.Count.Roll(m.Rand)
	if n == 0 || !s.Kinds.CanPick() {
		return nil
	}
	free := m.FreeCells(postproc.All)
	for i := 0; i < n; i++ {
		p, ok := takeCell(m.Rand, &free)
		if !ok {
			logger.Debug("panel step ran out of cells", "floor", m.Index, "placed", i)
			return nil
		}
		kind, err := s.Kinds.Pick(m.Rand)
		if err != nil {
			return err
		}
		m.Panels = append(m.Panels, floor.Panel{Pos: p, Kind: kind})
		m.PostProc.AddMask(p, postproc.Panel)
	}
	return nil
}

// ItemStep places Count items drawn from the floor's item spawn table.
type ItemStep struct {
	Count rangeindex.IntRange `yaml:"count"`
}

func (s *ItemStep) Apply(m *floor.Map) error {
	n := s.Count.Roll(m.Rand)
	if n == 0 || !m.ItemSpawns.CanPick() {
		return nil
	}
	free := m.FreeCells(postproc.All)
	for i := 0; i < n; i++ {
		p, ok := takeCell(m.Rand, &free)
		if !ok {
			logger.Debug("item step ran out of cells", "floor", m.Index, "placed", i)
			return nil
		}
		item, err := m.ItemSpawns.Pick(m.Rand)
		if err != nil {
			return err
		}
		m.Items = append(m.Items, floor.PlacedItem{Pos: p, Item: item})
		m.PostProc.AddMask(p, postproc.Item)
	}
	return nil
}

// NameStep sets the floor's metadata. A zero ID keeps the current one.
type NameStep struct {
	Name string `yaml:"name"`
	ID   int    `yaml:"id,omitempty"`
}

func (s *NameStep) Apply(m *floor.Map) error {
	m.Name = s.Name
	if s.ID != 0 {
		m.ID = s.ID
	}
	return nil
}

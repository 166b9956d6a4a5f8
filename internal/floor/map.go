// Package floor holds the mutable context shared by every step while one
// floor is generated.
package floor

import (
	"math/rand/v2"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"

	"github.com/lawnchairsociety/dungeongen/internal/postproc"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
	"github.com/lawnchairsociety/dungeongen/internal/spawn"
)

// Terrain cells stored in Map.Tiles.
const (
	Wall rl.Cell = iota
	Ground
	Water
	StairsDown
	StairsUp
)

// Passable reports whether a character can stand on c.
func Passable(c rl.Cell) bool {
	return c == Ground || c == StairsDown || c == StairsUp
}

// ItemSpawn is an item definition held in a spawn table.
type ItemSpawn struct {
	ID     string `yaml:"id"`
	Amount int    `yaml:"amount"`
}

// PlacedItem is an item lying on the floor.
type PlacedItem struct {
	Pos  gruid.Point
	Item ItemSpawn
}

// Panel is a trap or switch embedded in a floor cell.
type Panel struct {
	Pos  gruid.Point
	Kind string
}

// Spawnable produces characters for a team. Implemented by spawn recipes.
type Spawnable interface {
	CanSpawn(m *Map) bool
	Spawn(m *Map, team *Team) (*Character, error)
}

// Call is the argument bag handed to a script procedure.
type Call struct {
	Map       *Map
	Character *Character
	Args      map[string]any
}

// ScriptHost invokes named external procedures. Return values are ignored;
// errors propagate unmodified.
type ScriptHost interface {
	Invoke(name string, call Call) error
}

// Map is the floor context. One Map is owned by exactly one generation pass.
type Map struct {
	ZoneID string // Zone the floor belongs to
	ID     int    // Numeric floor id, settable by metadata steps
	Name   string // Display name, settable by metadata steps
	Index  int    // Floor index inside the zone

	Rand     *rand.Rand     // Single random source for the whole floor
	Tiles    rl.Grid        // Terrain
	PostProc *postproc.Grid // Cells already written during this pass

	ItemSpawns *spawn.Dict[string, ItemSpawn] // Items placed by item steps
	TeamSpawns *spawn.Dict[string, Spawnable] // Monsters placed by mob steps

	Items  []PlacedItem
	Panels []Panel
	Teams  []*Team
	// Pending is the team a mob step is filling. Its members count as on the
	// floor before the team is registered.
	Pending *Team

	Data    refdata.Provider
	Scripts ScriptHost
}

// Options configure NewMap.
type Options struct {
	ZoneID string
	Index  int
	Width  int
	Height int
	Rand   *rand.Rand
	Data   refdata.Provider
	// Scripts may be nil when no script features are configured.
	Scripts ScriptHost
}

// NewMap returns an all-wall floor with empty spawn tables.
func NewMap(opts Options) *Map {
	m := &Map{
		ZoneID:     opts.ZoneID,
		ID:         opts.Index,
		Index:      opts.Index,
		Rand:       opts.Rand,
		Tiles:      rl.NewGrid(opts.Width, opts.Height),
		PostProc:   postproc.New(opts.Width, opts.Height),
		ItemSpawns: spawn.NewDict[string, ItemSpawn](DefaultCategoryWeight),
		TeamSpawns: spawn.NewDict[string, Spawnable](DefaultCategoryWeight),
		Data:       opts.Data,
		Scripts:    opts.Scripts,
	}
	m.Tiles.Fill(Wall)
	return m
}

// DefaultCategoryWeight is the weight of categories created while merging
// zone tables into a floor slot.
const DefaultCategoryWeight = 10

// Size returns the floor dimensions.
func (m *Map) Size() gruid.Point {
	return m.Tiles.Size()
}

// Cells returns, in row-major order, the points satisfying keep.
func (m *Map) Cells(keep func(p gruid.Point, c rl.Cell) bool) []gruid.Point {
	var out []gruid.Point
	it := m.Tiles.Iterator()
	for it.Next() {
		if keep(it.P(), it.Cell()) {
			out = append(out, it.P())
		}
	}
	return out
}

// FreeCells returns the ground cells that carry none of the mask bits and hold
// no character.
func (m *Map) FreeCells(mask postproc.Mask) []gruid.Point {
	occupied := m.occupied()
	return m.Cells(func(p gruid.Point, c rl.Cell) bool {
		return c == Ground && !m.PostProc.At(p).Any(mask) && !occupied[p]
	})
}

func (m *Map) occupied() map[gruid.Point]bool {
	occ := make(map[gruid.Point]bool)
	for _, t := range m.Teams {
		for _, c := range t.Members {
			occ[c.Pos] = true
		}
	}
	return occ
}

// NewTeam registers and returns an empty team.
func (m *Map) NewTeam() *Team {
	t := &Team{Index: len(m.Teams)}
	m.AddTeam(t)
	return t
}

// AddTeam registers t, renumbering it to its position on the floor.
func (m *Map) AddTeam(t *Team) {
	t.Index = len(m.Teams)
	m.Teams = append(m.Teams, t)
}

// Characters returns every character on the floor in team order, followed by
// the members of the pending team.
func (m *Map) Characters() []*Character {
	var out []*Character
	for _, t := range m.Teams {
		out = append(out, t.Members...)
	}
	if m.Pending != nil {
		out = append(out, m.Pending.Members...)
	}
	return out
}

package floor

import (
	"math/rand/v2"
	"strings"
	"testing"

	"codeberg.org/anaseto/gruid"

	"github.com/lawnchairsociety/dungeongen/internal/postproc"
)

func newTestMap(w, h int) *Map {
	return NewMap(Options{ZoneID: "test", Index: 3, Width: w, Height: h, Rand: rand.New(rand.NewPCG(1, 1))})
}

func TestNewMapStartsWalled(t *testing.T) {
	m := newTestMap(4, 3)
	if m.ID != 3 || m.Index != 3 {
		t.Errorf("ID/Index = %d/%d, want 3/3", m.ID, m.Index)
	}
	want := "####\n####\n####\n"
	if got := m.Dump(); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
	if m.ItemSpawns.DefaultWeight != DefaultCategoryWeight || m.TeamSpawns.Len() != 0 {
		t.Error("spawn slots not initialized")
	}
}

func TestDumpOverlays(t *testing.T) {
	m := newTestMap(5, 1)
	for x := 0; x < 5; x++ {
		m.Tiles.Set(gruid.Point{X: x}, Ground)
	}
	m.Tiles.Set(gruid.Point{X: 4}, StairsDown)
	m.Tiles.Set(gruid.Point{X: 0}, Water)
	m.Panels = append(m.Panels, Panel{Pos: gruid.Point{X: 1}, Kind: "trap"})
	m.Items = append(m.Items, PlacedItem{Pos: gruid.Point{X: 2}})
	team := m.NewTeam()
	team.Add(&Character{Pos: gruid.Point{X: 3}})

	if got, want := m.Dump(), "~^*m>\n"; got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestFreeCells(t *testing.T) {
	m := newTestMap(3, 2)
	for x := 0; x < 3; x++ {
		m.Tiles.Set(gruid.Point{X: x, Y: 1}, Ground)
	}
	m.PostProc.AddMask(gruid.Point{X: 0, Y: 1}, postproc.Terrain)
	m.NewTeam().Add(&Character{Pos: gruid.Point{X: 2, Y: 1}})

	free := m.FreeCells(postproc.All)
	if len(free) != 1 || free[0] != (gruid.Point{X: 1, Y: 1}) {
		t.Errorf("FreeCells(All) = %v, want [(1,1)]", free)
	}
	if free := m.FreeCells(postproc.Item); len(free) != 2 {
		t.Errorf("FreeCells(Item) = %v, want the terrain-marked cell too", free)
	}
}

func TestRoster(t *testing.T) {
	m := newTestMap(2, 2)
	a := m.NewTeam()
	a.Add(&Character{Name: "Rattle", Species: "rattle", Level: 5, Skills: []string{"tackle", "bite"}})
	b := m.NewTeam()
	c := &Character{Name: "Zub", Species: "zub"}
	c.SetVar("mood", "angry")
	c.SetVar("aura", "dim")
	b.Add(c)

	roster := m.Roster()
	if len(roster) != 2 {
		t.Fatalf("Roster() = %v", roster)
	}
	if !strings.HasPrefix(roster[0], "team 0: Rattle rattle/0 lv5") || !strings.Contains(roster[0], "skills=[tackle,bite]") {
		t.Errorf("roster[0] = %q", roster[0])
	}
	if !strings.HasSuffix(roster[1], "vars=[aura=dim,mood=angry]") {
		t.Errorf("roster[1] = %q, want sorted vars", roster[1])
	}
	if len(m.Characters()) != 2 || a.Len() != 1 {
		t.Error("team membership mismatch")
	}
}

func TestHasSkill(t *testing.T) {
	c := &Character{Skills: []string{"tackle"}}
	if !c.HasSkill("tackle") || c.HasSkill("bite") {
		t.Error("HasSkill mismatch")
	}
}

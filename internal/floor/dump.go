package floor

import (
	"fmt"
	"sort"
	"strings"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"
)

var glyphs = map[rl.Cell]byte{
	Wall:       '#',
	Ground:     '.',
	Water:      '~',
	StairsDown: '>',
	StairsUp:   '<',
}

// Dump renders the floor as ASCII, one line per row. Characters draw over
// items, items over panels, panels over terrain.
func (m *Map) Dump() string {
	size := m.Size()
	rows := make([][]byte, size.Y)
	for y := range rows {
		rows[y] = make([]byte, size.X)
		for x := range rows[y] {
			g, ok := glyphs[m.Tiles.At(gruid.Point{X: x, Y: y})]
			if !ok {
				g = '?'
			}
			rows[y][x] = g
		}
	}
	put := func(p gruid.Point, g byte) {
		if p.Y >= 0 && p.Y < size.Y && p.X >= 0 && p.X < size.X {
			rows[p.Y][p.X] = g
		}
	}
	for _, p := range m.Panels {
		put(p.Pos, '^')
	}
	for _, it := range m.Items {
		put(it.Pos, '*')
	}
	for _, c := range m.Characters() {
		put(c.Pos, 'm')
	}

	var b strings.Builder
	for _, row := range rows {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// Roster lists every character, one line each, in team order.
func (m *Map) Roster() []string {
	var out []string
	for _, t := range m.Teams {
		for _, c := range t.Members {
			vars := make([]string, 0, len(c.Vars))
			for k, v := range c.Vars {
				vars = append(vars, k+"="+v)
			}
			sort.Strings(vars)
			out = append(out, fmt.Sprintf(
				"team %d: %s %s/%d lv%d %s %s skills=[%s] intrinsic=%s tactic=%s statuses=[%s] held=%s disc=%d at (%d,%d) vars=[%s]",
				t.Index, c.Name, c.Species, c.Form, c.Level, c.Gender, c.Skin,
				strings.Join(c.Skills, ","), c.Intrinsic, c.Tactic,
				strings.Join(c.Statuses, ","), c.HeldItem, c.Discriminator,
				c.Pos.X, c.Pos.Y, strings.Join(vars, ","),
			))
		}
	}
	return out
}

// Summary is a one-line description of the floor.
func (m *Map) Summary() string {
	return fmt.Sprintf("floor %d %q: %d items, %d panels, %d teams, %d characters",
		m.Index, m.Name, len(m.Items), len(m.Panels), len(m.Teams), len(m.Characters()))
}

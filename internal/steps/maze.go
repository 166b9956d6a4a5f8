package steps

import (
	"fmt"

	"codeberg.org/anaseto/gruid"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
)

var mazeDirections = []gruid.Point{{Y: -1}, {Y: 1}, {X: 1}, {X: -1}}

// MazeStep lays out a labyrinth with a depth-first backtracker. Maze cells
// sit on odd coordinates; the cells between them are the walls that get
// knocked down. Braid is the fraction of dead ends opened into a loop.
type MazeStep struct {
	Braid float64 `yaml:"braid,omitempty"`
}

func (s *MazeStep) Apply(m *floor.Map) error {
	size := m.Size()
	cols, rows := (size.X-1)/2, (size.Y-1)/2
	if cols < 1 || rows < 1 {
		return fmt.Errorf("maze: floor %dx%d too small", size.X, size.Y)
	}
	m.Tiles.Fill(floor.Wall)

	at := func(c gruid.Point) gruid.Point { return gruid.Point{X: 2*c.X + 1, Y: 2*c.Y + 1} }
	inBounds := func(c gruid.Point) bool { return c.X >= 0 && c.X < cols && c.Y >= 0 && c.Y < rows }

	visited := make(map[gruid.Point]bool, cols*rows)
	start := gruid.Point{X: cols / 2, Y: rows / 2}
	visited[start] = true
	m.Tiles.Set(at(start), floor.Ground)

	// Iterative backtracker.
	stack := []gruid.Point{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		var next []gruid.Point
		for _, d := range mazeDirections {
			n := cur.Add(d)
			if inBounds(n) && !visited[n] {
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		n := next[m.Rand.IntN(len(next))]
		visited[n] = true
		m.Tiles.Set(at(cur).Add(n.Sub(cur)), floor.Ground)
		m.Tiles.Set(at(n), floor.Ground)
		stack = append(stack, n)
	}

	if s.Braid <= 0 {
		return nil
	}
	for _, c := range s.deadEnds(m, cols, rows) {
		if m.Rand.Float64() >= s.Braid {
			continue
		}
		var walls []gruid.Point
		for _, d := range mazeDirections {
			if !inBounds(c.Add(d)) {
				continue
			}
			if w := at(c).Add(d); m.Tiles.At(w) == floor.Wall {
				walls = append(walls, w)
			}
		}
		if len(walls) > 0 {
			m.Tiles.Set(walls[m.Rand.IntN(len(walls))], floor.Ground)
		}
	}
	return nil
}

// deadEnds returns the maze cells with a single exit, in row-major order.
func (s *MazeStep) deadEnds(m *floor.Map, cols, rows int) []gruid.Point {
	var out []gruid.Point
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := gruid.Point{X: x, Y: y}
			p := gruid.Point{X: 2*x + 1, Y: 2*y + 1}
			exits := 0
			for _, d := range mazeDirections {
				if q := p.Add(d); m.Tiles.Contains(q) && m.Tiles.At(q) == floor.Ground {
					exits++
				}
			}
			if exits == 1 {
				out = append(out, c)
			}
		}
	}
	return out
}

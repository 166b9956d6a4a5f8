package steps

import (
	"errors"
	"fmt"

	"codeberg.org/anaseto/gruid"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/postproc"
	"github.com/lawnchairsociety/dungeongen/internal/rangeindex"
)

// MobStep spawns Teams teams of TeamSize members from the floor's team spawn
// table. Each member is drawn separately; a gated draw leaves its slot empty.
// While a team is filled it is the floor's pending team, so conditions see
// its members. It is registered once it has a member.
type MobStep struct {
	Teams    rangeindex.IntRange `yaml:"teams"`
	TeamSize rangeindex.IntRange `yaml:"team_size"`
}

func (s *MobStep) Apply(m *floor.Map) error {
	teams := s.Teams.Roll(m.Rand)
	if teams == 0 || !m.TeamSpawns.CanPick() {
		return nil
	}
	free := m.FreeCells(postproc.None)
	for i := 0; i < teams; i++ {
		size := max(s.TeamSize.Roll(m.Rand), 1)
		team := &floor.Team{Index: len(m.Teams)}

		m.Pending = team
		err := s.fillTeam(m, team, size, &free)
		m.Pending = nil
		if team.Len() > 0 {
			m.AddTeam(team)
		}

		if errors.Is(err, ErrNoRoom) {
			logger.Debug("mob step ran out of cells", "floor", m.Index, "team", team.Index)
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// fillTeam spawns up to size members into team. A cell must be free before a
// recipe runs, so features never act on a character that cannot be placed.
func (s *MobStep) fillTeam(m *floor.Map, team *floor.Team, size int, free *[]gruid.Point) error {
	for j := 0; j < size; j++ {
		if len(*free) == 0 {
			return ErrNoRoom
		}
		recipe, err := m.TeamSpawns.Pick(m.Rand)
		if err != nil {
			return err
		}
		c, err := recipe.Spawn(m, team)
		if err != nil {
			return fmt.Errorf("team %d: %w", team.Index, err)
		}
		if c == nil {
			continue
		}
		c.Pos, _ = takeCell(m.Rand, free)
	}
	return nil
}

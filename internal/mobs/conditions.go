package mobs

import (
	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/rangeindex"
)

// Condition gates a spawn. Conditions may read mutable floor state, so they
// are evaluated in list order.
type Condition interface {
	CanSpawn(m *floor.Map) bool
}

// FloorCondition passes on floors inside Floors.
type FloorCondition struct {
	Floors rangeindex.IntRange `yaml:"floors"`
}

func (c *FloorCondition) CanSpawn(m *floor.Map) bool {
	return c.Floors.Contains(m.Index)
}

// TeamLimitCondition passes while fewer than Max teams are on the floor.
type TeamLimitCondition struct {
	Max int `yaml:"max"`
}

func (c *TeamLimitCondition) CanSpawn(m *floor.Map) bool {
	return len(m.Teams) < c.Max
}

// UniqueCondition passes while no character of Species is on the floor.
type UniqueCondition struct {
	Species string `yaml:"species,omitempty"`
}

func (c *UniqueCondition) CanSpawn(m *floor.Map) bool {
	for _, ch := range m.Characters() {
		if ch.Species == c.Species {
			return false
		}
	}
	return true
}

package mobs

import (
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/script"
	"github.com/lawnchairsociety/dungeongen/internal/spawn"
)

// Feature mutates a freshly spawned character. Features run in list order.
type Feature interface {
	ApplyFeature(m *floor.Map, c *floor.Character) error
}

// StatusFeature attaches one status picked from Statuses. It does nothing when
// the table is unpickable or the picked status needs an explicit target.
type StatusFeature struct {
	Statuses *spawn.List[string] `yaml:"statuses"`
}

func (f *StatusFeature) ApplyFeature(m *floor.Map, c *floor.Character) error {
	id, err := f.Statuses.Pick(m.Rand)
	if err != nil {
		logger.Debug("status feature skipped: empty table", "species", c.Species)
		return nil
	}
	status, err := m.Data.Status(id)
	if err != nil {
		return err
	}
	if status.Targeted {
		logger.Debug("status feature skipped: targeted status", "species", c.Species, "status", id)
		return nil
	}
	c.Statuses = append(c.Statuses, status.ID)
	return nil
}

// ScriptFeature invokes a script procedure with the floor, the character and
// the parsed Args table.
type ScriptFeature struct {
	Script string `yaml:"script"`
	Args   string `yaml:"args,omitempty"`
}

func (f *ScriptFeature) ApplyFeature(m *floor.Map, c *floor.Character) error {
	if m.Scripts == nil {
		return fmt.Errorf("script %s: no script host", f.Script)
	}
	args, err := script.ParseArgs(f.Args)
	if err != nil {
		return fmt.Errorf("script %s: %w", f.Script, err)
	}
	return m.Scripts.Invoke(f.Script, floor.Call{Map: m, Character: c, Args: args})
}

// LevelScaleFeature raises the level by Percent of itself for every floor past
// BaseFloor, capped at MaxLevel when set.
// Formula: level * (1 + (floor - base) * percent / 100)
type LevelScaleFeature struct {
	BaseFloor int `yaml:"base_floor"`
	Percent   int `yaml:"percent"`
	MaxLevel  int `yaml:"max_level,omitempty"`
}

func (f *LevelScaleFeature) ApplyFeature(m *floor.Map, c *floor.Character) error {
	floors := m.Index - f.BaseFloor
	if floors <= 0 {
		return nil
	}
	multiplier := 1.0 + float64(floors)*float64(f.Percent)/100
	c.Level = int(float64(c.Level) * multiplier)
	if f.MaxLevel > 0 && c.Level > f.MaxLevel {
		c.Level = f.MaxLevel
	}
	return nil
}

// HeldItemFeature gives the character an item from Items with Chance percent
// probability. A Chance of 0 means always.
type HeldItemFeature struct {
	Chance int                 `yaml:"chance,omitempty"`
	Items  *spawn.List[string] `yaml:"items"`
}

func (f *HeldItemFeature) ApplyFeature(m *floor.Map, c *floor.Character) error {
	if f.Chance > 0 && m.Rand.IntN(100) >= f.Chance {
		return nil
	}
	item, err := f.Items.Pick(m.Rand)
	if err != nil {
		logger.Debug("held item feature skipped: empty table", "species", c.Species)
		return nil
	}
	c.HeldItem = item
	return nil
}

// UnrecruitableFeature marks the character as impossible to recruit.
type UnrecruitableFeature struct{}

func (f *UnrecruitableFeature) ApplyFeature(_ *floor.Map, c *floor.Character) error {
	c.Unrecruitable = true
	return nil
}

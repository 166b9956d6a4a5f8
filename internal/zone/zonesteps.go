package zone

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/mobs"
	"github.com/lawnchairsociety/dungeongen/internal/pipeline"
	"github.com/lawnchairsociety/dungeongen/internal/rangeindex"
	"github.com/lawnchairsociety/dungeongen/internal/rng"
	"github.com/lawnchairsociety/dungeongen/internal/spawn"
	"github.com/lawnchairsociety/dungeongen/internal/steps"
)

// FloorStepsZoneStep enqueues the floor steps configured for the floor's
// range.
type FloorStepsZoneStep struct {
	Floors rangeindex.Dict[[]StepSpec] `yaml:"floors"`
}

func (z *FloorStepsZoneStep) Instantiate(uint64) pipeline.ZoneStep { return z }

func (z *FloorStepsZoneStep) Apply(zc *pipeline.ZoneContext, _ *floor.Map, q *pipeline.Queue) error {
	specs, ok := z.Floors.TryGet(zc.FloorIndex)
	if !ok {
		return nil
	}
	for _, s := range specs {
		q.Enqueue(s.Priority, s.Step)
	}
	return nil
}

// MobSpawnZoneStep merges the floor's monster table into the floor's team
// spawn slot, then enqueues Step to place them.
type MobSpawnZoneStep struct {
	Priority pipeline.Priority                                    `yaml:"priority"`
	Step     *steps.MobStep                                       `yaml:"step,omitempty"`
	Spawns   rangeindex.Dict[*spawn.Dict[string, *mobs.MobSpawn]] `yaml:"spawns"`
}

func (z *MobSpawnZoneStep) Instantiate(uint64) pipeline.ZoneStep { return z }

func (z *MobSpawnZoneStep) Apply(zc *pipeline.ZoneContext, m *floor.Map, q *pipeline.Queue) error {
	table, ok := z.Spawns.TryGet(zc.FloorIndex)
	if !ok {
		return nil
	}
	m.TeamSpawns.Merge(spawn.ConvertDict(table, func(s *mobs.MobSpawn) floor.Spawnable { return s }))
	if z.Step != nil {
		q.Enqueue(z.Priority, z.Step)
	}
	return nil
}

// ItemSpawnZoneStep merges the floor's item table into the floor's item slot,
// then enqueues Step to place them.
type ItemSpawnZoneStep struct {
	Priority pipeline.Priority                                     `yaml:"priority"`
	Step     *steps.ItemStep                                       `yaml:"step,omitempty"`
	Spawns   rangeindex.Dict[*spawn.Dict[string, floor.ItemSpawn]] `yaml:"spawns"`
}

func (z *ItemSpawnZoneStep) Instantiate(uint64) pipeline.ZoneStep { return z }

func (z *ItemSpawnZoneStep) Apply(zc *pipeline.ZoneContext, m *floor.Map, q *pipeline.Queue) error {
	table, ok := z.Spawns.TryGet(zc.FloorIndex)
	if !ok {
		return nil
	}
	m.ItemSpawns.Merge(table)
	if z.Step != nil {
		q.Enqueue(z.Priority, z.Step)
	}
	return nil
}

// SpreadZoneStep schedules Step on Count floors chosen at random inside
// Floors. The choice is made once per run, when the step is instantiated.
type SpreadZoneStep struct {
	Floors rangeindex.IntRange `yaml:"floors"`
	Count  rangeindex.IntRange `yaml:"count"`
	Step   StepSpec            `yaml:"step"`

	chosen       mapset.Set[int]
	instantiated bool
}

// Instantiate picks the floors from seed. The receiver is left untouched.
func (z *SpreadZoneStep) Instantiate(seed uint64) pipeline.ZoneStep {
	r := rng.New(seed)
	n := max(min(z.Count.Roll(r), z.Floors.Len()), 0)
	chosen := mapset.New[int]()
	for _, i := range r.Perm(z.Floors.Len())[:n] {
		chosen.Put(z.Floors.Min + i)
	}
	inst := *z
	inst.chosen = chosen
	inst.instantiated = true
	return &inst
}

// Chosen reports whether floor receives the step in this run.
func (z *SpreadZoneStep) Chosen(floorIndex int) bool {
	return z.instantiated && z.chosen.Has(floorIndex)
}

func (z *SpreadZoneStep) Apply(zc *pipeline.ZoneContext, _ *floor.Map, q *pipeline.Queue) error {
	if !z.instantiated {
		return fmt.Errorf("spread step applied before Instantiate")
	}
	if z.Chosen(zc.FloorIndex) {
		q.Enqueue(z.Step.Priority, z.Step.Step)
	}
	return nil
}

// NameZoneStep names floors by range.
type NameZoneStep struct {
	Priority pipeline.Priority       `yaml:"priority"`
	Names    rangeindex.Dict[string] `yaml:"names"`
}

func (z *NameZoneStep) Instantiate(uint64) pipeline.ZoneStep { return z }

func (z *NameZoneStep) Apply(zc *pipeline.ZoneContext, _ *floor.Map, q *pipeline.Queue) error {
	name, ok := z.Names.TryGet(zc.FloorIndex)
	if !ok {
		return nil
	}
	q.Enqueue(z.Priority, &steps.NameStep{Name: name})
	return nil
}

var zoneStepTypes = map[string]func() pipeline.ZoneStep{
	"floor_steps": func() pipeline.ZoneStep { return &FloorStepsZoneStep{} },
	"mob_spawns":  func() pipeline.ZoneStep { return &MobSpawnZoneStep{} },
	"item_spawns": func() pipeline.ZoneStep { return &ItemSpawnZoneStep{} },
	"spread":      func() pipeline.ZoneStep { return &SpreadZoneStep{} },
	"name":        func() pipeline.ZoneStep { return &NameZoneStep{} },
}

// ZoneStepTypes returns the registered zone step tags, sorted.
func ZoneStepTypes() []string {
	out := make([]string, 0, len(zoneStepTypes))
	for k := range zoneStepTypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewZoneStep returns a zero zone step for a registered tag.
func NewZoneStep(tag string) (pipeline.ZoneStep, bool) {
	newFn, ok := zoneStepTypes[tag]
	if !ok {
		return nil, false
	}
	return newFn(), true
}

// ZoneSteps decodes a list of zone steps tagged by a "type" key.
type ZoneSteps []pipeline.ZoneStep

func (zs *ZoneSteps) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: zone steps must be a list", value.Line)
	}
	out := make(ZoneSteps, 0, len(value.Content))
	for _, item := range value.Content {
		var head struct {
			Type string `yaml:"type"`
		}
		if err := item.Decode(&head); err != nil {
			return fmt.Errorf("line %d: zone step: %w", item.Line, err)
		}
		newFn, ok := zoneStepTypes[head.Type]
		if !ok {
			return fmt.Errorf("line %d: %w %q", item.Line, ErrUnknownStep, head.Type)
		}
		step := newFn()
		if err := item.Decode(step); err != nil {
			return fmt.Errorf("line %d: %s zone step: %w", item.Line, head.Type, err)
		}
		out = append(out, step)
	}
	*zs = out
	return nil
}

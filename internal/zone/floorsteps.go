package zone

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/pipeline"
	"github.com/lawnchairsociety/dungeongen/internal/steps"
)

// ErrUnknownStep is returned when a zone file names a step type that is not
// registered.
var ErrUnknownStep = errors.New("zone: unknown step type")

var floorStepTypes = map[string]func() pipeline.FloorStep{
	"cave":      func() pipeline.FloorStep { return &steps.CaveStep{} },
	"walk_cave": func() pipeline.FloorStep { return &steps.WalkCaveStep{} },
	"border":    func() pipeline.FloorStep { return &steps.BorderStep{} },
	"maze":      func() pipeline.FloorStep { return &steps.MazeStep{} },
	"connect":   func() pipeline.FloorStep { return &steps.ConnectStep{} },
	"water":     func() pipeline.FloorStep { return &steps.WaterStep{} },
	"stairs":    func() pipeline.FloorStep { return &steps.StairsStep{} },
	"panels":    func() pipeline.FloorStep { return &steps.PanelStep{} },
	"items":     func() pipeline.FloorStep { return &steps.ItemStep{} },
	"mobs":      func() pipeline.FloorStep { return &steps.MobStep{} },
	"name":      func() pipeline.FloorStep { return &steps.NameStep{} },
}

// FloorStepTypes returns the registered floor step tags, sorted.
func FloorStepTypes() []string {
	out := make([]string, 0, len(floorStepTypes))
	for k := range floorStepTypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewFloorStep returns a zero floor step for a registered tag.
func NewFloorStep(tag string) (pipeline.FloorStep, bool) {
	newFn, ok := floorStepTypes[tag]
	if !ok {
		return nil, false
	}
	return newFn(), true
}

// StepSpec is a floor step with the priority it is enqueued at. In YAML it is
// a mapping with "type" and "priority" keys plus the step's own fields.
type StepSpec struct {
	Type     string
	Priority pipeline.Priority
	Step     pipeline.FloorStep
}

func (s *StepSpec) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Type     string            `yaml:"type"`
		Priority pipeline.Priority `yaml:"priority"`
	}
	if err := value.Decode(&head); err != nil {
		return fmt.Errorf("line %d: floor step: %w", value.Line, err)
	}
	newFn, ok := floorStepTypes[head.Type]
	if !ok {
		return fmt.Errorf("line %d: %w %q", value.Line, ErrUnknownStep, head.Type)
	}
	if head.Priority == nil {
		return fmt.Errorf("line %d: %s step without priority", value.Line, head.Type)
	}
	step := newFn()
	if err := value.Decode(step); err != nil {
		return fmt.Errorf("line %d: %s step: %w", value.Line, head.Type, err)
	}
	*s = StepSpec{Type: head.Type, Priority: head.Priority, Step: step}
	return nil
}

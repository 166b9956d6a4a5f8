package mobs

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Conditions decodes a list of conditions tagged by a "type" key.
type Conditions []Condition

// Features decodes a list of features tagged by a "type" key.
type Features []Feature

var conditionTypes = map[string]func() Condition{
	"floor":      func() Condition { return &FloorCondition{} },
	"team_limit": func() Condition { return &TeamLimitCondition{} },
	"unique":     func() Condition { return &UniqueCondition{} },
}

var featureTypes = map[string]func() Feature{
	"status":        func() Feature { return &StatusFeature{} },
	"script":        func() Feature { return &ScriptFeature{} },
	"level_scale":   func() Feature { return &LevelScaleFeature{} },
	"held_item":     func() Feature { return &HeldItemFeature{} },
	"unrecruitable": func() Feature { return &UnrecruitableFeature{} },
}

// ConditionTypes returns the registered condition tags, sorted.
func ConditionTypes() []string { return tags(conditionTypes) }

// FeatureTypes returns the registered feature tags, sorted.
func FeatureTypes() []string { return tags(featureTypes) }

// NewCondition returns a zero condition for a registered tag.
func NewCondition(tag string) (Condition, bool) { return build(conditionTypes, tag) }

// NewFeature returns a zero feature for a registered tag.
func NewFeature(tag string) (Feature, bool) { return build(featureTypes, tag) }

func build[T any](m map[string]func() T, tag string) (T, bool) {
	newFn, ok := m[tag]
	if !ok {
		var zero T
		return zero, false
	}
	return newFn(), true
}

func tags[T any](m map[string]func() T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Conditions) UnmarshalYAML(value *yaml.Node) error {
	list, err := decodeTagged(value, "condition", conditionTypes)
	if err != nil {
		return err
	}
	*c = list
	return nil
}

func (f *Features) UnmarshalYAML(value *yaml.Node) error {
	list, err := decodeTagged(value, "feature", featureTypes)
	if err != nil {
		return err
	}
	*f = list
	return nil
}

func decodeTagged[T any](value *yaml.Node, kind string, types map[string]func() T) ([]T, error) {
	if value.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %ss must be a list", value.Line, kind)
	}
	out := make([]T, 0, len(value.Content))
	for _, item := range value.Content {
		var head struct {
			Type string `yaml:"type"`
		}
		if err := item.Decode(&head); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", item.Line, kind, err)
		}
		newFn, ok := types[head.Type]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown %s type %q", item.Line, kind, head.Type)
		}
		v := newFn()
		if err := item.Decode(v); err != nil {
			return nil, fmt.Errorf("line %d: %s %s: %w", item.Line, head.Type, kind, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// UnmarshalYAML decodes a recipe and applies Normalize.
func (s *MobSpawn) UnmarshalYAML(value *yaml.Node) error {
	type plain MobSpawn
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Species == "" {
		return fmt.Errorf("line %d: mob spawn without species", value.Line)
	}
	*s = MobSpawn(p)
	s.Normalize()
	return nil
}

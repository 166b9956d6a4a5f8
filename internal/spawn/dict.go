package spawn

import (
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

type category[T any] struct {
	weight int
	list   *List[T]
}

// Dict is a two-level table: a weighted choice of category, then a weighted
// choice inside that category's list. Categories keep insertion order.
type Dict[K comparable, T any] struct {
	// DefaultWeight is the category weight given to categories created by
	// AddItem or Merge.
	DefaultWeight int

	keys []K
	cats map[K]*category[T]
}

// NewDict returns an empty dict whose implicit categories weigh defaultWeight.
func NewDict[K comparable, T any](defaultWeight int) *Dict[K, T] {
	return &Dict[K, T]{DefaultWeight: defaultWeight, cats: make(map[K]*category[T])}
}

func (d *Dict[K, T]) ensure(key K, weight int) *category[T] {
	if d.cats == nil {
		d.cats = make(map[K]*category[T])
	}
	c, ok := d.cats[key]
	if !ok {
		c = &category[T]{weight: weight, list: NewList[T]()}
		d.cats[key] = c
		d.keys = append(d.keys, key)
	}
	return c
}

// Add creates the category or sets its weight if it exists.
func (d *Dict[K, T]) Add(key K, weight int) {
	if weight < 0 {
		panic(fmt.Sprintf("spawn: negative category weight %d", weight))
	}
	d.ensure(key, weight).weight = weight
}

// AddItem appends value to key's list, creating the category with
// DefaultWeight when missing.
func (d *Dict[K, T]) AddItem(key K, value T, weight int) {
	d.ensure(key, d.DefaultWeight).list.Add(value, weight)
}

// Category returns the nested list for key.
func (d *Dict[K, T]) Category(key K) (*List[T], bool) {
	c, ok := d.cats[key]
	if !ok {
		return nil, false
	}
	return c.list, true
}

// Weight returns key's category weight, 0 when absent.
func (d *Dict[K, T]) Weight(key K) int {
	if c, ok := d.cats[key]; ok {
		return c.weight
	}
	return 0
}

// Keys returns the category keys in insertion order.
func (d *Dict[K, T]) Keys() []K {
	return append([]K(nil), d.keys...)
}

// Len returns the number of categories.
func (d *Dict[K, T]) Len() int {
	return len(d.keys)
}

// pickable reports whether a category takes part in the first-level draw.
func (c *category[T]) pickable() bool {
	return c.weight > 0 && c.list.CanPick()
}

// Total returns the summed weight of the categories that can be picked.
func (d *Dict[K, T]) Total() int {
	total := 0
	for _, k := range d.keys {
		if c := d.cats[k]; c.pickable() {
			total += c.weight
		}
	}
	return total
}

// CanPick reports whether Pick can succeed.
func (d *Dict[K, T]) CanPick() bool {
	return d != nil && d.Total() > 0
}

// Pick chooses a category by weight among pickable categories, then a value
// inside it. It draws exactly two integers on success.
func (d *Dict[K, T]) Pick(r *rand.Rand) (T, error) {
	var zero T
	if !d.CanPick() {
		return zero, ErrUnpickable
	}
	draw := r.IntN(d.Total())
	acc := 0
	for _, k := range d.keys {
		c := d.cats[k]
		if !c.pickable() {
			continue
		}
		acc += c.weight
		if draw < acc {
			return c.list.Pick(r)
		}
	}
	return zero, ErrUnpickable
}

// Flat is a leaf of a flattened Dict with its joint probability.
type Flat[T any] struct {
	Value       T
	Probability float64
}

// Flatten returns every pickable leaf with probability
// (leaf weight / list total) * (category weight / dict total), in category
// then entry order.
func (d *Dict[K, T]) Flatten() []Flat[T] {
	total := d.Total()
	if total == 0 {
		return nil
	}
	var out []Flat[T]
	for _, k := range d.keys {
		c := d.cats[k]
		if !c.pickable() {
			continue
		}
		catP := float64(c.weight) / float64(total)
		for _, e := range c.list.entries {
			if e.Weight == 0 {
				continue
			}
			out = append(out, Flat[T]{
				Value:       e.Value,
				Probability: catP * float64(e.Weight) / float64(c.list.total),
			})
		}
	}
	return out
}

// Merge appends src's entries into d. A category missing from d is created
// with d.DefaultWeight; src's category weight is never copied, and an
// existing category keeps the weight it already had. Entry weights are
// appended unchanged.
func (d *Dict[K, T]) Merge(src *Dict[K, T]) {
	if src == nil {
		return
	}
	for _, k := range src.keys {
		dst := d.ensure(k, d.DefaultWeight)
		if w := src.cats[k].weight; w != dst.weight {
			logger.Debug("merged category keeps destination weight",
				"category", fmt.Sprint(k), "source_weight", w, "weight", dst.weight)
		}
		for _, e := range src.cats[k].list.entries {
			dst.list.Add(e.Value, e.Weight)
		}
	}
}

// ConvertDict returns a copy of src with every value passed through f.
// Category weights and entry weights are kept.
func ConvertDict[K comparable, S, D any](src *Dict[K, S], f func(S) D) *Dict[K, D] {
	out := NewDict[K, D](src.DefaultWeight)
	for _, k := range src.keys {
		c := src.cats[k]
		out.Add(k, c.weight)
		for _, e := range c.list.entries {
			out.AddItem(k, f(e.Value), e.Weight)
		}
	}
	return out
}

type yamlCategory[T any] struct {
	Weight int      `yaml:"weight"`
	Spawns *List[T] `yaml:"spawns"`
}

// UnmarshalYAML reads a mapping of key -> {weight, spawns}. Key order in the
// document is the pick order.
func (d *Dict[K, T]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: spawn dict must be a mapping", value.Line)
	}
	*d = Dict[K, T]{DefaultWeight: d.DefaultWeight}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key K
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		var cat yamlCategory[T]
		if err := value.Content[i+1].Decode(&cat); err != nil {
			return err
		}
		if cat.Weight < 0 {
			return fmt.Errorf("line %d: category %v has negative weight", value.Content[i].Line, key)
		}
		d.Add(key, cat.Weight)
		if cat.Spawns != nil {
			c := d.cats[key]
			for _, e := range cat.Spawns.entries {
				c.list.Add(e.Value, e.Weight)
			}
		}
	}
	return nil
}

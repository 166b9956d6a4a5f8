// Package spawn implements the weighted random tables that decide what
// appears on a floor.
//
// Picks are bit-reproducible: for the same *rand.Rand state and the same table
// contents, Pick draws exactly one integer and returns the same value.
package spawn

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"
)

// ErrUnpickable is returned when a table's total weight is zero.
var ErrUnpickable = errors.New("spawn: table has no weight")

// Entry is one weighted value in a List.
type Entry[T any] struct {
	Value  T   `yaml:"value"`
	Weight int `yaml:"weight"`
}

// List is a flat weighted table.
type List[T any] struct {
	entries []Entry[T]
	total   int
}

// NewList returns an empty list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Add appends value with the given weight. Weights must not be negative.
func (l *List[T]) Add(value T, weight int) {
	if weight < 0 {
		panic(fmt.Sprintf("spawn: negative weight %d", weight))
	}
	l.entries = append(l.entries, Entry[T]{Value: value, Weight: weight})
	l.total += weight
}

// Len returns the number of entries, including zero-weight ones.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Total returns the sum of weights.
func (l *List[T]) Total() int {
	if l == nil {
		return 0
	}
	return l.total
}

// CanPick reports whether Pick can succeed.
func (l *List[T]) CanPick() bool {
	return l != nil && l.total > 0
}

// Entries returns a copy of the entries in insertion order.
func (l *List[T]) Entries() []Entry[T] {
	return append([]Entry[T](nil), l.entries...)
}

// Pick draws uniformly in [0, Total) and returns the entry whose weight band
// contains the draw.
func (l *List[T]) Pick(r *rand.Rand) (T, error) {
	var zero T
	if !l.CanPick() {
		return zero, ErrUnpickable
	}
	return l.pickAt(r.IntN(l.total)), nil
}

func (l *List[T]) pickAt(draw int) T {
	acc := 0
	for _, e := range l.entries {
		acc += e.Weight
		if draw < acc {
			return e.Value
		}
	}
	// Unreachable while total matches the entries.
	return l.entries[len(l.entries)-1].Value
}

// UnmarshalYAML reads a sequence of {value, weight} mappings.
func (l *List[T]) UnmarshalYAML(value *yaml.Node) error {
	var entries []Entry[T]
	if err := value.Decode(&entries); err != nil {
		return err
	}
	*l = List[T]{}
	for i, e := range entries {
		if e.Weight < 0 {
			return fmt.Errorf("line %d: entry %d has negative weight %d", value.Line, i, e.Weight)
		}
		l.Add(e.Value, e.Weight)
	}
	return nil
}

// MarshalYAML writes the entries as a sequence.
func (l *List[T]) MarshalYAML() (any, error) {
	return l.entries, nil
}

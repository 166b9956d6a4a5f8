// Package rangeindex maps floor-index ranges to configuration values.
//
// A Dict never holds two entries that overlap. Set erases whatever it
// overlaps before inserting, splitting partially covered entries so that the
// untouched portions keep their old value.
package rangeindex

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/interval"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Get when no entry covers the index.
var ErrNotFound = errors.New("rangeindex: no entry covers index")

// Dict is a set of disjoint ranges, each bound to a value.
// The zero value is an empty dict ready to use.
type Dict[T any] struct {
	tree *interval.Tree[int, T]
}

// New returns an empty dict.
func New[T any]() *Dict[T] {
	return &Dict[T]{tree: interval.New[int, T]()}
}

func (d *Dict[T]) entries() *interval.Tree[int, T] {
	if d.tree == nil {
		d.tree = interval.New[int, T]()
	}
	return d.tree
}

// Set binds value to r, overwriting any part of existing entries that r covers.
func (d *Dict[T]) Set(value T, r IntRange) {
	if r.Empty() {
		return
	}
	d.Erase(r)
	d.entries().Put(r.Min, r.Max, value)
}

// Erase removes r from the dict. Entries fully inside r are dropped, entries
// strictly containing r are split in two, and entries overlapping one edge
// are shrunk to the side outside r. Split halves share the original value.
func (d *Dict[T]) Erase(r IntRange) {
	if r.Empty() {
		return
	}
	tree := d.entries()
	for _, kv := range tree.Overlaps(r.Min, r.Max) {
		tree.Remove(kv.Low)
		if kv.Low < r.Min {
			tree.Put(kv.Low, r.Min, kv.Val)
		}
		if kv.High > r.Max {
			tree.Put(r.Max, kv.High, kv.Val)
		}
	}
}

// Get returns the value whose range covers index.
func (d *Dict[T]) Get(index int) (T, error) {
	v, ok := d.TryGet(index)
	if !ok {
		return v, fmt.Errorf("%w: %d", ErrNotFound, index)
	}
	return v, nil
}

// TryGet is Get for callers that expect misses.
func (d *Dict[T]) TryGet(index int) (T, bool) {
	var zero T
	if d.tree == nil {
		return zero, false
	}
	hits := d.tree.Overlaps(index, index+1)
	if len(hits) == 0 {
		return zero, false
	}
	return hits[0].Val, true
}

// Contains reports whether some entry covers index.
func (d *Dict[T]) Contains(index int) bool {
	_, ok := d.TryGet(index)
	return ok
}

// Len returns the number of stored ranges.
func (d *Dict[T]) Len() int {
	if d.tree == nil {
		return 0
	}
	return d.tree.Size()
}

// Ranges returns the stored ranges in ascending order.
func (d *Dict[T]) Ranges() []IntRange {
	var out []IntRange
	d.Each(func(r IntRange, _ T) {
		out = append(out, r)
	})
	return out
}

// Each calls fn for every entry in ascending range order.
func (d *Dict[T]) Each(fn func(r IntRange, value T)) {
	if d.tree == nil {
		return
	}
	d.tree.Each(func(low, high int, val T) {
		fn(IntRange{Min: low, Max: high}, val)
	})
}

type yamlEntry[T any] struct {
	Range IntRange `yaml:"range"`
	Value T        `yaml:"value"`
}

// UnmarshalYAML reads a sequence of {range, value} mappings. Entries are
// applied with Set in document order, so later entries win where they overlap.
func (d *Dict[T]) UnmarshalYAML(value *yaml.Node) error {
	var entries []yamlEntry[T]
	if err := value.Decode(&entries); err != nil {
		return err
	}
	d.tree = interval.New[int, T]()
	for _, e := range entries {
		d.Set(e.Value, e.Range)
	}
	return nil
}

// MarshalYAML writes the entries in range order.
func (d *Dict[T]) MarshalYAML() (any, error) {
	entries := make([]yamlEntry[T], 0, d.Len())
	d.Each(func(r IntRange, v T) {
		entries = append(entries, yamlEntry[T]{Range: r, Value: v})
	})
	return entries, nil
}

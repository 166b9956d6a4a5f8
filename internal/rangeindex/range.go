package rangeindex

import (
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"
)

// IntRange is the half-open interval [Min, Max).
type IntRange struct {
	Min int
	Max int
}

// NewRange returns [min, max).
func NewRange(min, max int) IntRange {
	return IntRange{Min: min, Max: max}
}

// Single returns the range holding only n.
func Single(n int) IntRange {
	return IntRange{Min: n, Max: n + 1}
}

// Len is the number of integers in the range, 0 for empty or inverted ranges.
func (r IntRange) Len() int {
	if r.Max <= r.Min {
		return 0
	}
	return r.Max - r.Min
}

// Empty reports whether the range holds no integer.
func (r IntRange) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether n lies in [Min, Max).
func (r IntRange) Contains(n int) bool {
	return n >= r.Min && n < r.Max
}

// Roll draws uniformly from [Min, Max). An empty range yields Min without
// consuming randomness.
func (r IntRange) Roll(rnd *rand.Rand) int {
	if r.Len() <= 1 {
		return r.Min
	}
	return r.Min + rnd.IntN(r.Len())
}

func (r IntRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Min, r.Max)
}

// UnmarshalYAML accepts either a two element sequence [min, max] or a single
// integer n meaning [n, n+1).
func (r *IntRange) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("line %d: range: %w", value.Line, err)
		}
		*r = Single(n)
		return nil
	case yaml.SequenceNode:
		var bounds []int
		if err := value.Decode(&bounds); err != nil {
			return fmt.Errorf("line %d: range: %w", value.Line, err)
		}
		if len(bounds) != 2 {
			return fmt.Errorf("line %d: range needs [min, max], got %d values", value.Line, len(bounds))
		}
		*r = IntRange{Min: bounds[0], Max: bounds[1]}
		return nil
	default:
		return fmt.Errorf("line %d: range must be an integer or [min, max]", value.Line)
	}
}

// MarshalYAML writes the range as [min, max].
func (r IntRange) MarshalYAML() (any, error) {
	return []int{r.Min, r.Max}, nil
}

// Package pipeline schedules floor generation work: zone steps enqueue floor
// steps with a priority, and the queue is drained in priority order with ties
// broken by insertion order.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority orders floor steps. It is compared element by element; when one
// priority is a prefix of the other, the shorter one sorts first, so 2 < 2.1 < 3.
type Priority []int

// P builds a priority from its components.
func P(parts ...int) Priority {
	return Priority(parts)
}

// Compare returns -1, 0 or 1.
func (p Priority) Compare(o Priority) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		switch {
		case p[i] < o[i]:
			return -1
		case p[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// Less reports whether p sorts before o.
func (p Priority) Less(o Priority) bool {
	return p.Compare(o) < 0
}

func (p Priority) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// ParsePriority parses the dotted form "2.1".
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty priority")
	}
	fields := strings.Split(s, ".")
	p := make(Priority, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid priority %q: %w", s, err)
		}
		p[i] = n
	}
	return p, nil
}

// UnmarshalYAML accepts 2, "2.1" or [2, 1].
func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParsePriority(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*p = parsed
		return nil
	case yaml.SequenceNode:
		var parts []int
		if err := value.Decode(&parts); err != nil {
			return fmt.Errorf("line %d: priority: %w", value.Line, err)
		}
		if len(parts) == 0 {
			return fmt.Errorf("line %d: empty priority", value.Line)
		}
		*p = parts
		return nil
	}
	return fmt.Errorf("line %d: priority must be a number, dotted string or list", value.Line)
}

// MarshalYAML writes the dotted form.
func (p Priority) MarshalYAML() (any, error) {
	return p.String(), nil
}

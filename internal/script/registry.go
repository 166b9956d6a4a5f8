// Package script hosts named Go procedures that floor generation can invoke
// by qualified name, such as "mobs.rename".
package script

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
)

// ErrUnknownProcedure is returned by Invoke for an unregistered name.
var ErrUnknownProcedure = errors.New("script: unknown procedure")

// Procedure is a registered script entry point.
type Procedure func(call floor.Call) error

// Registry implements floor.ScriptHost over a fixed set of procedures.
// Procedures are registered at start-up; the registry is read-only afterwards.
type Registry struct {
	procs map[string]Procedure
}

// NewRegistry returns a registry holding the built-in procedures.
func NewRegistry() *Registry {
	r := &Registry{procs: make(map[string]Procedure)}
	registerBuiltins(r)
	return r
}

// Register adds fn under name. Registering a name twice is an error.
func (r *Registry) Register(name string, fn Procedure) error {
	if name == "" {
		return fmt.Errorf("script: empty procedure name")
	}
	if _, exists := r.procs[name]; exists {
		return fmt.Errorf("script: procedure %q already registered", name)
	}
	r.procs[name] = fn
	return nil
}

// Names returns the registered procedure names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.procs))
	for n := range r.procs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the procedure synchronously. The procedure's own error is
// returned as is.
func (r *Registry) Invoke(name string, call floor.Call) error {
	fn, ok := r.procs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProcedure, name)
	}
	return fn(call)
}

// ParseArgs parses an argument table written as a YAML mapping, usually in
// flow style: "{name: Bob, levels: 2}". Blank text yields an empty table.
func ParseArgs(text string) (map[string]any, error) {
	args := make(map[string]any)
	if strings.TrimSpace(text) == "" {
		return args, nil
	}
	if err := yaml.Unmarshal([]byte(text), &args); err != nil {
		return nil, fmt.Errorf("failed to parse script arguments: %w", err)
	}
	if args == nil {
		args = make(map[string]any)
	}
	return args, nil
}

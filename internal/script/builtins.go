package script

import (
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
)

// MaxLevel caps mobs.boost_level.
const MaxLevel = 100

func registerBuiltins(r *Registry) {
	r.procs["mobs.rename"] = rename
	r.procs["mobs.boost_level"] = boostLevel
	r.procs["mobs.set_var"] = setVar
}

func rename(call floor.Call) error {
	name, err := stringArg(call.Args, "name")
	if err != nil {
		return err
	}
	call.Character.Name = name
	return nil
}

// boostLevel adds "levels" plus "per_floor" times the floor index.
func boostLevel(call floor.Call) error {
	levels, err := intArg(call.Args, "levels", 0)
	if err != nil {
		return err
	}
	perFloor, err := intArg(call.Args, "per_floor", 0)
	if err != nil {
		return err
	}
	if call.Map != nil {
		levels += perFloor * call.Map.Index
	}
	call.Character.Level = min(max(call.Character.Level+levels, 1), MaxLevel)
	return nil
}

func setVar(call floor.Call) error {
	key, err := stringArg(call.Args, "key")
	if err != nil {
		return err
	}
	value, ok := call.Args["value"]
	if !ok {
		return fmt.Errorf("mobs.set_var: missing argument %q", "value")
	}
	call.Character.SetVar(key, fmt.Sprint(value))
	return nil
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}

func intArg(args map[string]any, key string, def int) (int, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("argument %q must be an integer, got %T", key, v)
	}
	return n, nil
}

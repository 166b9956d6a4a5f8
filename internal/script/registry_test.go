package script

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		text string
		want map[string]any
		err  bool
	}{
		{"", map[string]any{}, false},
		{"   ", map[string]any{}, false},
		{"{name: Bob, levels: 2}", map[string]any{"name": "Bob", "levels": 2}, false},
		{"name: Ann\nhostile: true", map[string]any{"name": "Ann", "hostile": true}, false},
		{"{unterminated", nil, true},
		{"[1, 2]", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseArgs(tt.text)
		if tt.err {
			if err == nil {
				t.Errorf("ParseArgs(%q) succeeded, want error", tt.text)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseArgs(%q): %v", tt.text, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseArgs(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("ParseArgs(%q)[%s] = %v, want %v", tt.text, k, got[k], v)
			}
		}
	}
}

func TestInvokeUnknown(t *testing.T) {
	r := NewRegistry()
	err := r.Invoke("mobs.explode", floor.Call{})
	if !errors.Is(err, ErrUnknownProcedure) {
		t.Errorf("Invoke error = %v, want ErrUnknownProcedure", err)
	}
}

func TestInvokePropagatesErrorUnmodified(t *testing.T) {
	sentinel := errors.New("script failed")
	r := NewRegistry()
	if err := r.Register("test.fail", func(floor.Call) error { return sentinel }); err != nil {
		t.Fatal(err)
	}
	if err := r.Invoke("test.fail", floor.Call{}); err != sentinel {
		t.Errorf("Invoke error = %v, want the procedure's own error", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("mobs.rename", rename); err == nil {
		t.Error("duplicate Register succeeded")
	}
	if err := r.Register("", rename); err == nil {
		t.Error("empty name Register succeeded")
	}
	names := r.Names()
	if len(names) != 3 || names[0] != "mobs.boost_level" {
		t.Errorf("Names() = %v", names)
	}
}

func TestBuiltins(t *testing.T) {
	r := NewRegistry()
	m := &floor.Map{Index: 4}

	tests := []struct {
		name  string
		proc  string
		args  string
		level int
		check func(c *floor.Character) bool
		err   bool
	}{
		{"rename", "mobs.rename", "{name: Grumble}", 5,
			func(c *floor.Character) bool { return c.Name == "Grumble" }, false},
		{"rename missing", "mobs.rename", "{}", 5, nil, true},
		{"rename wrong type", "mobs.rename", "{name: 3}", 5, nil, true},
		{"boost", "mobs.boost_level", "{levels: 3}", 5,
			func(c *floor.Character) bool { return c.Level == 8 }, false},
		{"boost per floor", "mobs.boost_level", "{levels: 1, per_floor: 2}", 5,
			func(c *floor.Character) bool { return c.Level == 14 }, false},
		{"boost capped", "mobs.boost_level", "{levels: 500}", 5,
			func(c *floor.Character) bool { return c.Level == MaxLevel }, false},
		{"boost floor of one", "mobs.boost_level", "{levels: -50}", 5,
			func(c *floor.Character) bool { return c.Level == 1 }, false},
		{"boost bad", "mobs.boost_level", "{levels: lots}", 5, nil, true},
		{"set var", "mobs.set_var", "{key: mood, value: 7}", 5,
			func(c *floor.Character) bool { return c.Vars["mood"] == "7" }, false},
		{"set var no value", "mobs.set_var", "{key: mood}", 5, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatal(err)
			}
			c := &floor.Character{Level: tt.level}
			err = r.Invoke(tt.proc, floor.Call{Map: m, Character: c, Args: args})
			if tt.err {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			if !tt.check(c) {
				t.Errorf("character after %s = %+v", tt.proc, c)
			}
		})
	}
}

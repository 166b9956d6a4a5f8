package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

func TestParseFloorRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{"5", 5, 5, false},
		{"0-11", 0, 11, false},
		{" 2 - 4 ", 2, 4, false},
		{"0", 0, 0, false},
		{"-1", 0, 0, true},
		{"4-2", 0, 0, true},
		{"a-3", 0, 0, true},
		{"1-b", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, err := parseFloorRange(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseFloorRange(%q) = %d, %d; want error", tt.in, start, end)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFloorRange(%q): %v", tt.in, err)
			}
			if start != tt.start || end != tt.end {
				t.Errorf("parseFloorRange(%q) = %d, %d; want %d, %d", tt.in, start, end, tt.start, tt.end)
			}
		})
	}
}

// countCloses wraps the reference data opener and counts close calls.
func countCloses(t *testing.T) *int {
	t.Helper()
	closes := 0
	orig := openProvider
	openProvider = func(cfg database.Config, dataFile string) (refdata.Provider, func() error, error) {
		p, closeFn, err := orig(cfg, dataFile)
		if err != nil {
			return nil, nil, err
		}
		return p, func() error { closes++; return closeFn() }, nil
	}
	t.Cleanup(func() { openProvider = orig })
	return &closes
}

func writeConfig(t *testing.T) string {
	t.Helper()
	cfg := `generator:
  seed: 3
  zone_file: ../../data/zones/damp_cave.yaml
  data_file: ../../data/catalog.yaml
logging:
  level: ERROR
`
	path := filepath.Join(t.TempDir(), "dungeongen.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunGeneratesFloors(t *testing.T) {
	closes := countCloses(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeConfig(t), "-floors", "0-1", "-roster"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	for _, want := range []string{"== damp_cave floor 0", "== damp_cave floor 1"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
	if *closes != 1 {
		t.Errorf("reference data closed %d times, want 1", *closes)
	}
}

func TestRunClosesDataOnFailure(t *testing.T) {
	closes := countCloses(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeConfig(t), "-floors", "11-13"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "floor 12: FAILED") {
		t.Errorf("stderr missing failure: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "== damp_cave floor 11") {
		t.Error("floor 11 should still be generated")
	}
	if *closes != 1 {
		t.Errorf("reference data closed %d times, want 1", *closes)
	}
}

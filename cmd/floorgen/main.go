// floorgen generates floors of a zone and prints them.
//
// Usage:
//
//	go run ./cmd/floorgen -zone data/zones/damp_cave.yaml -seed 42 -floors 0-3 -roster
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/script"
	"github.com/lawnchairsociety/dungeongen/internal/zone"
)

// openProvider is replaced in tests.
var openProvider = database.OpenProvider

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run generates the requested floors and returns the exit code. Reference
// data is closed before it returns.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("floorgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "data/dungeongen.yaml", "Path to generator config YAML file")
	zoneFile := fs.String("zone", "", "Zone file (overrides config)")
	dataFile := fs.String("data", "", "Reference data catalog (overrides config)")
	seed := fs.Uint64("seed", 0, "Run seed (overrides config)")
	floors := fs.String("floors", "0", "Floor range to generate (e.g., 0-11 or 5)")
	width := fs.Int("width", 0, "Floor width override")
	height := fs.Int("height", 0, "Floor height override")
	roster := fs.Bool("roster", false, "Print the character roster after each map")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logConfig, _ := logger.LoadConfig(*configFile)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "zone":
			cfg.Generator.ZoneFile = *zoneFile
		case "data":
			cfg.Generator.DataFile = *dataFile
		case "seed":
			cfg.Generator.Seed = *seed
		case "width":
			cfg.Generator.MapWidth = *width
		case "height":
			cfg.Generator.MapHeight = *height
		}
	})

	startFloor, endFloor, err := parseFloorRange(*floors)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid floor range: %v\n", err)
		return 1
	}

	doc, err := zone.LoadDocument(cfg.Generator.ZoneFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	data, closeData, err := openProvider(cfg.Database, cfg.Generator.DataFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to open reference data: %v\n", err)
		return 1
	}
	defer func() {
		if err := closeData(); err != nil {
			logger.Warning("Failed to close reference data", "error", err)
		}
	}()

	gen := zone.NewGenerator(doc, zone.Options{
		Seed:    cfg.Generator.Seed,
		Data:    data,
		Scripts: script.NewRegistry(),
		Width:   cfg.Generator.MapWidth,
		Height:  cfg.Generator.MapHeight,
	})

	failed := 0
	for i := startFloor; i <= endFloor; i++ {
		m, err := gen.GenerateFloor(i)
		if err != nil {
			fmt.Fprintf(stderr, "floor %d: FAILED: %v\n", i, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "== %s floor %d: %s (seed %d)\n", doc.ID, i, m.Name, cfg.Generator.Seed)
		fmt.Fprint(stdout, m.Dump())
		fmt.Fprintln(stdout, m.Summary())
		if *roster {
			for _, line := range m.Roster() {
				fmt.Fprintln(stdout, "  "+line)
			}
		}
		fmt.Fprintln(stdout)
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// parseFloorRange parses a floor range string like "0-11" or "5".
// Floors are zero-based.
func parseFloorRange(s string) (start, end int, err error) {
	s = strings.TrimSpace(s)
	if before, after, ok := strings.Cut(s, "-"); ok && before != "" {
		start, err = strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start floor: %w", err)
		}
		end, err = strconv.Atoi(strings.TrimSpace(after))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end floor: %w", err)
		}
	} else {
		start, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid floor number: %w", err)
		}
		end = start
	}

	if start < 0 {
		return 0, 0, fmt.Errorf("floor numbers must be >= 0")
	}
	if end < start {
		return 0, 0, fmt.Errorf("end floor must be >= start floor")
	}
	return start, end, nil
}

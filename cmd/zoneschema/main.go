// zoneschema writes the JSON schema of zone files.
//
// Usage:
//
//	go run ./cmd/zoneschema -out data/zone.schema.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/dungeongen/internal/zone"
)

func main() {
	out := flag.String("out", "", "Output file (default: stdout)")
	flag.Parse()

	data, err := json.MarshalIndent(zone.Schema(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: marshal schema: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := writeSchema(*out, data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *out)
}

// writeSchema replaces path atomically.
func writeSchema(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".zoneschema-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write schema: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

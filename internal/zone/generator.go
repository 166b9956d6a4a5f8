package zone

import (
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/pipeline"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
	"github.com/lawnchairsociety/dungeongen/internal/rng"
)

// Options configure a Generator.
type Options struct {
	Seed    uint64
	Data    refdata.Provider
	Scripts floor.ScriptHost
	// Width and Height override the zone's floor size when non-zero.
	Width  int
	Height int
}

// Generator produces the floors of one zone for one seed. A floor's output
// depends only on the seed, the zone document and the floor index.
// A Generator is not safe for concurrent use.
type Generator struct {
	doc   *Document
	opts  Options
	steps []pipeline.ZoneStep
}

// NewGenerator instantiates every zone step of doc for opts.Seed.
func NewGenerator(doc *Document, opts Options) *Generator {
	if opts.Width == 0 {
		opts.Width = doc.Width
	}
	if opts.Height == 0 {
		opts.Height = doc.Height
	}
	g := &Generator{doc: doc, opts: opts, steps: make([]pipeline.ZoneStep, len(doc.Steps))}
	for i, s := range doc.Steps {
		g.steps[i] = s.Instantiate(rng.Derive(opts.Seed, int64(i)))
	}
	return g
}

// Document returns the zone being generated.
func (g *Generator) Document() *Document {
	return g.doc
}

// Seed returns the run seed.
func (g *Generator) Seed() uint64 {
	return g.opts.Seed
}

// GenerateFloor runs the pipeline for one floor. On error the partial floor
// is discarded.
func (g *Generator) GenerateFloor(index int) (*floor.Map, error) {
	if !g.doc.HasFloor(index) {
		return nil, fmt.Errorf("zone %s has no floor %d", g.doc.ID, index)
	}
	m := floor.NewMap(floor.Options{
		ZoneID:  g.doc.ID,
		Index:   index,
		Width:   g.opts.Width,
		Height:  g.opts.Height,
		Rand:    rng.ForFloor(g.opts.Seed, index),
		Data:    g.opts.Data,
		Scripts: g.opts.Scripts,
	})
	zc := &pipeline.ZoneContext{ZoneID: g.doc.ID, FloorIndex: index, Seed: g.opts.Seed}

	logger.Debug("generating floor", "zone", g.doc.ID, "floor", index, "seed", g.opts.Seed)
	if err := pipeline.Run(zc, g.steps, m); err != nil {
		logger.Error("floor generation aborted", "zone", g.doc.ID, "floor", index, "error", err)
		return nil, fmt.Errorf("zone %s floor %d: %w", g.doc.ID, index, err)
	}
	logger.Debug("floor generated", "zone", g.doc.ID, "floor", index, "summary", m.Summary())
	return m, nil
}

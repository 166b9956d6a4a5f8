package pipeline

import (
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// ZoneContext identifies the floor being generated.
type ZoneContext struct {
	ZoneID     string
	FloorIndex int
	Seed       uint64
}

// ZoneStep contributes floor steps to the floors it applies to.
type ZoneStep interface {
	// Instantiate returns a runtime copy whose state derives only from seed.
	// The receiver is configuration and is never mutated.
	Instantiate(seed uint64) ZoneStep
	// Apply enqueues zero or more floor steps for zc.FloorIndex.
	Apply(zc *ZoneContext, m *floor.Map, q *Queue) error
}

// Run generates one floor: every zone step is applied in order against a
// fresh queue, then the queue is drained. The first error aborts the floor.
func Run(zc *ZoneContext, steps []ZoneStep, m *floor.Map) error {
	q := NewQueue()
	for i, zs := range steps {
		if err := zs.Apply(zc, m, q); err != nil {
			return fmt.Errorf("zone step %d (%T): %w", i, zs, err)
		}
	}
	logger.Debug("draining floor queue", "zone", zc.ZoneID, "floor", zc.FloorIndex, "steps", q.Len())
	for {
		w, ok := q.Dequeue()
		if !ok {
			return nil
		}
		if err := w.Step().Apply(m); err != nil {
			return fmt.Errorf("floor step %s (%T): %w", w.Priority(), w.Step(), err)
		}
	}
}

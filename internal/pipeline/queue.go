package pipeline

import (
	"github.com/zyedidia/generic/heap"

	"github.com/lawnchairsociety/dungeongen/internal/floor"
)

// FloorStep is one unit of work on a floor.
type FloorStep interface {
	Apply(m *floor.Map) error
}

// FloorStepFunc adapts a function to FloorStep.
type FloorStepFunc func(m *floor.Map) error

func (f FloorStepFunc) Apply(m *floor.Map) error { return f(m) }

// Wrapper pairs a queued step with its priority.
type Wrapper interface {
	Priority() Priority
	Step() FloorStep
}

type entry struct {
	priority Priority
	step     FloorStep
	seq      uint64
}

func (e entry) Priority() Priority { return e.priority }
func (e entry) Step() FloorStep    { return e.step }

// Queue is a stable priority queue of floor steps: lowest priority first, and
// among equal priorities the earliest enqueued first.
type Queue struct {
	h   *heap.Heap[entry]
	seq uint64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{h: heap.New[entry](func(a, b entry) bool {
		if c := a.priority.Compare(b.priority); c != 0 {
			return c < 0
		}
		return a.seq < b.seq
	})}
}

// Enqueue adds step at priority p.
func (q *Queue) Enqueue(p Priority, step FloorStep) {
	q.h.Push(entry{priority: p, step: step, seq: q.seq})
	q.seq++
}

// Dequeue removes and returns the next step.
func (q *Queue) Dequeue() (Wrapper, bool) {
	e, ok := q.h.Pop()
	if !ok {
		return nil, false
	}
	return e, true
}

// Peek returns the next step without removing it.
func (q *Queue) Peek() (Wrapper, bool) {
	e, ok := q.h.Peek()
	if !ok {
		return nil, false
	}
	return e, true
}

// Len returns the number of queued steps.
func (q *Queue) Len() int {
	return q.h.Size()
}

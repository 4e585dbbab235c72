package metrics

import (
	"time"
)

// SearchMetric describes one GetMove call: how deep it got, what it cost,
// and how much work the deepening iterations did.
type SearchMetric struct {
	Duration      time.Duration
	Depth         int
	Iterations    int
	InternalMoves int
	LeafMoves     int
	Solved        bool
	TableEntries  int
}

// MoveMetric ties a SearchMetric to its place in a game.
type MoveMetric struct {
	Step   int
	Player string
	SearchMetric
}

// GameMetric describes one finished game.
type GameMetric struct {
	StartingPlayer string
	Winner         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers per-search counters. The searcher drives it from a single
// goroutine; Complete closes the measurement and returns the metric.
type Collector interface {
	Start()
	AddIteration(depth int, duration time.Duration, internalMoves, leafMoves int)
	Complete(depth int, solved bool, tableEntries int) SearchMetric
}

type collector struct {
	startTime     time.Time
	iterations    int
	internalMoves int
	leafMoves     int
	last          SearchMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	c.startTime = time.Now()
	c.iterations = 0
	c.internalMoves = 0
	c.leafMoves = 0
}

func (c *collector) AddIteration(depth int, duration time.Duration, internalMoves, leafMoves int) {
	c.iterations++
	c.internalMoves += internalMoves
	c.leafMoves += leafMoves
}

func (c *collector) Complete(depth int, solved bool, tableEntries int) SearchMetric {
	c.last = SearchMetric{
		Duration:      time.Since(c.startTime),
		Depth:         depth,
		Iterations:    c.iterations,
		InternalMoves: c.internalMoves,
		LeafMoves:     c.leafMoves,
		Solved:        solved,
		TableEntries:  tableEntries,
	}
	return c.last
}

// Last returns the metric from the most recent completed search.
func Last(c Collector) SearchMetric {
	if impl, ok := c.(*collector); ok {
		return impl.last
	}
	return SearchMetric{}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (dummyCollector) Start() {}

func (dummyCollector) AddIteration(depth int, duration time.Duration, internalMoves, leafMoves int) {
}

func (dummyCollector) Complete(depth int, solved bool, tableEntries int) SearchMetric {
	return SearchMetric{}
}

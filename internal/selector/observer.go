package selector

import (
	"sort"
	"sync"

	"github.com/mrz1836/taskcycle/internal/domain"
)

// GapObserver is notified when a generated transition has no task registered
// for its destination and the engine fell back to sampling the whole category.
// Implementations can forward these to counters, logs or dashboards.
type GapObserver interface {
	LookupGap(label string, tr domain.Transition)
}

// NoopGapObserver ignores lookup gaps.
type NoopGapObserver struct{}

// Ensure NoopGapObserver implements GapObserver interface.
var _ GapObserver = NoopGapObserver{}

// LookupGap implements GapObserver.
func (NoopGapObserver) LookupGap(string, domain.Transition) {}

// GapCounter counts lookup gaps per axis label. It is safe for concurrent use,
// so one counter may observe several engines.
type GapCounter struct {
	mu     sync.Mutex
	counts map[string]int
	total  int
}

// Ensure GapCounter implements GapObserver interface.
var _ GapObserver = (*GapCounter)(nil)

// NewGapCounter returns an empty counter.
func NewGapCounter() *GapCounter {
	return &GapCounter{counts: make(map[string]int)}
}

// LookupGap implements GapObserver.
func (g *GapCounter) LookupGap(label string, _ domain.Transition) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counts[label]++
	g.total++
}

// Count returns the number of gaps recorded for label.
func (g *GapCounter) Count(label string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts[label]
}

// Total returns the number of gaps recorded across all labels.
func (g *GapCounter) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.total
}

// GapCount is one row of a GapCounter snapshot.
type GapCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Snapshot returns the per-label counts sorted by label.
func (g *GapCounter) Snapshot() []GapCount {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GapCount, 0, len(g.counts))
	for label, n := range g.counts {
		out = append(out, GapCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

package testutil

import "sync"

// FixedIDs returns predetermined quadrant ids for testing.
//
// This enables deterministic test execution and golden comparison.
//
// Thread-safety: FixedIDs is safe for concurrent use via internal mutex.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDs("q-1", "q-2")
//	gen.NewID() // "q-1"
//	gen.NewID() // "q-2"
//	gen.NewID() // panic: all ids exhausted
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// NewID returns the next predetermined id.
//
// Panics if all ids have been consumed, to catch a test that adds more
// quadrants than it declared.
func (g *FixedIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDs: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

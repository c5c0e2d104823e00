package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/testutil"
)

var epoch = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

// memSaver records every write and can be told to fail.
type memSaver struct {
	mu    sync.Mutex
	saves []*board.Dashboard
	err   error
}

func (m *memSaver) Save(_ context.Context, d *board.Dashboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves = append(m.saves, d.Clone())
	return nil
}

func (m *memSaver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

func (m *memSaver) last() *board.Dashboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return nil
	}
	return m.saves[len(m.saves)-1]
}

var errDiskFull = errors.New("disk full")

type fixture struct {
	ed    *Editor
	saver *memSaver
	clock *testutil.ManualClock
}

// newUnlocked returns an editor over state with the gate already open.
func newUnlocked(t *testing.T, state *board.Dashboard, ids ...string) fixture {
	t.Helper()
	f := newLocked(t, state, ids...)
	f.ed.AttemptEdit()
	if !f.ed.CanEdit() {
		t.Fatalf("fixture state has a password; unlock it explicitly")
	}
	return f
}

func newLocked(t *testing.T, state *board.Dashboard, ids ...string) fixture {
	t.Helper()
	if state == nil {
		state = board.Default()
	}
	saver := &memSaver{}
	clk := testutil.NewManualClock(epoch)
	ed := New(state, saver, Options{
		Clock: clk,
		IDs:   testutil.NewFixedIDs(ids...),
	})
	t.Cleanup(ed.Close)
	return fixture{ed: ed, saver: saver, clock: clk}
}

func twoQuadrants() *board.Dashboard {
	d := board.Default()
	d.Append(board.NewQuadrant("q-2"))
	return d
}

func quadrantIDs(d *board.Dashboard) []string {
	ids := make([]string, len(d.Quadrants))
	for i, q := range d.Quadrants {
		ids[i] = q.ID
	}
	return ids
}

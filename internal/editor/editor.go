package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/clock"
	"github.com/roach88/pixelgrid/internal/gate"
)

// Default timings.
const (
	DefaultDeleteWindow = 3 * time.Second
	DefaultSavedDelay   = 500 * time.Millisecond
)

var (
	ErrLocked           = errors.New("editing is locked")
	ErrQuadrantNotFound = errors.New("quadrant not found")
	ErrLastQuadrant     = errors.New("keep at least one quadrant")
	ErrSaveFailed       = errors.New("save failed")
	ErrImportDeclined   = errors.New("import not confirmed")
	ErrClosed           = errors.New("editor closed")
)

// Saver writes the full dashboard to durable storage.
type Saver interface {
	Save(ctx context.Context, d *board.Dashboard) error
}

// SaveStatus is the save indicator shown to the user. It never gates writes.
type SaveStatus string

const (
	StatusIdle   SaveStatus = "idle"
	StatusSaving SaveStatus = "saving"
	StatusSaved  SaveStatus = "saved"
	StatusFailed SaveStatus = "failed"
)

// RemoveOutcome reports what a RemoveQuadrant call did.
type RemoveOutcome string

const (
	// Armed means the call opened the confirmation window; nothing was removed.
	Armed RemoveOutcome = "armed"
	// Removed means the call confirmed a pending delete.
	Removed RemoveOutcome = "removed"
)

// Options configures an Editor. Zero fields take defaults.
type Options struct {
	DeleteWindow time.Duration
	SavedDelay   time.Duration
	Clock        clock.Clock
	IDs          IDGenerator
	Logger       log.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.DeleteWindow <= 0 {
		o.DeleteWindow = DefaultDeleteWindow
	}
	if o.SavedDelay <= 0 {
		o.SavedDelay = DefaultSavedDelay
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.IDs == nil {
		o.IDs = UUIDv7IDs{}
	}
	if o.Logger == nil {
		l := log.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}

// Editor applies mutations to one dashboard.
type Editor struct {
	mu    sync.Mutex
	state *board.Dashboard
	saver Saver
	opts  Options
	log   log.FieldLogger

	gate gate.Gate

	pendingID string
	pending   clock.Slot

	status      SaveStatus
	statusTimer clock.Slot

	subs    map[int]func(Event)
	nextSub int
	closed  bool
}

// New creates an editor over state. The editor takes ownership of state;
// callers must not modify it afterwards.
func New(state *board.Dashboard, saver Saver, opts Options) *Editor {
	if state == nil {
		state = board.Default()
	}
	if saver == nil {
		panic("editor.New: saver is nil")
	}
	opts = opts.withDefaults()
	return &Editor{
		state:  state,
		saver:  saver,
		opts:   opts,
		log:    opts.Logger,
		status: StatusIdle,
	}
}

// State returns a deep copy of the current dashboard. Reading is never gated.
func (e *Editor) State() *board.Dashboard {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Quadrant returns a copy of the quadrant with the given id.
func (e *Editor) Quadrant(id string) (board.Quadrant, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.state.Find(id)
	if q == nil {
		return board.Quadrant{}, fmt.Errorf("%w: %s", ErrQuadrantNotFound, id)
	}
	return q.Clone(), nil
}

// Cell returns the cell at key in the given quadrant, synthesizing the
// default cell when nothing is stored there.
func (e *Editor) Cell(quadrantID string, key board.SlotKey) (board.Cell, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.state.Find(quadrantID)
	if q == nil {
		return board.Cell{}, fmt.Errorf("%w: %s", ErrQuadrantNotFound, quadrantID)
	}
	return q.Cell(key), nil
}

// Status returns the save indicator.
func (e *Editor) Status() SaveStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// PendingDelete returns the id armed for deletion, if any.
func (e *Editor) PendingDelete() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingID, e.pendingID != ""
}

// Flush writes the current state without changing it. Used after a session
// is loaded from a link so the durable record catches up.
func (e *Editor) Flush(ctx context.Context) error {
	return e.apply(func() ([]Event, error) {
		if e.closed {
			return nil, ErrClosed
		}
		return e.persist(ctx, nil)
	})
}

// Close cancels outstanding timers and drops subscribers. Later mutations
// fail with ErrClosed.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.pending.Stop()
	e.pendingID = ""
	e.statusTimer.Stop()
	e.subs = nil
}

// guard checks the preconditions shared by all mutations.
func (e *Editor) guard() error {
	if e.closed {
		return ErrClosed
	}
	if !e.gate.CanEdit() {
		return ErrLocked
	}
	return nil
}

func (e *Editor) findLocked(id string) (*board.Quadrant, error) {
	q := e.state.Find(id)
	if q == nil {
		return nil, fmt.Errorf("%w: %s", ErrQuadrantNotFound, id)
	}
	return q, nil
}

// persist writes the state and restarts the save indicator. It appends a
// status event to events when the indicator changes. The in-memory change
// stands even if the write fails.
func (e *Editor) persist(ctx context.Context, events []Event) ([]Event, error) {
	err := e.saver.Save(ctx, e.state)
	if err != nil {
		e.statusTimer.Stop()
		events = e.setStatus(StatusFailed, events)
		e.log.WithError(err).Error("failed to save dashboard")
		return events, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	events = e.setStatus(StatusSaving, events)
	e.statusTimer.Arm(e.opts.Clock, e.opts.SavedDelay, e.markSaved)
	return events, nil
}

func (e *Editor) setStatus(s SaveStatus, events []Event) []Event {
	if e.status == s {
		return events
	}
	e.status = s
	return append(events, Event{Kind: StatusChanged})
}

func (e *Editor) markSaved(gen uint64) {
	_ = e.apply(func() ([]Event, error) {
		if !e.statusTimer.Release(gen) || e.status != StatusSaving {
			return nil, nil
		}
		return e.setStatus(StatusSaved, nil), nil
	})
}

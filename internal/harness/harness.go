package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/editor"
	"github.com/roach88/pixelgrid/internal/persist"
	"github.com/roach88/pixelgrid/internal/store"
	"github.com/roach88/pixelgrid/internal/testutil"
)

// OutcomeOK is the outcome of a step that succeeded with nothing to report.
const OutcomeOK = "ok"

// scenarioEpoch is the fixed start of every run's clock.
var scenarioEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Harness executes one scenario.
type Harness struct {
	gw     *persist.Gateway
	ed     *editor.Editor
	clock  *testutil.ManualClock
	ids    editor.IDGenerator
	logger *log.Logger

	mu      sync.Mutex
	pending []editor.Event
	unsub   func()
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Open the store and start an editor over the initial dashboard
// 2. Execute steps, checking each step's expectation
// 3. Evaluate assertions against the final state
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := log.New()
	logger.SetOutput(io.Discard)

	clk := testutil.NewManualClock(scenarioEpoch)
	h := &Harness{
		gw:     persist.New(st, persist.WithClock(clk), persist.WithLogger(logger)),
		clock:  clk,
		ids:    scenarioIDs(scenario),
		logger: logger,
	}
	h.start(scenario.dashboard())
	defer h.stop()

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		outcome := h.execute(ctx, step)
		result.Trace = append(result.Trace, TraceEvent{
			Step:    i,
			Op:      step.Op,
			Outcome: outcome,
			Events:  h.drain(),
		})

		want := step.Expect
		if want == "" {
			want = OutcomeOK
		}
		if outcome != want {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got %s", i, step.Op, want, outcome))
		}
	}

	result.State = h.ed.State()
	for _, msg := range EvaluateAssertions(h, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func scenarioIDs(s *Scenario) editor.IDGenerator {
	if len(s.IDs) > 0 {
		return testutil.NewFixedIDs(s.IDs...)
	}
	return &sequentialIDs{}
}

// sequentialIDs hands out q-1, q-2, ...
type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("q-%d", g.n)
}

// start opens an editing session over d.
func (h *Harness) start(d *board.Dashboard) {
	h.ed = editor.New(d, h.gw, editor.Options{
		Clock:  h.clock,
		IDs:    h.ids,
		Logger: h.logger,
	})
	h.unsub = h.ed.Subscribe(h.record)
}

func (h *Harness) stop() {
	if h.unsub != nil {
		h.unsub()
	}
	h.ed.Close()
}

func (h *Harness) record(ev editor.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, ev)
}

func (h *Harness) drain() []editor.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	return out
}

// execute runs one step and reports its outcome: OutcomeOK, a
// step-specific outcome, or the error code of the failure.
func (h *Harness) execute(ctx context.Context, step Step) string {
	switch step.Op {
	case OpAttemptEdit:
		h.ed.AttemptEdit()
	case OpUnlock:
		if _, err := h.ed.Unlock(step.Password); err != nil {
			return editor.ErrorCode(err)
		}
	case OpDismiss:
		h.ed.DismissPrompt()
	case OpLock:
		h.ed.Lock()
	case OpAddQuadrant:
		_, err := h.ed.AddQuadrant(ctx)
		return outcomeOf(err)
	case OpRemoveQuadrant:
		out, err := h.ed.RemoveQuadrant(ctx, step.Quadrant)
		if err != nil {
			return editor.ErrorCode(err)
		}
		return string(out)
	case OpCancelDelete:
		h.ed.CancelPendingDelete()
	case OpRename:
		_, err := h.ed.RenameQuadrant(ctx, step.Quadrant, step.Title)
		return outcomeOf(err)
	case OpResize:
		_, err := h.ed.ResizeQuadrant(ctx, step.Quadrant, board.Axis(step.Axis), step.Delta)
		return outcomeOf(err)
	case OpUpdateCell:
		return h.updateCell(ctx, step)
	case OpSetPassword:
		return outcomeOf(h.ed.SetPassword(ctx, step.Password))
	case OpImport:
		err := h.ed.Import(ctx, []byte(step.Document), func() bool { return step.Confirm })
		return outcomeOf(err)
	case OpAdvance:
		d, _ := time.ParseDuration(step.Duration)
		h.clock.Advance(d)
	case OpReload:
		return h.reload(ctx, "")
	case OpShareReload:
		frag, err := persist.EncodeFragment(h.ed.State())
		if err != nil {
			return editor.ErrorCode(err)
		}
		return h.reload(ctx, frag)
	}
	return OutcomeOK
}

func outcomeOf(err error) string {
	if err != nil {
		return editor.ErrorCode(err)
	}
	return OutcomeOK
}

// OutcomeInvalidPatch is reported for a patch the cell model cannot decode.
const OutcomeInvalidPatch = "invalid_patch"

func (h *Harness) updateCell(ctx context.Context, step Step) string {
	key, err := board.ParseSlotKey(step.Slot)
	if err != nil {
		return editor.ErrorCode(err)
	}
	var patch board.CellPatch
	if len(step.Patch) > 0 {
		raw, err := json.Marshal(step.Patch)
		if err != nil {
			return OutcomeInvalidPatch
		}
		if err := json.Unmarshal(raw, &patch); err != nil {
			return OutcomeInvalidPatch
		}
	}
	_, err = h.ed.UpdateCell(ctx, step.Quadrant, key, patch)
	return outcomeOf(err)
}

// reload ends the session and starts a new one the way a page load does.
// The outcome is the channel the new session was loaded from.
func (h *Harness) reload(ctx context.Context, fragment string) string {
	h.stop()
	d, src := h.gw.Load(ctx, fragment)
	h.start(d)
	if src == persist.SourceLink {
		if err := h.ed.Flush(ctx); err != nil {
			return editor.ErrorCode(err)
		}
	}
	return string(src)
}

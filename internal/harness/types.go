package harness

import (
	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/editor"
)

// TraceEvent records one executed step and the change notifications it
// produced.
type TraceEvent struct {
	Step    int            `json:"step"`
	Op      string         `json:"op"`
	Outcome string         `json:"outcome"`
	Events  []editor.Event `json:"events,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step met its expectation and
	// every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final dashboard.
	State *board.Dashboard `json:"state,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

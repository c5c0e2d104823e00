package editor

import (
	"github.com/roach88/pixelgrid/internal/gate"
)

// GateState returns the access gate's state.
func (e *Editor) GateState() gate.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.State()
}

// CanEdit reports whether mutations are currently allowed.
func (e *Editor) CanEdit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.CanEdit()
}

// AttemptEdit opens editing, or the password prompt when a password is set.
func (e *Editor) AttemptEdit() gate.State {
	var st gate.State
	_ = e.apply(func() ([]Event, error) {
		before := e.gate.State()
		st = e.gate.AttemptEdit(e.state.Password)
		return gateEvents(before, st), nil
	})
	return st
}

// Unlock submits a password to the open prompt.
func (e *Editor) Unlock(password string) (gate.State, error) {
	var st gate.State
	err := e.apply(func() ([]Event, error) {
		before := e.gate.State()
		var err error
		st, err = e.gate.Submit(password, e.state.Password)
		if err != nil {
			e.log.Warn("rejected edit password")
		}
		return gateEvents(before, st), err
	})
	return st, err
}

// DismissPrompt closes the password prompt without unlocking.
func (e *Editor) DismissPrompt() gate.State {
	var st gate.State
	_ = e.apply(func() ([]Event, error) {
		before := e.gate.State()
		st = e.gate.Dismiss()
		return gateEvents(before, st), nil
	})
	return st
}

// Lock ends editing and disarms any pending delete.
func (e *Editor) Lock() gate.State {
	var st gate.State
	_ = e.apply(func() ([]Event, error) {
		before := e.gate.State()
		st = e.gate.Lock()
		return append(e.disarmLocked(), gateEvents(before, st)...), nil
	})
	return st
}

func gateEvents(before, after gate.State) []Event {
	if before == after {
		return nil
	}
	return []Event{{Kind: GateChanged}}
}

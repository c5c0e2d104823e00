// Package gate implements the edit access gate.
//
// The gate only guards the editing affordance. Reading a dashboard is never
// gated: a viewer who never unlocks still sees everything.
//
//	Locked --attempt (no password)--> Unlocked
//	Locked --attempt (password set)--> PromptOpen
//	PromptOpen --submit (match)--> Unlocked
//	PromptOpen --submit (mismatch)--> PromptOpen   (ErrWrongPassword)
//	PromptOpen --dismiss--> Locked
//	Unlocked --lock--> Locked
package gate

import (
	"crypto/subtle"
	"errors"
)

// State is the gate's current position.
type State string

const (
	Locked     State = "locked"
	PromptOpen State = "prompt_open"
	Unlocked   State = "unlocked"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrNoPrompt      = errors.New("password prompt is not open")
)

// Gate is the edit access state machine. The zero value is Locked.
// Gate is not safe for concurrent use; the editor serializes access.
type Gate struct {
	state State
}

// State returns the current state.
func (g *Gate) State() State {
	if g.state == "" {
		return Locked
	}
	return g.state
}

// CanEdit reports whether mutations are allowed.
func (g *Gate) CanEdit() bool {
	return g.State() == Unlocked
}

// AttemptEdit is the edit button. With no stored password it unlocks
// immediately; otherwise it opens the prompt. Attempting while already
// unlocked is a no-op.
func (g *Gate) AttemptEdit(stored string) State {
	switch g.State() {
	case Unlocked:
	case Locked, PromptOpen:
		if stored == "" {
			g.state = Unlocked
		} else {
			g.state = PromptOpen
		}
	}
	return g.State()
}

// Submit checks a password typed into the open prompt. A mismatch keeps the
// prompt open and returns ErrWrongPassword.
func (g *Gate) Submit(input, stored string) (State, error) {
	if g.State() != PromptOpen {
		return g.State(), ErrNoPrompt
	}
	if subtle.ConstantTimeCompare([]byte(input), []byte(stored)) != 1 {
		return g.State(), ErrWrongPassword
	}
	g.state = Unlocked
	return g.State(), nil
}

// Dismiss closes the prompt without unlocking.
func (g *Gate) Dismiss() State {
	if g.State() == PromptOpen {
		g.state = Locked
	}
	return g.State()
}

// Lock ends the editing session.
func (g *Gate) Lock() State {
	g.state = Locked
	return g.State()
}

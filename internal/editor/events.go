package editor

// EventKind names what changed.
type EventKind string

const (
	QuadrantAdded   EventKind = "quadrant_added"
	QuadrantRemoved EventKind = "quadrant_removed"
	QuadrantUpdated EventKind = "quadrant_updated"
	CellUpdated     EventKind = "cell_updated"
	PasswordChanged EventKind = "password_changed"
	StateReplaced   EventKind = "state_replaced"
	DeleteArmed     EventKind = "delete_armed"
	DeleteDisarmed  EventKind = "delete_disarmed"
	GateChanged     EventKind = "gate_changed"
	StatusChanged   EventKind = "status_changed"
)

// Event is a change notification. QuadrantID and Slot are set when the
// change is scoped to a quadrant or a cell.
type Event struct {
	Kind       EventKind `json:"kind"`
	QuadrantID string    `json:"quadrant_id,omitempty"`
	Slot       string    `json:"slot,omitempty"`
}

// Subscribe registers fn to receive events. fn runs after the change is
// applied, outside the editor's lock, so it may call back into the editor.
// The returned function unsubscribes.
func (e *Editor) Subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[int]func(Event))
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// apply runs fn under the lock and then delivers the events it produced.
func (e *Editor) apply(fn func() ([]Event, error)) error {
	e.mu.Lock()
	events, err := fn()
	subs := make([]func(Event), 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	e.mu.Unlock()

	for _, ev := range events {
		for _, s := range subs {
			s(ev)
		}
	}
	return err
}

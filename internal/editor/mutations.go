package editor

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/persist"
)

// AddQuadrant appends an empty quadrant with the default title and 1x5
// geometry.
func (e *Editor) AddQuadrant(ctx context.Context) (board.Quadrant, error) {
	var added board.Quadrant
	err := e.apply(func() ([]Event, error) {
		if err := e.guard(); err != nil {
			return nil, err
		}
		added = board.NewQuadrant(e.opts.IDs.NewID())
		e.state.Append(added.Clone())
		e.log.WithField("quadrant", added.ID).Debug("quadrant added")
		return e.persist(ctx, []Event{{Kind: QuadrantAdded, QuadrantID: added.ID}})
	})
	return added, err
}

// RemoveQuadrant removes a quadrant in two steps. The first call on an id
// arms a confirmation window and returns Armed; a second call on the same
// id inside the window removes it and returns Removed. Calling with a
// different id moves the pending state to that id. The last remaining
// quadrant can never be removed.
func (e *Editor) RemoveQuadrant(ctx context.Context, id string) (RemoveOutcome, error) {
	var outcome RemoveOutcome
	err := e.apply(func() ([]Event, error) {
		if err := e.guard(); err != nil {
			return nil, err
		}
		if _, err := e.findLocked(id); err != nil {
			return nil, err
		}
		if len(e.state.Quadrants) <= 1 {
			return nil, ErrLastQuadrant
		}

		if e.pendingID == id {
			e.pending.Stop()
			e.pendingID = ""
			e.state.Remove(id)
			outcome = Removed
			e.log.WithField("quadrant", id).Debug("quadrant removed")
			return e.persist(ctx, []Event{{Kind: QuadrantRemoved, QuadrantID: id}})
		}

		var events []Event
		if e.pendingID != "" {
			events = append(events, Event{Kind: DeleteDisarmed, QuadrantID: e.pendingID})
		}
		e.pendingID = id
		e.pending.Arm(e.opts.Clock, e.opts.DeleteWindow, e.expirePending)
		outcome = Armed
		return append(events, Event{Kind: DeleteArmed, QuadrantID: id}), nil
	})
	return outcome, err
}

// CancelPendingDelete disarms any pending delete.
func (e *Editor) CancelPendingDelete() {
	_ = e.apply(func() ([]Event, error) {
		return e.disarmLocked(), nil
	})
}

func (e *Editor) disarmLocked() []Event {
	if e.pendingID == "" {
		return nil
	}
	id := e.pendingID
	e.pending.Stop()
	e.pendingID = ""
	return []Event{{Kind: DeleteDisarmed, QuadrantID: id}}
}

func (e *Editor) expirePending(gen uint64) {
	_ = e.apply(func() ([]Event, error) {
		if !e.pending.Release(gen) || e.pendingID == "" {
			return nil, nil
		}
		id := e.pendingID
		e.pendingID = ""
		return []Event{{Kind: DeleteDisarmed, QuadrantID: id}}, nil
	})
}

// UpdateQuadrant merges patch into the quadrant's own fields.
func (e *Editor) UpdateQuadrant(ctx context.Context, id string, patch board.QuadrantPatch) (board.Quadrant, error) {
	var updated board.Quadrant
	err := e.apply(func() ([]Event, error) {
		if err := e.guard(); err != nil {
			return nil, err
		}
		q, err := e.findLocked(id)
		if err != nil {
			return nil, err
		}
		q.Apply(patch)
		updated = q.Clone()
		return e.persist(ctx, []Event{{Kind: QuadrantUpdated, QuadrantID: id}})
	})
	return updated, err
}

// RenameQuadrant replaces the title verbatim.
func (e *Editor) RenameQuadrant(ctx context.Context, id, title string) (board.Quadrant, error) {
	return e.UpdateQuadrant(ctx, id, board.QuadrantPatch{Title: &title})
}

// ResizeQuadrant adds delta to rows or columns, clamping at 1.
func (e *Editor) ResizeQuadrant(ctx context.Context, id string, axis board.Axis, delta int) (board.Quadrant, error) {
	var updated board.Quadrant
	err := e.apply(func() ([]Event, error) {
		if err := e.guard(); err != nil {
			return nil, err
		}
		q, err := e.findLocked(id)
		if err != nil {
			return nil, err
		}
		q.Resize(axis, delta)
		updated = q.Clone()
		return e.persist(ctx, []Event{{Kind: QuadrantUpdated, QuadrantID: id}})
	})
	return updated, err
}

// UpdateCell merges patch into the cell at key.
func (e *Editor) UpdateCell(ctx context.Context, quadrantID string, key board.SlotKey, patch board.CellPatch) (board.Cell, error) {
	var cell board.Cell
	err := e.apply(func() ([]Event, error) {
		if err := e.guard(); err != nil {
			return nil, err
		}
		q, err := e.findLocked(quadrantID)
		if err != nil {
			return nil, err
		}
		cell, err = q.UpdateCell(key, patch)
		if err != nil {
			return nil, err
		}
		return e.persist(ctx, []Event{{Kind: CellUpdated, QuadrantID: quadrantID, Slot: key.String()}})
	})
	return cell, err
}

// SetPassword stores the edit password. An empty value removes it.
func (e *Editor) SetPassword(ctx context.Context, password string) error {
	return e.apply(func() ([]Event, error) {
		if err := e.guard(); err != nil {
			return nil, err
		}
		e.state.Password = password
		e.log.WithField("protected", password != "").Info("edit password changed")
		return e.persist(ctx, []Event{{Kind: PasswordChanged}})
	})
}

// Import replaces the whole dashboard with a backup document. The document
// is validated first; confirm is then asked before anything is replaced.
// A parse failure or a declined confirmation leaves the state untouched.
func (e *Editor) Import(ctx context.Context, data []byte, confirm func() bool) error {
	d, err := persist.ParseImport(data)
	if err != nil {
		return err
	}
	return e.Replace(ctx, d, confirm)
}

// Replace swaps in d after confirm returns true.
func (e *Editor) Replace(ctx context.Context, d *board.Dashboard, confirm func() bool) error {
	if err := d.Normalize(); err != nil {
		return err
	}
	e.mu.Lock()
	err := e.guard()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	// Confirmation may block on user input; ask outside the lock.
	if confirm == nil || !confirm() {
		return ErrImportDeclined
	}

	return e.apply(func() ([]Event, error) {
		if err := e.guard(); err != nil {
			return nil, err
		}
		events := e.disarmLocked()
		e.state = d.Clone()
		e.log.WithFields(log.Fields{"quadrants": len(d.Quadrants)}).Info("dashboard replaced")
		return e.persist(ctx, append(events, Event{Kind: StateReplaced}))
	})
}

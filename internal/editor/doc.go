// Package editor is the mutation API over a single dashboard.
//
// An Editor owns the session's root *board.Dashboard. Every change goes
// through an Editor method, which enforces the model invariants, writes the
// full state to the durable channel synchronously, and notifies
// subscribers. Presentation layers hold one Editor handle, read snapshots
// via State, and subscribe to change events instead of reading shared state.
//
// Two concerns are driven by timers, each with exactly one active timer:
//
//   - pending delete: the first RemoveQuadrant on an id arms a 3s window,
//     a second call on the same id inside the window removes it
//   - save status: each write flips the status to "saving" and restarts a
//     short timer that flips it to "saved"
//
// Methods are safe for concurrent use; calls are applied one at a time.
package editor

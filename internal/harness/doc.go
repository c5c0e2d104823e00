// Package harness runs dashboard scenarios written in YAML.
//
// A scenario starts from a dashboard, drives the editor through a list of
// steps, and checks assertions against the final state. Each run uses a
// fresh in-memory SQLite store, a manual clock and fixed quadrant ids, so
// the recorded trace is identical across runs and can be compared with a
// golden file.
//
// # Scenario Format
//
//	name: add_then_remove
//	description: "What this scenario validates"
//	initial:               # optional; the default dashboard when absent
//	  password: abc
//	  quadrants:
//	    - {id: q-initial, title: MEU DASHBOARD, rows: 1, columns: 10}
//	ids: [q-1, q-2]        # optional; handed out by add_quadrant
//	steps:
//	  - op: attempt_edit
//	  - op: remove_quadrant
//	    quadrant: q-initial
//	    expect: armed
//	  - op: advance
//	    duration: 3s
//	assertions:
//	  - type: quadrant_count
//	    count: 1
//
// A step's expect is "ok" when omitted. It may name an outcome (armed,
// removed, or for reload steps the source loaded from) or an error code
// such as last_quadrant.
//
// # Operations
//
//   - attempt_edit, unlock (password), dismiss, lock
//   - add_quadrant, remove_quadrant (quadrant), cancel_delete
//   - rename (quadrant, title), resize (quadrant, axis, delta)
//   - update_cell (quadrant, slot, patch), set_password (password)
//   - import (document, confirm)
//   - advance (duration)
//   - reload: start a new session from the durable store
//   - share_reload: start a new session from a share link of the state
//
// # Assertion Types
//
//   - quadrant_count, quadrant_order (ids)
//   - quadrant (quadrant, expect: title/rows/columns)
//   - cell (quadrant, slot, expect: any cell field)
//   - gate (state), pending_delete (quadrant, empty for none)
//   - password (value), save_status (status)
//   - round_trip: the state survives JSON and share link encoding
package harness

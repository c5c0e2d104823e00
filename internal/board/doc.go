// Package board holds the dashboard state model: cells, quadrants and the
// dashboard root.
//
// The package has no internal dependencies. Everything else imports board;
// board imports nothing internal.
//
// Ownership is strictly top-down. A Dashboard owns its quadrants, a Quadrant
// owns its cells, and nothing holds a reference back to its owner. All
// addressing goes through ids and slot keys from the root.
//
// JSON tags use the camelCase names of the browser record
// ({ quadrants: Quadrant[], password?: string }) so persisted records and
// share links written by either side load unchanged.
package board

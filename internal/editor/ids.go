package editor

import "github.com/google/uuid"

// IDGenerator produces quadrant ids. Ids must never repeat.
type IDGenerator interface {
	NewID() string
}

// UUIDv7IDs generates time-ordered quadrant ids of the form "q-<uuidv7>".
//
// UUIDv7 embeds a millisecond timestamp followed by random bits, so ids sort
// by creation time and never collide in practice.
type UUIDv7IDs struct{}

// NewID returns a fresh quadrant id.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7IDs) NewID() string {
	return "q-" + uuid.Must(uuid.NewV7()).String()
}

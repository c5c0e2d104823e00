package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/pixelgrid/internal/board"
)

var (
	ErrMalformed        = errors.New("malformed dashboard")
	ErrMissingQuadrants = errors.New("dashboard has no quadrants sequence")
)

// envelope mirrors board.Dashboard but lets Decode tell a missing or null
// quadrants key apart from an empty one.
type envelope struct {
	Quadrants *[]board.Quadrant `json:"quadrants"`
	Password  string            `json:"password,omitempty"`
}

// Encode serializes d in its compact record form.
func Encode(d *board.Dashboard) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode dashboard: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes d pretty-printed with a trailing newline, the
// form used for backup files.
func EncodeIndent(d *board.Dashboard) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a dashboard record. It accepts any JSON object with a
// non-empty quadrants array; unknown keys are ignored. The result is
// normalized (geometry clamped, empty cells dropped).
func Decode(data []byte) (*board.Dashboard, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Quadrants == nil {
		return nil, ErrMissingQuadrants
	}

	d := &board.Dashboard{Quadrants: *env.Quadrants, Password: env.Password}
	if err := d.Normalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingQuadrants, err)
	}
	return d, nil
}

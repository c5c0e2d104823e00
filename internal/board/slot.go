package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Slot distinguishes the primary cell of a grid position from its four
// secondary cells. SlotBig is the primary; SlotS1..SlotS4 are secondary.
type Slot int

const (
	SlotBig Slot = iota
	SlotS1
	SlotS2
	SlotS3
	SlotS4
)

// Slots lists the slots of one grid position in render order.
var Slots = []Slot{SlotBig, SlotS1, SlotS2, SlotS3, SlotS4}

// Size returns the fixed size class of the slot.
func (s Slot) Size() Size {
	if s == SlotBig {
		return SizeLarge
	}
	return SizeSmall
}

func (s Slot) String() string {
	if s == SlotBig {
		return "big"
	}
	return "s" + strconv.Itoa(int(s))
}

// SlotKey addresses a cell inside a quadrant. Row and Col are 0-based.
type SlotKey struct {
	Row  int
	Col  int
	Slot Slot
}

// String renders the key the way it is stored in a quadrant's cell map,
// e.g. "r0-c3-big" or "r1-c0-s2".
func (k SlotKey) String() string {
	return fmt.Sprintf("r%d-c%d-%s", k.Row, k.Col, k.Slot)
}

// Size returns the size class of the addressed cell.
func (k SlotKey) Size() Size {
	return k.Slot.Size()
}

// Default returns the empty cell for this key.
func (k SlotKey) Default() Cell {
	return Cell{ID: k.String(), Size: k.Size()}
}

var ErrInvalidSlotKey = errors.New("invalid slot key")

// ParseSlotKey parses the "r{row}-c{col}-{slot}" form produced by String.
func ParseSlotKey(s string) (SlotKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "r") || !strings.HasPrefix(parts[1], "c") {
		return SlotKey{}, fmt.Errorf("%w: %q", ErrInvalidSlotKey, s)
	}
	row, err := strconv.Atoi(parts[0][1:])
	if err != nil || row < 0 {
		return SlotKey{}, fmt.Errorf("%w: bad row in %q", ErrInvalidSlotKey, s)
	}
	col, err := strconv.Atoi(parts[1][1:])
	if err != nil || col < 0 {
		return SlotKey{}, fmt.Errorf("%w: bad column in %q", ErrInvalidSlotKey, s)
	}

	var slot Slot
	switch parts[2] {
	case "big":
		slot = SlotBig
	case "s1":
		slot = SlotS1
	case "s2":
		slot = SlotS2
	case "s3":
		slot = SlotS3
	case "s4":
		slot = SlotS4
	default:
		return SlotKey{}, fmt.Errorf("%w: bad slot in %q", ErrInvalidSlotKey, s)
	}
	return SlotKey{Row: row, Col: col, Slot: slot}, nil
}

package board

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Axis selects the dimension a resize applies to.
type Axis string

const (
	AxisRows    Axis = "rows"
	AxisColumns Axis = "columns"
)

// Quadrant is a titled grid of cell slots. Cells is sparse: a missing entry
// behaves as the default cell for its key. Entries outside the current
// Rows x Columns bounds are kept so a later grow restores them.
type Quadrant struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Rows    int             `json:"rows"`
	Columns int             `json:"columns"`
	Cells   map[string]Cell `json:"cells"`
}

var displayCaser = cases.Upper(language.Und)

// DisplayTitle returns the title as it is shown. The stored title is never
// changed by display normalization.
func (q *Quadrant) DisplayTitle() string {
	return displayCaser.String(norm.NFC.String(q.Title))
}

// Rename replaces the title verbatim.
func (q *Quadrant) Rename(title string) {
	q.Title = title
}

// Resize adds delta to the given axis, clamping at 1. There is no upper bound.
func (q *Quadrant) Resize(axis Axis, delta int) {
	switch axis {
	case AxisRows:
		q.Rows = clampDim(q.Rows + delta)
	case AxisColumns:
		q.Columns = clampDim(q.Columns + delta)
	}
}

// Cell returns the stored cell for key, or the key's default cell.
func (q *Quadrant) Cell(key SlotKey) Cell {
	if c, ok := q.Cells[key.String()]; ok {
		return c
	}
	return key.Default()
}

// UpdateCell merges p into the cell at key, creating the entry if needed.
// Keys outside the current bounds are accepted. A cell that ends up empty is
// removed from the map, since lookup synthesizes it anyway.
func (q *Quadrant) UpdateCell(key SlotKey, p CellPatch) (Cell, error) {
	next, err := q.Cell(key).Apply(p)
	if err != nil {
		return Cell{}, err
	}
	if q.Cells == nil {
		q.Cells = make(map[string]Cell)
	}
	if next.IsEmpty() {
		delete(q.Cells, key.String())
	} else {
		q.Cells[key.String()] = next
	}
	return next, nil
}

// Apply merges a quadrant patch. Dimensions are clamped to 1.
func (q *Quadrant) Apply(p QuadrantPatch) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Rows != nil {
		q.Rows = clampDim(*p.Rows)
	}
	if p.Columns != nil {
		q.Columns = clampDim(*p.Columns)
	}
}

// InBounds reports whether key addresses a currently visible position.
func (q *Quadrant) InBounds(key SlotKey) bool {
	return key.Row >= 0 && key.Row < q.Rows && key.Col >= 0 && key.Col < q.Columns
}

// VisibleKeys enumerates the slot keys of the visible grid, row-major,
// with each position's slots in render order.
func (q *Quadrant) VisibleKeys() []SlotKey {
	keys := make([]SlotKey, 0, q.Rows*q.Columns*len(Slots))
	for r := 0; r < q.Rows; r++ {
		for c := 0; c < q.Columns; c++ {
			for _, s := range Slots {
				keys = append(keys, SlotKey{Row: r, Col: c, Slot: s})
			}
		}
	}
	return keys
}

// Normalize restores the geometry invariant and drops empty cells. A
// cell's id and size are rederived from its key; stored values are never
// trusted. Entries whose key does not parse are left alone.
func (q *Quadrant) Normalize() {
	q.Rows = clampDim(q.Rows)
	q.Columns = clampDim(q.Columns)
	if q.Cells == nil {
		q.Cells = make(map[string]Cell)
	}
	for k, c := range q.Cells {
		if c.IsEmpty() {
			delete(q.Cells, k)
			continue
		}
		key, err := ParseSlotKey(k)
		if err != nil {
			continue
		}
		c.ID, c.Size = key.String(), key.Size()
		if k != c.ID {
			delete(q.Cells, k)
			if _, taken := q.Cells[c.ID]; taken {
				continue
			}
		}
		q.Cells[c.ID] = c
	}
}

// Clone returns a deep copy.
func (q Quadrant) Clone() Quadrant {
	out := q
	out.Cells = make(map[string]Cell, len(q.Cells))
	for k, c := range q.Cells {
		out.Cells[k] = c
	}
	return out
}

func clampDim(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

package board

import "errors"

// Defaults for new and initial quadrants.
const (
	InitialQuadrantID = "q-initial"
	InitialTitle      = "MEU DASHBOARD"
	InitialRows       = 1
	InitialColumns    = 10

	NewQuadrantTitle   = "NOVO GRID"
	NewQuadrantRows    = 1
	NewQuadrantColumns = 5
)

var ErrNoQuadrants = errors.New("dashboard has no quadrants")

// Dashboard is the root aggregate. Quadrant order is display order.
type Dashboard struct {
	Quadrants []Quadrant `json:"quadrants"`
	Password  string     `json:"password,omitempty"`
}

// Default returns the dashboard used when nothing has been saved yet.
func Default() *Dashboard {
	return &Dashboard{
		Quadrants: []Quadrant{{
			ID:      InitialQuadrantID,
			Title:   InitialTitle,
			Rows:    InitialRows,
			Columns: InitialColumns,
			Cells:   map[string]Cell{},
		}},
	}
}

// NewQuadrant returns an empty quadrant with the default title and geometry.
func NewQuadrant(id string) Quadrant {
	return Quadrant{
		ID:      id,
		Title:   NewQuadrantTitle,
		Rows:    NewQuadrantRows,
		Columns: NewQuadrantColumns,
		Cells:   map[string]Cell{},
	}
}

// Find returns a pointer into d's quadrant list, or nil.
func (d *Dashboard) Find(id string) *Quadrant {
	for i := range d.Quadrants {
		if d.Quadrants[i].ID == id {
			return &d.Quadrants[i]
		}
	}
	return nil
}

// Index returns the position of the quadrant with the given id, or -1.
func (d *Dashboard) Index(id string) int {
	for i := range d.Quadrants {
		if d.Quadrants[i].ID == id {
			return i
		}
	}
	return -1
}

// Append adds q at the end of the display order.
func (d *Dashboard) Append(q Quadrant) {
	d.Quadrants = append(d.Quadrants, q)
}

// Remove deletes the quadrant with the given id, preserving the order of the
// others. It reports whether anything was removed.
func (d *Dashboard) Remove(id string) bool {
	i := d.Index(id)
	if i < 0 {
		return false
	}
	d.Quadrants = append(d.Quadrants[:i:i], d.Quadrants[i+1:]...)
	return true
}

// HasPassword reports whether the edit gate is password protected.
func (d *Dashboard) HasPassword() bool {
	return d.Password != ""
}

// Normalize restores every quadrant's invariants in place. It fails only
// when the dashboard has no quadrants, which cannot be repaired.
func (d *Dashboard) Normalize() error {
	if len(d.Quadrants) == 0 {
		return ErrNoQuadrants
	}
	for i := range d.Quadrants {
		d.Quadrants[i].Normalize()
	}
	return nil
}

// Clone returns a deep copy.
func (d *Dashboard) Clone() *Dashboard {
	out := &Dashboard{
		Quadrants: make([]Quadrant, len(d.Quadrants)),
		Password:  d.Password,
	}
	for i, q := range d.Quadrants {
		out.Quadrants[i] = q.Clone()
	}
	return out
}

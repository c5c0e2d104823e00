package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/persist"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the harness's current
// session and returns the failure messages.
func EvaluateAssertions(h *Harness, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(h, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(h *Harness, a Assertion) error {
	d := h.ed.State()
	switch a.Type {
	case AssertQuadrantCount:
		if len(d.Quadrants) != a.Count {
			return mismatch(a.Type, fmt.Sprintf("%d quadrants", a.Count), fmt.Sprintf("%d quadrants", len(d.Quadrants)))
		}
	case AssertQuadrantOrder:
		got := make([]string, len(d.Quadrants))
		for i, q := range d.Quadrants {
			got[i] = q.ID
		}
		if !reflect.DeepEqual(got, a.IDs) {
			return mismatch(a.Type, fmt.Sprint(a.IDs), fmt.Sprint(got))
		}
	case AssertQuadrant:
		q := d.Find(a.Quadrant)
		if q == nil {
			return mismatch(a.Type, "quadrant "+a.Quadrant, "not found")
		}
		return matchFields(a.Type, map[string]any{
			"title":         q.Title,
			"display_title": q.DisplayTitle(),
			"rows":          q.Rows,
			"columns":       q.Columns,
			"cells":         len(q.Cells),
		}, a.Expect)
	case AssertCell:
		q := d.Find(a.Quadrant)
		if q == nil {
			return mismatch(a.Type, "quadrant "+a.Quadrant, "not found")
		}
		key, err := board.ParseSlotKey(a.Slot)
		if err != nil {
			return err
		}
		fields, err := cellFields(q.Cell(key))
		if err != nil {
			return err
		}
		return matchFields(a.Type, fields, a.Expect)
	case AssertGate:
		if got := string(h.ed.GateState()); got != a.State {
			return mismatch(a.Type, a.State, got)
		}
	case AssertPendingDelete:
		got, _ := h.ed.PendingDelete()
		if got != a.Quadrant {
			return mismatch(a.Type, quoted(a.Quadrant), quoted(got))
		}
	case AssertPassword:
		if d.Password != *a.Value {
			return mismatch(a.Type, quoted(*a.Value), quoted(d.Password))
		}
	case AssertSaveStatus:
		if got := string(h.ed.Status()); got != a.Status {
			return mismatch(a.Type, a.Status, got)
		}
	case AssertRoundTrip:
		return assertRoundTrip(d)
	}
	return nil
}

func assertRoundTrip(d *board.Dashboard) error {
	data, err := persist.Encode(d)
	if err != nil {
		return err
	}
	back, err := persist.Decode(data)
	if err != nil {
		return mismatch(AssertRoundTrip, "decodable record", err.Error())
	}
	if !reflect.DeepEqual(d, back) {
		return mismatch(AssertRoundTrip, "record equal to state", string(data))
	}

	frag, err := persist.EncodeFragment(d)
	if err != nil {
		return err
	}
	back, err = persist.DecodeFragment(frag)
	if err != nil {
		return mismatch(AssertRoundTrip, "decodable share link", err.Error())
	}
	if !reflect.DeepEqual(d, back) {
		return mismatch(AssertRoundTrip, "share link equal to state", frag)
	}
	return nil
}

// cellFields returns the cell's JSON fields. Empty fields are absent.
func cellFields(c board.Cell) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// matchFields checks a subset of fields. An expected null requires the
// field to be absent or empty.
func matchFields(typ string, actual, expect map[string]any) error {
	keys := make([]string, 0, len(expect))
	for k := range expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		want := expect[k]
		got, ok := actual[k]
		if want == nil {
			if ok && !isZero(got) {
				return mismatch(typ, k+" unset", fmt.Sprintf("%s = %v", k, got))
			}
			continue
		}
		if !ok {
			return mismatch(typ, fmt.Sprintf("%s = %v", k, want), k+" unset")
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return mismatch(typ, fmt.Sprintf("%s = %v", k, want), fmt.Sprintf("%s = %v", k, got))
		}
	}
	return nil
}

func isZero(v any) bool {
	return v == nil || reflect.ValueOf(v).IsZero()
}

func mismatch(typ, expected, actual string) error {
	return &AssertionError{Type: typ, Expected: expected, Actual: actual}
}

func quoted(s string) string {
	return fmt.Sprintf("%q", s)
}

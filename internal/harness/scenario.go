package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pixelgrid/internal/board"
)

// Scenario is one scripted editing session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Initial is the starting dashboard. Nil selects board.Default().
	Initial *Dashboard `yaml:"initial,omitempty"`

	// IDs are handed out in order to added quadrants. When empty the
	// harness generates q-1, q-2, ...
	IDs []string `yaml:"ids,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Dashboard is the YAML form of a starting dashboard.
type Dashboard struct {
	Password  string     `yaml:"password,omitempty"`
	Quadrants []Quadrant `yaml:"quadrants"`
}

type Quadrant struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Rows    int    `yaml:"rows"`
	Columns int    `yaml:"columns"`
}

// Step is one operation against the editor.
type Step struct {
	Op string `yaml:"op"`

	Quadrant string         `yaml:"quadrant,omitempty"`
	Title    string         `yaml:"title,omitempty"`
	Axis     string         `yaml:"axis,omitempty"`
	Delta    int            `yaml:"delta,omitempty"`
	Slot     string         `yaml:"slot,omitempty"`
	Patch    map[string]any `yaml:"patch,omitempty"`
	Password string         `yaml:"password,omitempty"`
	Document string         `yaml:"document,omitempty"`
	Confirm  bool           `yaml:"confirm,omitempty"`
	Duration string         `yaml:"duration,omitempty"`

	// Expect is the step's outcome or error code. Empty means "ok".
	Expect string `yaml:"expect,omitempty"`
}

// Assertion checks the state after all steps ran.
type Assertion struct {
	Type string `yaml:"type"`

	Quadrant string         `yaml:"quadrant,omitempty"`
	Slot     string         `yaml:"slot,omitempty"`
	Count    int            `yaml:"count,omitempty"`
	IDs      []string       `yaml:"ids,omitempty"`
	State    string         `yaml:"state,omitempty"`
	Status   string         `yaml:"status,omitempty"`
	Value    *string        `yaml:"value,omitempty"`
	Expect   map[string]any `yaml:"expect,omitempty"`
}

// Step operations.
const (
	OpAttemptEdit    = "attempt_edit"
	OpUnlock         = "unlock"
	OpDismiss        = "dismiss"
	OpLock           = "lock"
	OpAddQuadrant    = "add_quadrant"
	OpRemoveQuadrant = "remove_quadrant"
	OpCancelDelete   = "cancel_delete"
	OpRename         = "rename"
	OpResize         = "resize"
	OpUpdateCell     = "update_cell"
	OpSetPassword    = "set_password"
	OpImport         = "import"
	OpAdvance        = "advance"
	OpReload         = "reload"
	OpShareReload    = "share_reload"
)

// Assertion types.
const (
	AssertQuadrantCount = "quadrant_count"
	AssertQuadrantOrder = "quadrant_order"
	AssertQuadrant      = "quadrant"
	AssertCell          = "cell"
	AssertGate          = "gate"
	AssertPendingDelete = "pending_delete"
	AssertPassword      = "password"
	AssertSaveStatus    = "save_status"
	AssertRoundTrip     = "round_trip"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// dashboard converts the YAML starting state.
func (s *Scenario) dashboard() *board.Dashboard {
	if s.Initial == nil {
		return board.Default()
	}
	d := &board.Dashboard{Password: s.Initial.Password}
	for _, q := range s.Initial.Quadrants {
		d.Append(board.Quadrant{
			ID:      q.ID,
			Title:   q.Title,
			Rows:    q.Rows,
			Columns: q.Columns,
			Cells:   map[string]board.Cell{},
		})
	}
	return d
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Initial != nil && len(s.Initial.Quadrants) == 0 {
		return fmt.Errorf("initial: quadrants list must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Op {
	case OpAttemptEdit, OpDismiss, OpLock, OpAddQuadrant, OpCancelDelete, OpReload, OpShareReload, OpUnlock, OpSetPassword:
	case OpRemoveQuadrant, OpRename:
		if st.Quadrant == "" {
			return fmt.Errorf("steps[%d]: quadrant is required for %s", index, st.Op)
		}
	case OpResize:
		if st.Quadrant == "" {
			return fmt.Errorf("steps[%d]: quadrant is required for resize", index)
		}
		if st.Axis != string(board.AxisRows) && st.Axis != string(board.AxisColumns) {
			return fmt.Errorf("steps[%d]: axis must be rows or columns", index)
		}
	case OpUpdateCell:
		if st.Quadrant == "" || st.Slot == "" {
			return fmt.Errorf("steps[%d]: quadrant and slot are required for update_cell", index)
		}
	case OpImport:
		if st.Document == "" {
			return fmt.Errorf("steps[%d]: document is required for import", index)
		}
	case OpAdvance:
		if _, err := time.ParseDuration(st.Duration); err != nil {
			return fmt.Errorf("steps[%d]: invalid duration %q", index, st.Duration)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertQuadrantCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be at least 1 for quadrant_count", index)
		}
	case AssertQuadrantOrder:
		if len(a.IDs) == 0 {
			return fmt.Errorf("assertions[%d]: ids list is required for quadrant_order", index)
		}
	case AssertQuadrant:
		if a.Quadrant == "" || len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: quadrant and expect are required for quadrant", index)
		}
	case AssertCell:
		if a.Quadrant == "" || a.Slot == "" || len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: quadrant, slot and expect are required for cell", index)
		}
	case AssertGate:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for gate", index)
		}
	case AssertSaveStatus:
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status is required for save_status", index)
		}
	case AssertPassword:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for password", index)
		}
	case AssertPendingDelete, AssertRoundTrip:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

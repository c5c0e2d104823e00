package persist

import (
	_ "embed"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/pixelgrid/internal/board"
)

//go:embed schema.cue
var schemaCUE string

var ErrSchema = errors.New("dashboard does not match schema")

// ValidateSchema checks an import document against the embedded CUE schema
// and the slot-key grammar. It does not check geometry bounds; Import clamps
// those.
func ValidateSchema(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Dashboard"))

	expr, err := cuejson.Extract("import.json", data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrSchema, cueerrors.Details(err, nil))
	}

	return validateSlotKeys(doc)
}

func validateSlotKeys(doc cue.Value) error {
	quadrants, err := doc.LookupPath(cue.ParsePath("quadrants")).List()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	for i := 0; quadrants.Next(); i++ {
		cells := quadrants.Value().LookupPath(cue.ParsePath("cells"))
		if !cells.Exists() {
			continue
		}
		iter, err := cells.Fields()
		if err != nil {
			return fmt.Errorf("%w: quadrants.%d.cells: %v", ErrSchema, i, err)
		}
		for iter.Next() {
			if _, err := board.ParseSlotKey(iter.Selector().Unquoted()); err != nil {
				return fmt.Errorf("%w: quadrants.%d.cells: %v", ErrSchema, i, err)
			}
		}
	}
	return nil
}

package board

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one optional string member of a patch. A Field that is not Set
// leaves the stored value alone; a Set field with an empty Value clears it.
type Field struct {
	Set   bool
	Value string
}

// Set returns a field that overwrites the stored value with v.
func Set(v string) Field { return Field{Set: true, Value: v} }

// Clear returns a field that removes the stored value.
func Clear() Field { return Field{Set: true} }

func (f Field) applyTo(dst *string) {
	if f.Set {
		*dst = f.Value
	}
}

// CellPatch is a partial update merged over a stored Cell.
type CellPatch struct {
	ImageURL     Field
	StickerTL    Field
	StickerTR    Field
	StickerBL    Field
	StickerBR    Field
	LinkURL      Field
	Icon         Field
	IconColor    Field
	IsCrossedOut *bool
}

// StickerPatch returns a patch that sets (or, with an empty payload, clears)
// the sticker at corner.
func StickerPatch(corner Corner, payload string) CellPatch {
	var p CellPatch
	switch corner {
	case CornerTL:
		p.StickerTL = Set(payload)
	case CornerTR:
		p.StickerTR = Set(payload)
	case CornerBL:
		p.StickerBL = Set(payload)
	case CornerBR:
		p.StickerBR = Set(payload)
	}
	return p
}

// ToggleCrossedOut returns the patch that flips c's crossed-out marker.
func ToggleCrossedOut(c Cell) CellPatch {
	v := !c.IsCrossedOut
	return CellPatch{IsCrossedOut: &v}
}

// IsZero reports whether the patch changes nothing.
func (p CellPatch) IsZero() bool {
	return !p.ImageURL.Set && !p.StickerTL.Set && !p.StickerTR.Set && !p.StickerBL.Set &&
		!p.StickerBR.Set && !p.LinkURL.Set && !p.Icon.Set && !p.IconColor.Set && p.IsCrossedOut == nil
}

func (p *CellPatch) fields() map[string]*Field {
	return map[string]*Field{
		"imageUrl":  &p.ImageURL,
		"stickerTl": &p.StickerTL,
		"stickerTr": &p.StickerTR,
		"stickerBl": &p.StickerBL,
		"stickerBr": &p.StickerBR,
		"linkUrl":   &p.LinkURL,
		"icon":      &p.Icon,
		"iconColor": &p.IconColor,
	}
}

// UnmarshalJSON decodes a patch object. Keys that are missing stay untouched,
// keys set to null or "" clear the stored value.
func (p *CellPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := p.fields()
	for key, msg := range raw {
		if key == "isCrossedOut" {
			if isNull(msg) {
				v := false
				p.IsCrossedOut = &v
				continue
			}
			var v bool
			if err := json.Unmarshal(msg, &v); err != nil {
				return fmt.Errorf("isCrossedOut: %w", err)
			}
			p.IsCrossedOut = &v
			continue
		}
		f, ok := fields[key]
		if !ok {
			return fmt.Errorf("unknown cell field %q", key)
		}
		if isNull(msg) {
			*f = Clear()
			continue
		}
		var v string
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*f = Set(v)
	}
	return nil
}

// MarshalJSON encodes only the fields the patch touches. Cleared fields are
// written as null.
func (p CellPatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	for key, f := range p.fields() {
		if !f.Set {
			continue
		}
		if f.Value == "" {
			out[key] = nil
		} else {
			out[key] = f.Value
		}
	}
	if p.IsCrossedOut != nil {
		out["isCrossedOut"] = *p.IsCrossedOut
	}
	return json.Marshal(out)
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

// QuadrantPatch is a partial update of a quadrant's own fields.
type QuadrantPatch struct {
	Title   *string `json:"title,omitempty"`
	Rows    *int    `json:"rows,omitempty"`
	Columns *int    `json:"columns,omitempty"`
}

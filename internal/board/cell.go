package board

import (
	"errors"
	"fmt"
)

// Size classifies a cell as the primary slot of a position or one of its
// secondary slots. A cell's size is fixed by its slot.
type Size string

const (
	SizeLarge Size = "large"
	SizeSmall Size = "small"
)

// Icon is a status marker tag drawn over a cell.
type Icon string

const (
	IconNone   Icon = "none"
	IconSword  Icon = "sword"
	IconShield Icon = "shield"
	IconPotion Icon = "potion"
	IconTarget Icon = "target"
	IconCross  Icon = "cross"
	IconY      Icon = "y"
)

// Icons lists the status icon vocabulary in display order.
var Icons = []Icon{IconSword, IconShield, IconPotion, IconTarget, IconCross, IconY, IconNone}

// Color tags the background of a status icon.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorTeal   Color = "teal"
)

// Colors lists the icon palette in display order.
var Colors = []Color{ColorBlue, ColorRed, ColorPurple, ColorYellow, ColorGreen, ColorTeal}

// DefaultColor is used when a cell carries an icon but no (or an unknown) color.
const DefaultColor = ColorBlue

var (
	ErrUnknownIcon  = errors.New("unknown icon")
	ErrUnknownColor = errors.New("unknown icon color")
)

// Valid reports whether i is in the icon vocabulary.
func (i Icon) Valid() bool {
	for _, known := range Icons {
		if i == known {
			return true
		}
	}
	return false
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Cell is the smallest addressable unit of dashboard state.
// Empty strings mean "absent".
type Cell struct {
	ID           string `json:"id"`
	Size         Size   `json:"size"`
	ImageURL     string `json:"imageUrl,omitempty"`
	StickerTL    string `json:"stickerTl,omitempty"`
	StickerTR    string `json:"stickerTr,omitempty"`
	StickerBL    string `json:"stickerBl,omitempty"`
	StickerBR    string `json:"stickerBr,omitempty"`
	LinkURL      string `json:"linkUrl,omitempty"`
	Icon         Icon   `json:"icon,omitempty"`
	IconColor    Color  `json:"iconColor,omitempty"`
	IsCrossedOut bool   `json:"isCrossedOut,omitempty"`
}

// IsEmpty reports whether the cell carries no content. Empty cells need not
// be persisted.
func (c Cell) IsEmpty() bool {
	return c.ImageURL == "" &&
		c.StickerTL == "" && c.StickerTR == "" && c.StickerBL == "" && c.StickerBR == "" &&
		c.LinkURL == "" && c.Icon == "" && c.IconColor == "" && !c.IsCrossedOut
}

// HasIcon reports whether a status icon should be drawn.
func (c Cell) HasIcon() bool {
	return c.Icon != "" && c.Icon != IconNone
}

// DisplayColor returns the color to draw the status icon with.
func (c Cell) DisplayColor() Color {
	if c.IconColor.Valid() {
		return c.IconColor
	}
	return DefaultColor
}

// Corner names one of the four sticker anchors.
type Corner string

const (
	CornerTL Corner = "tl"
	CornerTR Corner = "tr"
	CornerBL Corner = "bl"
	CornerBR Corner = "br"
)

// Sticker returns the sticker payload at the given corner.
func (c Cell) Sticker(corner Corner) string {
	switch corner {
	case CornerTL:
		return c.StickerTL
	case CornerTR:
		return c.StickerTR
	case CornerBL:
		return c.StickerBL
	case CornerBR:
		return c.StickerBR
	}
	return ""
}

// Apply merges p over c and returns the result. Fields absent from p are
// left untouched. Clearing the primary image also resets the crossed-out
// marker.
func (c Cell) Apply(p CellPatch) (Cell, error) {
	if err := p.Validate(); err != nil {
		return c, err
	}

	out := c
	p.ImageURL.applyTo(&out.ImageURL)
	p.StickerTL.applyTo(&out.StickerTL)
	p.StickerTR.applyTo(&out.StickerTR)
	p.StickerBL.applyTo(&out.StickerBL)
	p.StickerBR.applyTo(&out.StickerBR)
	p.LinkURL.applyTo(&out.LinkURL)
	if p.Icon.Set {
		out.Icon = Icon(p.Icon.Value)
	}
	if p.IconColor.Set {
		out.IconColor = Color(p.IconColor.Value)
	}
	if p.IsCrossedOut != nil {
		out.IsCrossedOut = *p.IsCrossedOut
	}
	if p.ImageURL.Set && p.ImageURL.Value == "" {
		out.IsCrossedOut = false
	}
	return out, nil
}

// Validate checks the patch's vocabulary fields.
func (p CellPatch) Validate() error {
	if p.Icon.Set && p.Icon.Value != "" && !Icon(p.Icon.Value).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownIcon, p.Icon.Value)
	}
	if p.IconColor.Set && p.IconColor.Value != "" && !Color(p.IconColor.Value).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColor, p.IconColor.Value)
	}
	return nil
}

package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pixelgrid/internal/board"
)

// CellResult is the output of cell.
type CellResult struct {
	Quadrant string     `json:"quadrant"`
	Cell     board.Cell `json:"cell"`
}

func (r CellResult) String() string {
	return r.Quadrant + "  " + describeCell(r.Cell)
}

// cellFlags maps string flags to the patch field they set.
var cellFlags = []struct {
	name  string
	usage string
	field func(*board.CellPatch) *board.Field
}{
	{"image", "primary image URL, or @file for a local image", func(p *board.CellPatch) *board.Field { return &p.ImageURL }},
	{"sticker-tl", "top-left sticker URL or @file", func(p *board.CellPatch) *board.Field { return &p.StickerTL }},
	{"sticker-tr", "top-right sticker URL or @file", func(p *board.CellPatch) *board.Field { return &p.StickerTR }},
	{"sticker-bl", "bottom-left sticker URL or @file", func(p *board.CellPatch) *board.Field { return &p.StickerBL }},
	{"sticker-br", "bottom-right sticker URL or @file", func(p *board.CellPatch) *board.Field { return &p.StickerBR }},
	{"link", "link opened from the cell", func(p *board.CellPatch) *board.Field { return &p.LinkURL }},
	{"icon", "status icon: " + joinIcons(), func(p *board.CellPatch) *board.Field { return &p.Icon }},
	{"color", "status icon color: " + joinColors(), func(p *board.CellPatch) *board.Field { return &p.IconColor }},
}

// NewCellCommand creates the cell command.
func NewCellCommand(rootOpts *RootOptions) *cobra.Command {
	var clear []string
	var crossed bool

	cmd := &cobra.Command{
		Use:   "cell <quadrant-id> <slot>",
		Short: "Edit one cell",
		Long: `Edit the cell at a slot such as r0-c2-big or r1-c0-s3 (rows and columns
count from 0; s1..s4 are the small cells beside the big one). Only the fields
named by flags change. Clearing the image also clears the crossed-out mark.`,
		Example: `  pixelgrid cell q-initial r0-c0-big --image @boss.png --icon sword --color red
  pixelgrid cell q-initial r0-c0-big --crossed
  pixelgrid cell q-initial r0-c0-big --clear image,icon`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			key, err := board.ParseSlotKey(args[1])
			if err != nil {
				return f.Reject(ExitCommandError, ErrCodeInvalidInput, "invalid slot", err)
			}
			patch, err := buildCellPatch(cmd, clear, crossed)
			if err != nil {
				return f.Reject(ExitCommandError, ErrCodeInvalidInput, "invalid cell patch", err)
			}
			if patch.IsZero() {
				return f.Reject(ExitCommandError, ErrCodeInvalidInput, "nothing to do: pass a field flag or --clear", nil)
			}
			return withEditor(rootOpts, cmd, func(ctx context.Context, s *session, f *OutputFormatter) error {
				cell, err := s.ed.UpdateCell(ctx, args[0], key, patch)
				if err != nil {
					return f.Fail(err)
				}
				return f.Success(CellResult{Quadrant: args[0], Cell: cell})
			})
		},
	}

	for _, cf := range cellFlags {
		cmd.Flags().String(cf.name, "", cf.usage)
	}
	cmd.Flags().BoolVar(&crossed, "crossed", false, "mark the cell crossed out (--crossed=false to unmark)")
	cmd.Flags().StringSliceVar(&clear, "clear", nil, "fields to clear: image, sticker-tl, sticker-tr, sticker-bl, sticker-br, link, icon, color, crossed")
	return cmd
}

func buildCellPatch(cmd *cobra.Command, clear []string, crossed bool) (board.CellPatch, error) {
	var patch board.CellPatch
	for _, cf := range cellFlags {
		if !cmd.Flags().Changed(cf.name) {
			continue
		}
		v, _ := cmd.Flags().GetString(cf.name)
		if strings.HasPrefix(v, "@") {
			data, err := dataURL(strings.TrimPrefix(v, "@"))
			if err != nil {
				return patch, err
			}
			v = data
		}
		*cf.field(&patch) = board.Set(v)
	}
	if cmd.Flags().Changed("crossed") {
		patch.IsCrossedOut = &crossed
	}

clearing:
	for _, name := range clear {
		if name == "crossed" {
			off := false
			patch.IsCrossedOut = &off
			continue
		}
		for _, cf := range cellFlags {
			if cf.name == name {
				*cf.field(&patch) = board.Clear()
				continue clearing
			}
		}
		return patch, fmt.Errorf("--clear: unknown field %q", name)
	}
	return patch, patch.Validate()
}

// dataURL reads an image file into a data: URL, the form the browser
// build stores uploaded images in.
func dataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func joinIcons() string {
	names := make([]string, len(board.Icons))
	for i, ic := range board.Icons {
		names[i] = string(ic)
	}
	return strings.Join(names, ", ")
}

func joinColors() string {
	names := make([]string, len(board.Colors))
	for i, c := range board.Colors {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

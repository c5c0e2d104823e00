package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/store"
)

// QuadrantSummary describes one quadrant in command output.
type QuadrantSummary struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	DisplayTitle string                `json:"display_title"`
	Rows         int                   `json:"rows"`
	Columns      int                   `json:"columns"`
	Cells        map[string]board.Cell `json:"cells,omitempty"`
	CellCount    int                   `json:"cell_count"`
	VisibleCells int                   `json:"visible_cells"`
	HiddenCells  int                   `json:"hidden_cells"`
}

func summarize(q board.Quadrant, withCells bool) QuadrantSummary {
	s := QuadrantSummary{
		ID:           q.ID,
		Title:        q.Title,
		DisplayTitle: q.DisplayTitle(),
		Rows:         q.Rows,
		Columns:      q.Columns,
		CellCount:    len(q.Cells),
	}
	for _, key := range q.VisibleKeys() {
		if _, ok := q.Cells[key.String()]; ok {
			s.VisibleCells++
		}
	}
	// Cells past a shrunk edge are kept and come back when the grid grows.
	for k := range q.Cells {
		if key, err := board.ParseSlotKey(k); err == nil && !q.InBounds(key) {
			s.HiddenCells++
		}
	}
	if withCells {
		s.Cells = q.Cells
	}
	return s
}

func (s QuadrantSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) %dx%d, %d cells", s.DisplayTitle, s.ID, s.Rows, s.Columns, s.CellCount)
	if s.HiddenCells > 0 {
		fmt.Fprintf(&b, " (%d past the edge)", s.HiddenCells)
	}
	keys := make([]string, 0, len(s.Cells))
	for k := range s.Cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s", describeCell(s.Cells[k]))
	}
	return b.String()
}

func describeCell(c board.Cell) string {
	parts := []string{c.ID}
	if c.ImageURL != "" {
		parts = append(parts, "image")
	}
	for _, corner := range []board.Corner{board.CornerTL, board.CornerTR, board.CornerBL, board.CornerBR} {
		if c.Sticker(corner) != "" {
			parts = append(parts, "sticker-"+string(corner))
		}
	}
	if c.LinkURL != "" {
		parts = append(parts, "link="+c.LinkURL)
	}
	if c.HasIcon() {
		parts = append(parts, fmt.Sprintf("icon=%s/%s", c.Icon, c.DisplayColor()))
	}
	if c.IsCrossedOut {
		parts = append(parts, "crossed")
	}
	return strings.Join(parts, "  ")
}

// ShowResult is the output of show.
type ShowResult struct {
	Source    string            `json:"source"`
	Protected bool              `json:"protected"`
	Quadrants []QuadrantSummary `json:"quadrants"`
	Revision  int64             `json:"revision,omitempty"`
	UpdatedAt string            `json:"updated_at,omitempty"`
}

// recordStatter is implemented by stores that track record revisions.
type recordStatter interface {
	Stat(ctx context.Context, name string) (store.Record, error)
}

func (r ShowResult) String() string {
	lines := make([]string, 0, len(r.Quadrants)+1)
	for _, q := range r.Quadrants {
		lines = append(lines, q.String())
	}
	if r.Protected {
		lines = append(lines, "Editing is password protected.")
	}
	if r.Revision > 0 {
		lines = append(lines, fmt.Sprintf("Revision %d, saved %s.", r.Revision, r.UpdatedAt))
	}
	return strings.Join(lines, "\n")
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var withCells bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the dashboard",
		Long: `Show every quadrant of the stored dashboard. Reading never needs the
edit password.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(rootOpts, cmd, "")
			if err != nil {
				return err
			}
			defer s.Close()

			d := s.ed.State()
			res := ShowResult{Source: string(s.source), Protected: d.HasPassword()}
			for _, q := range d.Quadrants {
				res.Quadrants = append(res.Quadrants, summarize(q, withCells))
			}
			if st, ok := s.store.(recordStatter); ok {
				rec, err := st.Stat(commandContext(cmd), s.gw.Record())
				switch {
				case err == nil:
					res.Revision, res.UpdatedAt = rec.Revision, rec.UpdatedAt
				case !errors.Is(err, store.ErrNotFound):
					s.log.WithError(err).Warn("failed to read record metadata")
				}
			}
			return f.Success(res)
		},
	}

	cmd.Flags().BoolVar(&withCells, "cells", false, "list stored cells")
	return cmd
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pixelgrid/internal/board"
	"github.com/roach88/pixelgrid/internal/editor"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add",
		Short:         "Append a new quadrant",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(rootOpts, cmd, func(ctx context.Context, s *session, f *OutputFormatter) error {
				q, err := s.ed.AddQuadrant(ctx)
				if err != nil {
					return f.Fail(err)
				}
				return f.Success(summarize(q, false))
			})
		},
	}
}

// RemoveResult is the output of remove.
type RemoveResult struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func (r RemoveResult) String() string {
	if r.Removed {
		return fmt.Sprintf("Removed %s.", r.ID)
	}
	return fmt.Sprintf("Kept %s.", r.ID)
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <quadrant-id>",
		Short: "Remove a quadrant",
		Long: `Remove a quadrant and all its cells. Removal is confirmed before it
happens; --yes confirms up front. The last quadrant cannot be removed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withEditor(rootOpts, cmd, func(ctx context.Context, s *session, f *OutputFormatter) error {
				if _, err := s.ed.RemoveQuadrant(ctx, id); err != nil {
					return f.Fail(err)
				}
				q, _ := s.ed.Quadrant(id)
				if !yes && !confirm(cmd, fmt.Sprintf("Remove quadrant %q (%s)?", q.Title, id)) {
					s.ed.CancelPendingDelete()
					return f.Success(RemoveResult{ID: id})
				}
				out, err := s.ed.RemoveQuadrant(ctx, id)
				if err != nil {
					return f.Fail(err)
				}
				if out != editor.Removed {
					// The confirmation window lapsed while the prompt was open.
					return f.Fail(fmt.Errorf("confirmation for %s expired, try again", id))
				}
				return f.Success(RemoveResult{ID: id, Removed: true})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "remove without asking")
	return cmd
}

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rename <quadrant-id> <title>",
		Short:         "Rename a quadrant",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(rootOpts, cmd, func(ctx context.Context, s *session, f *OutputFormatter) error {
				q, err := s.ed.RenameQuadrant(ctx, args[0], args[1])
				if err != nil {
					return f.Fail(err)
				}
				return f.Success(summarize(q, false))
			})
		},
	}
}

// NewResizeCommand creates the resize command.
func NewResizeCommand(rootOpts *RootOptions) *cobra.Command {
	var rows, columns int

	cmd := &cobra.Command{
		Use:   "resize <quadrant-id>",
		Short: "Grow or shrink a quadrant",
		Long: `Add --rows and --columns (negative to shrink) to a quadrant's size.
Sizes never drop below 1. Cells past a shrunk edge are kept and reappear when
the quadrant grows back.`,
		Example: `  pixelgrid resize q-initial --columns -2
  pixelgrid resize q-initial --rows 1 --columns 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows == 0 && columns == 0 {
				return newFormatter(rootOpts, cmd).Reject(ExitCommandError, ErrCodeInvalidInput, "nothing to do: pass --rows or --columns", nil)
			}
			return withEditor(rootOpts, cmd, func(ctx context.Context, s *session, f *OutputFormatter) error {
				var q board.Quadrant
				var err error
				if rows != 0 {
					if q, err = s.ed.ResizeQuadrant(ctx, args[0], board.AxisRows, rows); err != nil {
						return f.Fail(err)
					}
				}
				if columns != 0 {
					if q, err = s.ed.ResizeQuadrant(ctx, args[0], board.AxisColumns, columns); err != nil {
						return f.Fail(err)
					}
				}
				return f.Success(summarize(q, false))
			})
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "rows to add (negative to remove)")
	cmd.Flags().IntVar(&columns, "columns", 0, "columns to add (negative to remove)")
	return cmd
}

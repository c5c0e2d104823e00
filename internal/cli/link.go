package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pixelgrid/internal/persist"
)

// LinkResult is the output of link.
type LinkResult struct {
	persist.LinkInfo
}

func (r LinkResult) String() string {
	if r.OverLimit {
		return fmt.Sprintf("%s\n(warning: %d characters, past the %d most browsers accept)", r.URL, r.Length, r.SoftLimit)
	}
	return r.URL
}

// NewLinkCommand creates the link command.
func NewLinkCommand(rootOpts *RootOptions) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print a share link carrying the whole dashboard",
		Long: `Print a link whose fragment encodes the whole dashboard, password
included. Opening it loads that dashboard in place of the stored one.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(rootOpts, cmd, func(ctx context.Context, s *session, f *OutputFormatter) error {
				if base == "" {
					base = s.cfg.Server.BaseURL
				}
				info, err := s.gw.ShareLink(base, s.ed.State())
				if err != nil {
					return f.Fail(err)
				}
				return f.Success(LinkResult{info})
			})
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "page the link points at (default server.base_url)")
	return cmd
}

// OpenResult is the output of open.
type OpenResult struct {
	Source    persist.Source    `json:"source"`
	Quadrants []QuadrantSummary `json:"quadrants"`
}

func (r OpenResult) String() string {
	out := fmt.Sprintf("Loaded %d quadrant(s) from the link and saved them.", len(r.Quadrants))
	for _, q := range r.Quadrants {
		out += "\n" + q.String()
	}
	return out
}

const undecodableLink = "link does not carry a readable dashboard"

// NewOpenCommand creates the open command.
func NewOpenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <link>",
		Short: "Load a share link and save it as the current dashboard",
		Long: `Load the dashboard a share link carries, the way opening it in a browser
does, and write it to the store. The full link or just its fragment is
accepted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(rootOpts, cmd, persist.FragmentOf(args[0]))
			if err != nil {
				return err
			}
			defer s.Close()

			if s.source != persist.SourceLink {
				return f.Reject(ExitFailure, ErrCodeInvalidInput, undecodableLink, nil)
			}
			if err := s.ed.Flush(commandContext(cmd)); err != nil {
				return f.Fail(err)
			}
			d := s.ed.State()
			result := OpenResult{Source: s.source}
			for i := range d.Quadrants {
				result.Quadrants = append(result.Quadrants, summarize(d.Quadrants[i], false))
			}
			return f.Success(result)
		},
	}
}

package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// PasswordResult is the output of password set and clear.
type PasswordResult struct {
	Protected bool `json:"protected"`
}

func (r PasswordResult) String() string {
	if r.Protected {
		return "Edit password set."
	}
	return "Edit password removed; the dashboard is open to edits."
}

// NewPasswordCommand creates the password command group.
func NewPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Set or remove the edit password",
		Long: `The edit password only stops casual edits; it travels in plain text in
backups and share links. Changing it requires the current password.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "set <password>",
		Short:         "Protect edits with a password",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPassword(rootOpts, cmd, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Remove the edit password",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPassword(rootOpts, cmd, "")
		},
	})
	return cmd
}

func setPassword(rootOpts *RootOptions, cmd *cobra.Command, password string) error {
	return withEditor(rootOpts, cmd, func(ctx context.Context, s *session, f *OutputFormatter) error {
		if err := s.ed.SetPassword(ctx, password); err != nil {
			return f.Fail(err)
		}
		return f.Success(PasswordResult{Protected: password != ""})
	})
}

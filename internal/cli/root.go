package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string
	Database string
	Backend  string
	RedisURL string
	Record   string
	Password string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pixelgrid CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pixelgrid",
		Short: "pixelgrid - grid dashboards of images, icons and links",
		Long: `Edit pixel-art style grid dashboards from the terminal or serve them to a browser.

A dashboard is a list of quadrants; each quadrant is a grid of cells holding an
image, corner stickers, a link and a status icon. Every change is written to
the local store immediately. Share links carry the whole dashboard in the URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Config, "config", "", "path to YAML config file")
	flags.StringVar(&opts.Database, "db", "", "path to SQLite database (overrides storage.path)")
	flags.StringVar(&opts.Backend, "backend", "", "storage backend: sqlite or redis (overrides storage.backend)")
	flags.StringVar(&opts.RedisURL, "redis-url", "", "redis URL (overrides storage.redis_url)")
	flags.StringVar(&opts.Record, "record", "", "name of the stored dashboard record (overrides storage.record)")
	flags.StringVar(&opts.Password, "password", "", "edit password, when the dashboard has one")

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewResizeCommand(opts))
	cmd.AddCommand(NewCellCommand(opts))
	cmd.AddCommand(NewPasswordCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewLinkCommand(opts))
	cmd.AddCommand(NewOpenCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Prompts and verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

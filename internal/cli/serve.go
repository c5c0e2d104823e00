package cli

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/pixelgrid/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over HTTP",
		Long: `Serve the dashboard to a browser front end until interrupted.

Edits made over HTTP pass through the same access gate as the CLI: a
protected dashboard answers 403 until /api/gate/unlock succeeds. Changes are
pushed to clients on /api/events.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd, "")
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = s.cfg.Server.Addr
			}
			srv := server.New(s.ed, s.gw, server.Options{
				BaseURL: s.cfg.Server.BaseURL,
				Logger:  s.log,
			})

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.log.WithFields(log.Fields{
				"backend": s.cfg.Storage.Backend,
				"record":  s.gw.Record(),
				"source":  s.source,
			}).Info("serving dashboard")
			if err := srv.Run(ctx, addr); err != nil {
				return newFormatter(rootOpts, cmd).Reject(ExitCommandError, ErrCodeGeneric, "server failed", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/pixelgrid/internal/config"
	"github.com/roach88/pixelgrid/internal/editor"
	"github.com/roach88/pixelgrid/internal/gate"
	"github.com/roach88/pixelgrid/internal/persist"
	"github.com/roach88/pixelgrid/internal/store"
)

// durableStore is a persistence backend the CLI can open and close.
type durableStore interface {
	persist.Durable
	Close() error
}

// session is one CLI invocation's view of the dashboard.
type session struct {
	cfg    config.Config
	log    *log.Logger
	store  durableStore
	gw     *persist.Gateway
	ed     *editor.Editor
	source persist.Source
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Database != "" {
		cfg.Storage.Path = opts.Database
	}
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}
	if opts.RedisURL != "" {
		cfg.Storage.RedisURL = opts.RedisURL
	}
	if opts.Record != "" {
		cfg.Storage.Record = opts.Record
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, verbose bool, w io.Writer) *log.Logger {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

func openStore(ctx context.Context, cfg config.Config) (durableStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return store.OpenRedis(ctx, cfg.Storage.RedisURL)
	default:
		return store.Open(cfg.Storage.Path)
	}
}

// openSession loads the dashboard the way a page load does: from fragment
// when it decodes, else from the store, else the default.
func openSession(opts *RootOptions, cmd *cobra.Command, fragment string) (*session, error) {
	f := newFormatter(opts, cmd)
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, f.Reject(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	logger := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())

	ctx := commandContext(cmd)
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, f.Reject(ExitCommandError, ErrCodeStorage, "failed to open store", err)
	}

	gw := persist.New(st, persist.WithRecord(cfg.Storage.Record), persist.WithLogger(logger))
	d, src := gw.Load(ctx, fragment)
	logger.WithFields(log.Fields{"source": src, "quadrants": len(d.Quadrants)}).Debug("dashboard loaded")

	edOpts := cfg.EditorOptions()
	edOpts.Logger = logger
	return &session{
		cfg:    cfg,
		log:    logger,
		store:  st,
		gw:     gw,
		ed:     editor.New(d, gw, edOpts),
		source: src,
	}, nil
}

func (s *session) Close() {
	s.ed.Close()
	if err := s.store.Close(); err != nil {
		s.log.WithError(err).Error("error closing store")
	}
}

// unlock opens the gate for this invocation, submitting password when the
// dashboard asks for one.
func (s *session) unlock(password string) error {
	if s.ed.AttemptEdit() != gate.PromptOpen {
		return nil
	}
	if password == "" {
		return fmt.Errorf("%w: dashboard is password protected, pass --password", editor.ErrLocked)
	}
	_, err := s.ed.Unlock(password)
	return err
}

// withEditor opens a session, unlocks it and runs fn.
func withEditor(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, s *session, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	s, err := openSession(opts, cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.unlock(opts.Password); err != nil {
		return f.Fail(err)
	}
	return fn(commandContext(cmd), s, f)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// confirm asks question on the command's stderr and reads a yes/no answer
// from its stdin.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Package cli implements the rtdb-admin command line.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/cli
package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sungjintrb/rtdb-admin/internal/app"
	"github.com/sungjintrb/rtdb-admin/internal/config"
	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
	"github.com/sungjintrb/rtdb-admin/internal/pkg/logger"
)

// Opener opens the configured backend.
type Opener func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app.Application, error)

// Deps are the collaborators the commands need. Zero fields use production values.
type Deps struct {
	Open Opener
	// Logger replaces the global logger built from --log-level/--log-format.
	Logger *zap.Logger
	// Environ and WorkDir feed gen-web-config.
	Environ func() []string
	WorkDir string
}

// RootOptions holds global flags and the state they resolve to.
type RootOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Format     string
	Verbose    bool

	deps   Deps
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Open == nil {
		deps.Open = app.Bootstrap
	}
	opts := &RootOptions{deps: deps}

	cmd := &cobra.Command{
		Use:   "rtdb-admin",
		Short: "Administrative tools for the realtime database",
		Long: `Administrative tools for a realtime database backed by Firebase
(or a PostgreSQL stand-in):

  reconcile-orphans  create missing profiles and username index entries
  gen-web-config     write firebase-config.js from environment variables
  remove-path        delete a database subtree behind a confirm gate`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return apperrors.Usage(fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.Usage(err)
	})

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default: ./rtdb-admin.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (json|console)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logging")

	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewWebConfigCommand(opts))
	cmd.AddCommand(NewRemovePathCommand(opts))

	return cmd
}

// setup loads configuration and builds the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeConfigInvalid, "load config", apperrors.ExitUsage)
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	o.cfg = cfg

	if o.deps.Logger != nil {
		o.logger = o.deps.Logger
		return nil
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return apperrors.Wrap(err, apperrors.CodeConfigInvalid, "init logger", apperrors.ExitUsage)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return apperrors.Wrap(err, apperrors.CodeConfigInvalid, "set log level", apperrors.ExitUsage)
	}
	o.logger = logger.Named("rtdb-admin")
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// open bootstraps the backend; the caller must Shutdown the result.
func (o *RootOptions) open(ctx context.Context) (*app.Application, error) {
	return o.deps.Open(ctx, o.cfg, o.logger)
}

// usageArgs turns an argument validation failure into a usage error.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return apperrors.Usage(err)
		}
		return nil
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, deps Deps) int {
	cmd := NewRootCommand(deps)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !alreadyEmitted(err) {
		f := &OutputFormatter{Format: FormatText, Writer: stdout, ErrWriter: stderr}
		f.printError(err)
	}
	if deps.Logger == nil {
		_ = logger.Sync()
	}
	return apperrors.ExitCodeOf(err)
}

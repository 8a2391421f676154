package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sungjintrb/rtdb-admin/internal/reconcile"
)

type reconcileFlags struct {
	dryRun      bool
	pageSize    int
	maxAttempts int
}

// NewReconcileCommand creates the reconcile-orphans command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &reconcileFlags{}

	cmd := &cobra.Command{
		Use:   "reconcile-orphans",
		Short: "Create profiles for identities that have none",
		Long: `Scan every identity in the directory and, for each one without a profile,
create the profile and a unique username index entry.

Existing profiles are never modified, so the command can be re-run safely.
Per-record write failures are reported and the scan continues.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, rootOpts, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "find orphans and plan usernames without writing")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "identities per directory page (default from config)")
	cmd.Flags().IntVar(&flags.maxAttempts, "max-attempts", 0, "username candidates per identity before giving up (default from config)")

	return cmd
}

func runReconcile(cmd *cobra.Command, rootOpts *RootOptions, flags *reconcileFlags) error {
	f := rootOpts.formatter(cmd)
	rc := rootOpts.cfg.Reconcile
	if cmd.Flags().Changed("dry-run") {
		rc.DryRun = flags.dryRun
	}
	if cmd.Flags().Changed("page-size") {
		rc.PageSize = flags.pageSize
	}
	if cmd.Flags().Changed("max-attempts") {
		rc.MaxUniqueAttempts = flags.maxAttempts
	}
	if rc.PageSize < 1 || rc.MaxUniqueAttempts < 1 {
		return f.Emit(nil, usageError("--page-size and --max-attempts must be positive"), nil)
	}

	ctx := cmd.Context()
	application, err := rootOpts.open(ctx)
	if err != nil {
		return f.Emit(nil, err, nil)
	}
	defer application.Shutdown()

	r := reconcile.New(application.Directory, application.Store, rootOpts.logger.Named("reconcile"), reconcile.Options{
		PageSize:          rc.PageSize,
		MaxUniqueAttempts: rc.MaxUniqueAttempts,
		ProfilesRoot:      rc.ProfilesRoot,
		NameIndexRoot:     rc.NameIndexRoot,
		DryRun:            rc.DryRun,
	})
	report, err := r.ReconcileAll(ctx)
	if report == nil {
		return f.Emit(nil, err, nil)
	}
	return f.Emit(report, err, func(w io.Writer) { printReport(w, report) })
}

func printReport(w io.Writer, r *reconcile.Report) {
	fmt.Fprintf(w, "Run: %s\n", r.RunID)
	if r.DryRun {
		fmt.Fprintln(w, "Dry-run: no data was written")
	}
	fmt.Fprintf(w, "Scanned %d identities, %d orphans\n", r.Scanned, r.Orphans)
	if r.DryRun {
		fmt.Fprintf(w, "Planned: %d  Failed: %d\n", r.Planned, r.Failed)
	} else {
		fmt.Fprintf(w, "Created: %d  Partial: %d  Failed: %d\n", r.Created, r.Partial, r.Failed)
	}
	for _, rec := range r.Records {
		line := fmt.Sprintf("  %-8s %s", rec.Status, rec.UID)
		if rec.Username != "" {
			line += " -> " + rec.Username
		}
		if rec.Error != "" {
			line += " (" + rec.Error + ")"
		}
		fmt.Fprintln(w, line)
	}
}

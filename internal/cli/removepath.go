package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
	"github.com/sungjintrb/rtdb-admin/internal/prune"
)

type removePathFlags struct {
	path       string
	dryRun     bool
	dryRunOld  bool
	confirm    bool
	backupFile string
	sample     int
}

// NewRemovePathCommand creates the remove-path command.
func NewRemovePathCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &removePathFlags{}

	cmd := &cobra.Command{
		Use:   "remove-path",
		Short: "Delete a database subtree",
		Long: `List the children of a database path and delete the whole subtree.

Nothing is deleted without --confirm (or FORCE=1). --dry-run (or DRY_RUN=1)
only lists. The database root cannot be removed.`,
		Example: `  rtdb-admin remove-path --path=/users --dry-run
  rtdb-admin remove-path --path=/users --confirm --backup-file users.json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemovePath(cmd, rootOpts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.path, "path", "p", "/users", "database path to remove")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "list only, never delete")
	cmd.Flags().BoolVar(&flags.dryRunOld, "dryrun", false, "alias for --dry-run")
	_ = cmd.Flags().MarkHidden("dryrun")
	cmd.Flags().BoolVar(&flags.confirm, "confirm", false, "actually delete")
	cmd.Flags().StringVar(&flags.backupFile, "backup-file", "", "write the subtree as JSON here before deleting")
	cmd.Flags().IntVar(&flags.sample, "sample", prune.DefaultSampleSize, "number of child keys to list")

	return cmd
}

func runRemovePath(cmd *cobra.Command, rootOpts *RootOptions, flags *removePathFlags) error {
	f := rootOpts.formatter(cmd)
	rc := rootOpts.cfg.RemovePath
	if cmd.Flags().Changed("path") {
		rc.Path = flags.path
	}
	rc.DryRun = rc.DryRun || flags.dryRun || flags.dryRunOld
	rc.Confirm = rc.Confirm || flags.confirm
	if cmd.Flags().Changed("backup-file") {
		rc.BackupFile = flags.backupFile
	}
	if cmd.Flags().Changed("sample") {
		rc.SampleSize = flags.sample
	}
	if rc.SampleSize < 0 {
		return f.Emit(nil, usageError("--sample must not be negative"), nil)
	}

	ctx := cmd.Context()
	application, err := rootOpts.open(ctx)
	if err != nil {
		return f.Emit(nil, err, nil)
	}
	defer application.Shutdown()

	p := prune.New(application.Store, rootOpts.logger.Named("prune"))
	res, err := p.Run(ctx, prune.Options{
		Path:       rc.Path,
		DryRun:     rc.DryRun,
		Confirm:    rc.Confirm,
		BackupFile: rc.BackupFile,
		SampleSize: rc.SampleSize,
	})
	if res == nil {
		return f.Emit(nil, err, nil)
	}
	return f.Emit(res, err, func(w io.Writer) { printPrune(w, res, err) })
}

func printPrune(w io.Writer, res *prune.Result, err error) {
	fmt.Fprintln(w, "Target path:", res.Path)
	fmt.Fprintln(w, "Dry-run:", res.DryRun)
	if !res.Exists {
		fmt.Fprintln(w, "Path does not exist:", res.Path)
		return
	}
	fmt.Fprintf(w, "Found %d children under %s\n", res.Count, res.Path)
	if len(res.Sample) > 0 {
		fmt.Fprintln(w, "Sample keys:", strings.Join(res.Sample, ", "))
	}
	switch {
	case res.DryRun:
		fmt.Fprintln(w, "Dry-run complete. No data was modified.")
	case res.Deleted:
		if res.BackupFile != "" {
			fmt.Fprintln(w, "Backup written to", res.BackupFile)
		}
		fmt.Fprintln(w, "Delete complete.")
	case apperrors.HasCode(err, apperrors.CodeConfirmationRequired):
		fmt.Fprintf(w, "Example: rtdb-admin remove-path --path=%s --confirm\n", res.Path)
	}
}

func usageError(msg string) error {
	return apperrors.Usage(errors.New(msg))
}

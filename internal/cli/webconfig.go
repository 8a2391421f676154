package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sungjintrb/rtdb-admin/internal/webconfig"
)

// NewWebConfigCommand creates the gen-web-config command.
func NewWebConfigCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "gen-web-config [env-file]",
		Short: "Write firebase-config.js from environment variables",
		Long: `Write window.FIREBASE_CONFIG for the web client.

Values come from the process environment and from an env file: the
positional argument, else ENV_PATH, else .env. A missing file falls back
to .env. Variables already set in the environment are never overridden.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			wc := rootOpts.cfg.WebConfig
			if len(args) == 1 {
				wc.EnvFile = args[0]
			}
			if cmd.Flags().Changed("out") {
				wc.Output = out
			}

			f := rootOpts.formatter(cmd)
			res, err := webconfig.Generate(webconfig.Options{
				EnvFile: wc.EnvFile,
				Output:  wc.Output,
				WorkDir: rootOpts.deps.WorkDir,
				Environ: rootOpts.deps.Environ,
			}, rootOpts.logger.Named("webconfig"))
			if err != nil {
				return f.Emit(nil, err, nil)
			}
			return f.Emit(res, nil, func(w io.Writer) {
				if res.EnvFile != "" {
					fmt.Fprintln(w, "Loaded env from", res.EnvFile)
				}
				fmt.Fprintln(w, "Wrote", res.Output)
				fmt.Fprintln(w, "GOOGLE_API_KEY=", res.APIKey)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", webconfig.DefaultOutput, "output file")

	return cmd
}

package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ezerfernandes/mdprebuild/internal/publish"
	"github.com/ezerfernandes/mdprebuild/internal/site"
	"github.com/spf13/cobra"
)

//go:embed help/build.md
var buildHelp string

func buildCmd(opts *options) *cobra.Command {
	var changedOnly bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "build [flags] source destination",
		Aliases: []string{"b"},
		Short:   "Prebuild every document of a site tree",
		Long:    buildHelp,
		Args:    cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dest := args[0], args[1]

			ready := opts.ready(cmd.Context())

			builder, err := site.NewBuilder(opts.cfg, opts.processor(), opts.log)
			if err != nil {
				return err
			}

			builder.Unchanged = !changedOnly
			builder.PassThrough = !ready

			report, err := builder.Build(cmd.Context(), os.DirFS(src), site.DirSink(dest))
			if err != nil {
				return err
			}

			for _, failure := range report.Failures {
				opts.status("warning: %v\n", failure)
			}

			if !ready {
				opts.status("copied %d document(s) unchanged\n", report.Documents-len(report.Failures))

				return documentFailures(report)
			}

			opts.status("converted %d diagram(s) in %d document(s)\n", report.Converted, report.Documents)

			if report.Unrendered > 0 {
				opts.status("warning: %d diagram(s) left unrendered\n", report.Unrendered)
			}

			count, err := publish.Copy(report.Manifest, dest, opts.cfg.OutputDir, opts.log)
			if err != nil {
				return err
			}

			opts.status("copied %d artifact(s)\n", count)

			return documentFailures(report)
		},

		DisableAutoGenTag: true,
	}

	probeFlag(cmd, opts)

	cmd.Flags().BoolVar(&changedOnly, "changed-only", false, "write only documents with converted diagrams")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "documents processed at once (0 for one per CPU)")

	return cmd
}

func documentFailures(report site.Report) error {
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d document(s) failed", len(report.Failures))
	}

	return nil
}

package cmd

import (
	"github.com/ezerfernandes/mdprebuild/internal/preview"
	"github.com/spf13/cobra"
)

func previewCmd(opts *options) *cobra.Command {
	var prebuild bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "preview [flags] [filename]",
		Aliases: []string{"p"},
		Short:   "Convert a document to HTML",
		Args:    checkargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			if prebuild && opts.ready(cmd.Context()) {
				res := opts.processor().Process(cmd.Context(), src)
				src = res.Text

				opts.status("converted %d diagram(s)\n", res.Converted)
			}

			return preview.HTML(src, cmd.OutOrStdout())
		},

		DisableAutoGenTag: true,
	}

	probeFlag(cmd, opts)

	cmd.Flags().BoolVar(&prebuild, "prebuild", false, "replace diagram blocks with figures first")

	return cmd
}

package cmd

import (
	"github.com/ezerfernandes/mdprebuild/internal/prebuild"
	"github.com/ezerfernandes/mdprebuild/internal/publish"
	"github.com/spf13/cobra"
)

func publishCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "publish destination",
		Short: "Copy every cached artifact below a site directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := opts.cache().Entries()
			if err != nil {
				return err
			}

			manifest := make(prebuild.Manifest, len(entries))
			for _, entry := range entries {
				manifest[entry.Digest] = entry.Path
			}

			count, err := publish.Copy(manifest, args[0], opts.cfg.OutputDir, opts.log)
			if err != nil {
				return err
			}

			opts.status("copied %d artifact(s)\n", count)

			return nil
		},

		DisableAutoGenTag: true,
	}

	return cmd
}

package cmd

import (
	_ "embed"
	"errors"

	"github.com/ezerfernandes/mdprebuild/internal/prebuild"
	"github.com/ezerfernandes/mdprebuild/internal/publish"
	"github.com/google/renameio"
	"github.com/spf13/cobra"
)

//go:embed help/render.md
var renderHelp string

func renderCmd(opts *options) *cobra.Command {
	var (
		write      bool
		publishDir string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "render [flags] [filename]",
		Aliases: []string{"r"},
		Short:   "Replace diagram blocks of a document with pre-rendered figures",
		Long:    renderHelp,
		Args:    checkargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			if write && name == stdinArg {
				return errWriteStdin
			}

			res := prebuild.Result{Text: src, Manifest: prebuild.Manifest{}} //nolint:exhaustruct
			if opts.ready(cmd.Context()) {
				res = opts.processor().Process(cmd.Context(), src)
			}

			for _, failed := range res.Failed() {
				opts.status("warning: block at line %d left unrendered: %v\n", failed.Block.StartLine, failed.Err)
			}

			opts.status("converted %d diagram(s)\n", res.Converted)

			if write {
				if res.Converted > 0 {
					if err := renameio.WriteFile(name, res.Text, fileMode); err != nil {
						return err
					}
				}
			} else if _, err := cmd.OutOrStdout().Write(res.Text); err != nil {
				return err
			}

			if len(publishDir) == 0 {
				return nil
			}

			count, err := publish.Copy(res.Manifest, publishDir, opts.cfg.OutputDir, opts.log)
			if err != nil {
				return err
			}

			opts.status("copied %d artifact(s)\n", count)

			return nil
		},

		DisableAutoGenTag: true,
	}

	probeFlag(cmd, opts)

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the document in place")
	cmd.Flags().StringVar(&publishDir, "publish", "", "copy rendered artifacts below this site directory")

	return cmd
}

var errWriteStdin = errors.New("--write needs a filename")

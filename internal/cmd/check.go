package cmd

import (
	"errors"

	"github.com/ezerfernandes/mdprebuild/internal/render"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

func checkCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "check",
		Short: "Check that the diagram renderer works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := render.Probe(cmd.Context(), opts.cmd)

			tbl := table.New("Renderer", "State", "Version").WithWriter(cmd.OutOrStdout())
			tbl.AddRow(opts.cfg.Renderer, status.State, status.Version)
			tbl.Print()

			if status.Ready() {
				return nil
			}

			opts.warnUnavailable(status)

			return errNotReady
		},

		DisableAutoGenTag: true,
	}

	return cmd
}

var errNotReady = errors.New("renderer is not ready")

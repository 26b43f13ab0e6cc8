package cmd

import (
	"fmt"

	"github.com/ezerfernandes/mdprebuild/internal/digest"
	"github.com/spf13/cobra"
)

func digestCmd(_ *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "digest [filename]",
		Short: "Print the content digest naming the artifact of a diagram source",
		Args:  checkargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest.Sum(src))

			return err
		},

		DisableAutoGenTag: true,
	}

	return cmd
}

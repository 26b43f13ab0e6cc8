package cmd

import (
	_ "embed"
	"fmt"

	"github.com/ezerfernandes/mdprebuild/internal/digest"
	"github.com/ezerfernandes/mdprebuild/internal/mdcode"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [filename]",
		Aliases: []string{"ls"},
		Short:   "List the diagram blocks of a document",
		Long:    listHelp,
		Args:    checkargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			if all {
				return listFences(cmd, src)
			}

			return listBlocks(cmd, opts, src)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every fenced code block, whatever its language")

	return cmd
}

func listBlocks(cmd *cobra.Command, opts *options, src []byte) error {
	store := opts.cache()
	tbl := table.New("#", "Lines", "Digest", "Cached").WithWriter(cmd.OutOrStdout())

	for idx, block := range mdcode.Extract(src, opts.cfg.Language) {
		key := digest.Sum(block.Content)
		_, cached := store.Lookup(key)

		tbl.AddRow(idx, lineRange(block.StartLine, block.EndLine), key, yesNo(cached))
	}

	tbl.Print()

	return nil
}

func listFences(cmd *cobra.Command, src []byte) error {
	fences, err := mdcode.Fences(src)
	if err != nil {
		return err
	}

	tbl := table.New("#", "Lang", "Lines", "Size").WithWriter(cmd.OutOrStdout())

	for idx, fence := range fences {
		tbl.AddRow(idx, fence.Lang, lineRange(fence.StartLine, fence.EndLine), fence.Lines)
	}

	tbl.Print()

	return nil
}

func lineRange(start, end int) string {
	return fmt.Sprintf("L%d-%d", start, end)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

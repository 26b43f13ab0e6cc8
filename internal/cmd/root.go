package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/ezerfernandes/mdprebuild/internal/config"
	"github.com/ezerfernandes/mdprebuild/internal/render"
	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "mdprebuild",
		Short: "Pre-render diagram code blocks of markdown documents",
		Long:  rootHelp,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := cmd.PersistentFlags()

	flags.StringVarP(&opts.configFile, "config", "c", config.DefaultFile, "site configuration file")
	flags.StringVarP(&opts.lang, "lang", "l", config.DefaultLanguage, "language tag of diagram blocks")
	flags.StringVar(&opts.cacheDir, "cache-dir", config.DefaultCacheDir, "directory of rendered artifacts")
	flags.StringVar(&opts.outputDir, "output-dir", config.DefaultOutputDir, "site directory the figures link to")
	flags.StringVar(&opts.renderer, "renderer", render.DefaultCommand, "renderer command template")
	flags.StringVar(&opts.format, "format", config.DefaultFormat, "artifact format: svg, png or pdf")
	flags.DurationVar(&opts.timeout, "timeout", 0, "maximum duration of one render (0 for none)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level")

	quietFlag(cmd, opts)

	cmd.AddCommand(
		renderCmd(opts),
		buildCmd(opts),
		listCmd(opts),
		checkCmd(opts),
		digestCmd(opts),
		previewCmd(opts),
		publishCmd(opts),
	)

	return cmd
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := rootCmd(new(options))

	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd.Execute()
}

// Execute runs the command line and exits with a non-zero status on error.
func Execute(args []string, stdout, stderr io.Writer) {
	if err := run(args, os.Stdin, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		os.Exit(1)
	}
}

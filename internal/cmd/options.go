package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/ezerfernandes/mdprebuild/internal/cache"
	"github.com/ezerfernandes/mdprebuild/internal/config"
	"github.com/ezerfernandes/mdprebuild/internal/logging"
	"github.com/ezerfernandes/mdprebuild/internal/prebuild"
	"github.com/ezerfernandes/mdprebuild/internal/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	fileMode = 0o644
	stdinArg = "-"
)

type statusFunc func(format string, args ...interface{})

type options struct {
	configFile string
	lang       string
	cacheDir   string
	outputDir  string
	renderer   string
	format     string
	timeout    time.Duration
	jobs       int
	logLevel   string
	quiet      bool
	noProbe    bool

	cfg    config.Config
	log    *logrus.Logger
	status statusFunc
	cmd    *render.Command
}

func (opts *options) createStatus(out io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(out, format, args...)
	}
}

// setup loads the configuration file and applies the flags given explicitly.
func (opts *options) setup(cmd *cobra.Command) error {
	opts.createStatus(cmd.ErrOrStderr())

	cfg, err := opts.loadConfig(cmd.Flag("config").Changed)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("lang") {
		cfg.Language = opts.lang
	}

	if flags.Changed("cache-dir") {
		cfg.CacheDir = opts.cacheDir
	}

	if flags.Changed("output-dir") {
		cfg.OutputDir = config.NormalizeOutputDir(opts.outputDir)
	}

	if flags.Changed("renderer") {
		cfg.Renderer = opts.renderer
	}

	if flags.Changed("format") {
		cfg.Format = opts.format
	}

	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}

	if flags.Changed("jobs") {
		cfg.Concurrency = opts.jobs
	}

	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if opts.log, err = logging.New(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return err
	}

	opts.cfg = cfg
	opts.cmd = render.NewCommand(cfg.Renderer, cfg.Format)

	return nil
}

// loadConfig reads the site configuration. The default file is optional,
// one named with --config is not.
func (opts *options) loadConfig(explicit bool) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err == nil || explicit || !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}

	return config.Default(), nil
}

func (opts *options) cache() *cache.Cache {
	return cache.New(opts.cfg.CacheDir, opts.cfg.Format, opts.cmd,
		cache.WithTimeout(opts.cfg.Timeout),
		cache.WithLogger(opts.log.WithField("component", "cache")),
	)
}

func (opts *options) processor() *prebuild.Processor {
	return prebuild.New(opts.cfg, opts.cache(), opts.log)
}

// ready resolves the renderer capability once for the command. A renderer
// that is not usable turns the run into a pass-through.
func (opts *options) ready(ctx context.Context) bool {
	if !opts.cfg.Enabled {
		opts.status("prebuild disabled by configuration\n")

		return false
	}

	if opts.noProbe {
		return true
	}

	status := render.Probe(ctx, opts.cmd)
	if status.Ready() {
		opts.log.WithFields(logrus.Fields{
			"renderer": status.Executable,
			"version":  status.Version,
		}).Debug("renderer ready")

		return true
	}

	opts.warnUnavailable(status)

	return false
}

func (opts *options) warnUnavailable(status render.Status) {
	log := opts.log.WithField("state", status.State.String())

	if status.Err != nil {
		log = log.WithError(status.Err)
	}

	log.Warn("renderer unavailable, diagrams are left as code blocks")

	if status.State == render.BrowserError {
		for _, line := range render.BrowserHelp {
			opts.log.Warn(line)
		}
	}
}

func readSource(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())

		return stdinArg, data, err
	}

	data, err := os.ReadFile(args[0])

	return args[0], data, err
}

func quietFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")
}

func probeFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().BoolVar(&opts.noProbe, "no-probe", false, "skip the renderer check before rendering")
}

var checkargs = cobra.MaximumNArgs(1)

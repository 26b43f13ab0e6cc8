// Package config loads the prebuild settings from a site configuration file.
//
// Settings live under the mermaid_prebuild key of a Jekyll-style YAML file:
//
//	mermaid_prebuild:
//	  enabled: true
//	  output_dir: assets/svg
//	  renderer: mmdc -i {in} -o {out} -e {format}
//	  timeout: 30s
//
// A file without that key yields the defaults.
package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ezerfernandes/mdprebuild/internal/logging"
	"github.com/ezerfernandes/mdprebuild/internal/render"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

const (
	SectionKey         = "mermaid_prebuild"
	DefaultFile        = "_config.yml"
	DefaultLanguage    = "mermaid"
	DefaultOutputDir   = "assets/svg"
	DefaultCacheDir    = ".jekyll-cache/jekyll-mermaid-prebuild"
	DefaultFormat      = "svg"
	DefaultFigureClass = "mermaid-diagram"
	DefaultAlt         = "Mermaid Diagram"

	invalidConfigCode = "CONFIG_INVALID"
)

// Config holds every prebuild setting.
type Config struct {
	Enabled     bool           `yaml:"enabled"`
	Language    string         `yaml:"language"`
	OutputDir   string         `yaml:"-"`
	CacheDir    string         `yaml:"cache_dir"`
	Format      string         `yaml:"format"`
	Renderer    string         `yaml:"renderer"`
	Timeout     time.Duration  `yaml:"timeout"`
	Concurrency int            `yaml:"concurrency"`
	Include     []string       `yaml:"include"`
	Exclude     []string       `yaml:"exclude"`
	FigureClass string         `yaml:"figure_class"`
	Alt         string         `yaml:"alt"`
	Log         logging.Config `yaml:"log"`
}

// section mirrors Config for decoding; output_dir is taken only when it is a string.
type section struct {
	Config    `yaml:",inline"`
	OutputDir interface{} `yaml:"output_dir"`
}

// Default returns the configuration used when nothing is configured.
func Default() Config {
	return Config{
		Enabled:     true,
		Language:    DefaultLanguage,
		OutputDir:   DefaultOutputDir,
		CacheDir:    DefaultCacheDir,
		Format:      DefaultFormat,
		Renderer:    render.DefaultCommand,
		Timeout:     0,
		Concurrency: 0,
		Include:     []string{"**.md", "**.markdown"},
		Exclude:     []string{"_site/**", ".jekyll-cache/**", "node_modules/**", "vendor/**"},
		FigureClass: DefaultFigureClass,
		Alt:         DefaultAlt,
		Log:         logging.DefaultConfig(),
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	return Parse(data)
}

// Parse decodes a site configuration document, applying defaults for
// everything the mermaid_prebuild section leaves out.
func Parse(data []byte) (Config, error) {
	var doc map[string]yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, parseError(err)
	}

	cfg := Default()

	if node, ok := doc[SectionKey]; ok && node.Kind == yaml.MappingNode {
		var sec section

		if err := node.Decode(&sec); err != nil {
			return Config{}, parseError(err)
		}

		cfg = sec.Config

		if dir, ok := sec.OutputDir.(string); ok {
			cfg.OutputDir = dir
		}
	}

	cfg.OutputDir = NormalizeOutputDir(cfg.OutputDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "parse configuration").
		WithTextCode(invalidConfigCode)
}

// UnmarshalYAML starts the section from the defaults so absent keys keep them.
func (s *section) UnmarshalYAML(node *yaml.Node) error {
	type plain section

	decoded := plain{Config: Default()} //nolint:exhaustruct
	decoded.Config.OutputDir = ""

	if err := node.Decode(&decoded); err != nil {
		return err
	}

	*s = section(decoded)

	return nil
}

// NormalizeOutputDir trims spaces and surrounding slashes; a blank value
// falls back to DefaultOutputDir.
func NormalizeOutputDir(dir string) string {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	if len(dir) == 0 {
		return DefaultOutputDir
	}

	return dir
}

var reLanguage = regexp.MustCompile(`^[A-Za-z0-9_+.-]+$`)

// Validate reports the first problem of every invalid field.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Language, validation.Required, validation.Match(reLanguage)),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.CacheDir, validation.Required),
		validation.Field(&c.Format, validation.Required, validation.In("svg", "png", "pdf")),
		validation.Field(&c.Renderer, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Concurrency, validation.Min(0)),
		validation.Field(&c.Log),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
			WithTextCode(invalidConfigCode)
	}

	return nil
}

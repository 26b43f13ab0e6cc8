package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ezerfernandes/mdprebuild/internal/config"
	"github.com/ezerfernandes/mdprebuild/internal/render"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{"", "title: My Site\nplugins:\n  - jekyll-feed\n", "mermaid_prebuild:\n"} {
		cfg, err := config.Parse([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	}

	cfg := config.Default()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "mermaid", cfg.Language)
	assert.Equal(t, "assets/svg", cfg.OutputDir)
	assert.Equal(t, ".jekyll-cache/jekyll-mermaid-prebuild", cfg.CacheDir)
	assert.Equal(t, render.DefaultCommand, cfg.Renderer)
	assert.NoError(t, cfg.Validate())
}

func TestParseSection(t *testing.T) {
	t.Parallel()

	doc := `
title: My Site
mermaid_prebuild:
  enabled: false
  output_dir: /images/diagrams/
  format: png
  timeout: 45s
  concurrency: 4
  exclude: ["drafts/**"]
  log:
    level: debug
`

	cfg, err := config.Parse([]byte(doc))
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "images/diagrams", cfg.OutputDir)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, []string{"drafts/**"}, cfg.Exclude)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")
	assert.Equal(t, config.Default().Include, cfg.Include)
	assert.Equal(t, "mermaid", cfg.Language)
}

func TestParseOutputDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  string
	}{
		{`"svg"`, "svg"},
		{`"  /assets/img/  "`, "assets/img"},
		{`"///"`, "assets/svg"},
		{`""`, "assets/svg"},
		{`"   "`, "assets/svg"},
		{`42`, "assets/svg"},
		{`[a, b]`, "assets/svg"},
		{`~`, "assets/svg"},
	}

	for _, tt := range tests {
		cfg, err := config.Parse([]byte("mermaid_prebuild:\n  output_dir: " + tt.value + "\n"))
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, cfg.OutputDir, tt.value)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		"mermaid_prebuild:\n  format: gif\n",
		"mermaid_prebuild:\n  language: two words\n",
		"mermaid_prebuild:\n  concurrency: -1\n",
		"mermaid_prebuild:\n  timeout: -5s\n",
		"mermaid_prebuild:\n  log:\n    level: loud\n",
		"mermaid_prebuild: [\n",
	} {
		_, err := config.Parse([]byte(doc))
		require.Error(t, err, doc)
		assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation), doc)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "_config.yml")
	require.NoError(t, os.WriteFile(path, []byte("mermaid_prebuild:\n  cache_dir: tmp/cache\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tmp/cache", cfg.CacheDir)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalizeOutputDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b", config.NormalizeOutputDir("//a/b//"))
	assert.Equal(t, config.DefaultOutputDir, config.NormalizeOutputDir(""))
}

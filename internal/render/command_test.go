package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ezerfernandes/mdprebuild/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRender(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out dir with spaces.svg")
	cmd := render.NewCommand("cat {in} > {out}", "svg")

	require.NoError(t, cmd.Render(context.Background(), []byte("A-->B\n"), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "A-->B\n", string(data))
}

func TestCommandFormat(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.txt")
	cmd := render.NewCommand("echo {format} > {out}", "png")

	require.NoError(t, cmd.Render(context.Background(), nil, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "png\n", string(data))
}

func TestCommandFailure(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.svg")
	cmd := render.NewCommand("echo 'Parse error on line 1' >&2; exit 3", "svg")

	err := cmd.Render(context.Background(), []byte("not a diagram"), out)

	var exitErr *render.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Status)
	assert.Contains(t, exitErr.Stderr, "Parse error")
	assert.Equal(t, "renderer exited with status 3: Parse error on line 1", err.Error())
	assert.NoFileExists(t, out)
}

func TestCommandTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cmd := render.NewCommand("sleep 5", "svg")
	err := cmd.Render(ctx, nil, filepath.Join(t.TempDir(), "out.svg"))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewCommandDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, render.DefaultCommand, render.NewCommand("  ", "svg").Template)
}

func TestFunc(t *testing.T) {
	t.Parallel()

	var got string

	r := render.Func(func(_ context.Context, source []byte, outputPath string) error {
		got = string(source) + "->" + outputPath

		return nil
	})

	require.NoError(t, r.Render(context.Background(), []byte("x"), "y"))
	assert.Equal(t, "x->y", got)
}

func TestProbe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	ready := render.Probe(ctx, render.NewCommand("cat {in} > {out}", "svg"))
	assert.Equal(t, render.Ready, ready.State)
	assert.True(t, ready.Ready())
	assert.NotEmpty(t, ready.Executable)
	assert.NoError(t, ready.Err)

	missing := render.Probe(ctx, render.NewCommand("mdprebuild-no-such-renderer {in} {out}", "svg"))
	assert.Equal(t, render.NotFound, missing.State)
	assert.Error(t, missing.Err)

	browser := render.Probe(ctx, render.NewCommand(
		"cat {in} > /dev/null; echo 'Error: Failed to launch the browser process!' >&2; exit 1", "svg"))
	assert.Equal(t, render.BrowserError, browser.State)
	assert.False(t, browser.Ready())

	failed := render.Probe(ctx, render.NewCommand("cat {in} > /dev/null; exit 2", "svg"))
	assert.Equal(t, render.Failed, failed.State)
	assert.Equal(t, "failed", failed.State.String())
}

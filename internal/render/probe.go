package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// State classifies the outcome of Probe.
type State int

const (
	Ready State = iota
	NotFound
	BrowserError
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case NotFound:
		return "not found"
	case BrowserError:
		return "browser error"
	case Failed:
		return "failed"
	}

	return "unknown"
}

// Status is the renderer capability as resolved once at start-up.
type Status struct {
	State      State
	Executable string
	Version    string
	Err        error
}

// Ready reports whether renders are expected to work.
func (s Status) Ready() bool {
	return s.State == Ready
}

const probeDiagram = "graph TD\nA-->B"

// BrowserHelp explains the usual cause of BrowserError: mmdc drives headless
// Chrome through Puppeteer, which needs a set of shared libraries.
var BrowserHelp = []string{
	"mmdc failed: Puppeteer cannot launch headless Chrome",
	"This usually means missing system libraries.",
	"On Debian/Ubuntu/WSL, install with:",
	"  sudo apt-get update",
	"  sudo apt-get install -y libgbm1 libasound2 libatk1.0-0 \\",
	"    libatk-bridge2.0-0 libcups2 libdrm2 libxcomposite1 \\",
	"    libxdamage1 libxfixes3 libxrandr2 libxkbcommon0 \\",
	"    libpango-1.0-0 libcairo2 libnss3 libnspr4",
	"See: https://pptr.dev/troubleshooting",
}

// Probe checks that the command's executable is on PATH, asks it for its
// version and renders a minimal diagram.
func Probe(ctx context.Context, cmd *Command) Status {
	exe, err := cmd.Executable()
	if err != nil {
		return Status{State: NotFound, Err: err} //nolint:exhaustruct
	}

	status := Status{State: Ready, Executable: exe, Version: version(ctx, exe, cmd.Dir)} //nolint:exhaustruct

	dir, err := os.MkdirTemp("", "mdprebuild-probe-")
	if err != nil {
		return Status{State: Failed, Executable: exe, Err: err} //nolint:exhaustruct
	}

	defer os.RemoveAll(dir)

	err = cmd.Render(ctx, []byte(probeDiagram), filepath.Join(dir, "probe."+cmd.Format))
	if err == nil {
		return status
	}

	status.Err = err
	status.State = Failed

	var exitErr *ExitError
	if errors.As(err, &exitErr) && isBrowserFailure(exitErr.Stderr) {
		status.State = BrowserError
	}

	return status
}

func isBrowserFailure(stderr string) bool {
	return strings.Contains(stderr, "libgbm") || strings.Contains(stderr, "browser process")
}

func version(ctx context.Context, exe, dir string) string {
	quoted, err := syntax.Quote(exe, syntax.LangBash)
	if err != nil {
		return ""
	}

	var stdout bytes.Buffer

	status, err := runCommand(ctx, quoted+" --version", dir, &stdout, nil)
	if err != nil || status != 0 {
		return ""
	}

	return firstLine(strings.TrimSpace(stdout.String()))
}

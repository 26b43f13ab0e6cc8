package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultCommand renders with the mermaid CLI.
const DefaultCommand = "mmdc -i {in} -o {out} -e {format}"

// Command renders by running a shell command line. The placeholders {in},
// {out} and {format} are replaced with the shell-quoted input file, output
// file and output format before the line is interpreted.
type Command struct {
	Template string
	Format   string
	Dir      string
}

// NewCommand returns a Command for template, falling back to DefaultCommand.
func NewCommand(template, format string) *Command {
	if len(strings.TrimSpace(template)) == 0 {
		template = DefaultCommand
	}

	return &Command{Template: template, Format: format} //nolint:exhaustruct
}

// ExitError reports a renderer that ran and exited with a non-zero status.
type ExitError struct {
	Status int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("renderer exited with status %d", e.Status)
	if stderr := strings.TrimSpace(e.Stderr); len(stderr) != 0 {
		msg += ": " + firstLine(stderr)
	}

	return msg
}

// Render writes source to a temporary input file and runs the command on it.
func (c *Command) Render(ctx context.Context, source []byte, outputPath string) error {
	input, err := os.CreateTemp("", "mdprebuild-*.mmd")
	if err != nil {
		return err
	}

	defer os.Remove(input.Name())

	if _, err := input.Write(source); err != nil {
		input.Close()

		return err
	}

	if err := input.Close(); err != nil {
		return err
	}

	script, err := c.expand(input.Name(), outputPath)
	if err != nil {
		return err
	}

	var stderr bytes.Buffer

	status, err := runCommand(ctx, script, c.Dir, io.Discard, &stderr)
	if err != nil {
		return err
	}

	if status != 0 {
		return &ExitError{Status: status, Stderr: stderr.String()}
	}

	return nil
}

// Executable resolves the first word of the template on PATH.
func (c *Command) Executable() (string, error) {
	words, err := shlex.Split(c.Template)
	if err != nil {
		return "", err
	}

	if len(words) == 0 {
		return "", errEmptyCommand
	}

	return exec.LookPath(words[0])
}

func (c *Command) expand(in, out string) (string, error) {
	values := map[string]string{"{in}": in, "{out}": out, "{format}": c.Format}
	pairs := make([]string, 0, 2*len(values)) //nolint:gomnd

	for placeholder, value := range values {
		quoted, err := syntax.Quote(value, syntax.LangBash)
		if err != nil {
			return "", err
		}

		pairs = append(pairs, placeholder, quoted)
	}

	return strings.NewReplacer(pairs...).Replace(c.Template), nil
}

func runCommand(ctx context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(nil, stdout, stderr))
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}

	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}

	return s
}

var errEmptyCommand = fmt.Errorf("renderer command is empty")

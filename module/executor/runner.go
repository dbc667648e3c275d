package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes the interpreter binary inside a working directory and returns
// what it printed on stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args []string) ([]byte, error)
}

// CommandRunner runs the interpreter as a subprocess.
type CommandRunner struct {
	Path string
}

var _ Runner = (*CommandRunner)(nil)

func (r *CommandRunner) Run(ctx context.Context, dir string, args []string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", r.Path, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

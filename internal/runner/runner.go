package runner

import (
	"context"
	"os"
	"os/exec"
	"time"
)

type Mode int

const (
	Capture Mode = iota
	Stream
)

// CommandRunner executes one external command. dir is the working directory
// ("" means the current one); timeout <= 0 disables the deadline.
type CommandRunner interface {
	Run(ctx context.Context, dir string, timeout time.Duration, mode Mode,
		name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(
	parent context.Context,
	dir string,
	timeout time.Duration,
	mode Mode,
	name string,
	args ...string,
) ([]byte, error) {
	ctx := parent
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	switch mode {
	case Stream:
		cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
		return nil, cmd.Run()
	default:
		out, err := cmd.CombinedOutput()
		return out, err
	}
}

package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
)

// Runner executes commands with os/exec
type Runner struct {
	dir string
}

// Option configures a Runner
type Option func(*Runner)

// WithDir sets the working directory of launched processes
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// NewRunner creates a Runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts cmd and waits for it. Both output streams are captured in full.
func (r *Runner) Run(ctx context.Context, cmd *model.Command) (*model.ProcessOutput, error) {
	var c *exec.Cmd
	switch cmd.Strategy {
	case model.StrategyShell:
		c = shellCommand(ctx, cmd.Line)
	default:
		c = exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	}
	c.Dir = r.dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	started := time.Now()
	err := c.Run()
	out := &model.ProcessOutput{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(started),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, goerr.Wrap(err, "failed to run command",
			goerr.V("strategy", cmd.Strategy),
			goerr.V("command", cmd.String()))
	}

	return out, nil
}

package usecase

import (
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
)

// console echoes commands and tool output in verbose mode
type console struct {
	w       io.Writer
	command *color.Color
	stdout  *color.Color
	stderr  *color.Color
}

func newConsole(w io.Writer) *console {
	return &console{
		w:       w,
		command: color.New(color.FgCyan),
		stdout:  color.New(color.Reset),
		stderr:  color.New(color.FgYellow),
	}
}

func (c *console) printCommand(cmd *model.Command) {
	c.command.Fprintf(c.w, "    Executing: %s\n", cmd.String())
}

// printOutput shows what SingleFile printed. stderr carries progress
// messages, not only errors.
func (c *console) printOutput(stdout, stderr string) {
	if stdout != "" {
		c.stdout.Fprintln(c.w, stdout)
	}
	if stderr != "" {
		c.stderr.Fprintln(c.w, stderr)
	}
}

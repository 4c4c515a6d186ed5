//go:build windows

package process

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// cmd.exe does its own parsing, so the line is handed over untouched instead
// of going through the argv escaping of os/exec.
func shellCommand(ctx context.Context, line string) *exec.Cmd {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	c := exec.CommandContext(ctx, comspec)
	c.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: `/S /C "` + line + `"`,
	}
	return c
}

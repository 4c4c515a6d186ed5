package interfaces

import (
	"context"
	"time"

	"github.com/m-mizutani/pagecap/pkg/domain/model"
)

// ProcessRunner runs a command to completion and collects its output.
// A non-zero exit is reported through ProcessOutput.ExitCode, not as an error.
type ProcessRunner interface {
	Run(ctx context.Context, cmd *model.Command) (*model.ProcessOutput, error)
}

// ToolLocator searches the host for the SingleFile installation under toolDir
type ToolLocator interface {
	Locate(toolDir string) *model.Toolchain
}

// Clock abstracts time so polling can be driven by tests
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

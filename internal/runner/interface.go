package runner

import (
	"context"
)

// Result holds the captured output of a finished command
type Result struct {
	Stdout string
	Stderr string
}

// CommandRunner executes shell commands for testability.
//
// Commands are passed to the platform shell as a single string, so callers
// may chain commands with "&&". A non-zero exit status or a failure to start
// the shell is reported as *models.CommandError.
type CommandRunner interface {
	Run(dir, command string) (*Result, error)

	// Context support for long-running installs
	WithContext(ctx context.Context) CommandRunner
}

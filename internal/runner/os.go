package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/jakoblorz/go-expressgen/internal/models"
)

// OSRunner implements CommandRunner using the platform shell
type OSRunner struct {
	ctx context.Context
}

// NewOSRunner creates a new OSRunner
func NewOSRunner() *OSRunner {
	return &OSRunner{
		ctx: context.Background(),
	}
}

// WithContext returns a new runner with the given context
func (r *OSRunner) WithContext(ctx context.Context) CommandRunner {
	return &OSRunner{
		ctx: ctx,
	}
}

// Run executes command in dir and waits for it to finish
func (r *OSRunner) Run(dir, command string) (*Result, error) {
	cmd := exec.CommandContext(r.ctx, shell(), shellFlag(), command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, &models.CommandError{
			Command:  command,
			Dir:      dir,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(result.Stderr),
			Err:      err,
		}
	}

	return result, &models.CommandError{
		Command:  command,
		Dir:      dir,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(result.Stderr),
		Err:      err,
	}
}

func shell() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "sh"
}

func shellFlag() string {
	if runtime.GOOS == "windows" {
		return "/C"
	}
	return "-c"
}

package models

import (
	"errors"
	"fmt"
	"io/fs"
)

// IOError reports a failed directory or file operation
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the path did not exist
func (e *IOError) NotFound() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// CommandError reports a subprocess that could not be spawned or exited non-zero.
// ExitCode is -1 when the process never ran.
type CommandError struct {
	Command  string
	Dir      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("command %q in %s could not be started: %v", e.Command, e.Dir, e.Err)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("command %q in %s exited with code %d: %s", e.Command, e.Dir, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command %q in %s exited with code %d", e.Command, e.Dir, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ManifestParseError reports a package manifest that is not valid JSON
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

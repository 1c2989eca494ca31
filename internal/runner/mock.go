package runner

import (
	"context"
	"strings"
	"sync"

	"github.com/jakoblorz/go-expressgen/internal/models"
)

// Call records one command passed to MockRunner
type Call struct {
	Dir     string
	Command string
}

// HandlerFunc simulates the side effects of a command
type HandlerFunc func(dir, command string) (*Result, error)

type mockHandler struct {
	prefix string
	fn     HandlerFunc
}

type mockFailure struct {
	prefix   string
	exitCode int
	stderr   string
}

// MockRunner implements CommandRunner for testing.
// Commands without a matching handler succeed with empty output.
type MockRunner struct {
	mu       sync.Mutex
	calls    []Call
	handlers []mockHandler
	failures []mockFailure
	ctx      context.Context
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{
		ctx: context.Background(),
	}
}

// WithContext returns the same mock; recorded calls are shared
func (m *MockRunner) WithContext(ctx context.Context) CommandRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = ctx
	return m
}

// On registers fn for commands starting with prefix. The first matching handler wins.
func (m *MockRunner) On(prefix string, fn HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, mockHandler{prefix: prefix, fn: fn})
}

// FailOn makes commands starting with prefix exit with exitCode and stderr
func (m *MockRunner) FailOn(prefix string, exitCode int, stderr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, mockFailure{prefix: prefix, exitCode: exitCode, stderr: stderr})
}

// Run records the call and applies failures, then handlers
func (m *MockRunner) Run(dir, command string) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Dir: dir, Command: command})
	ctx := m.ctx
	failures := m.failures
	handlers := m.handlers
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &models.CommandError{Command: command, Dir: dir, ExitCode: -1, Err: err}
	}

	for _, f := range failures {
		if strings.HasPrefix(command, f.prefix) {
			return &Result{Stderr: f.stderr}, &models.CommandError{
				Command:  command,
				Dir:      dir,
				ExitCode: f.exitCode,
				Stderr:   f.stderr,
			}
		}
	}

	for _, h := range handlers {
		if strings.HasPrefix(command, h.prefix) {
			return h.fn(dir, command)
		}
	}

	return &Result{}, nil
}

// Calls returns a copy of the recorded calls in order
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

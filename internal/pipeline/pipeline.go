package pipeline

import (
	"fmt"
	"io"

	"github.com/jakoblorz/go-expressgen/internal/filesystem"
	"github.com/jakoblorz/go-expressgen/internal/progress"
	"github.com/jakoblorz/go-expressgen/internal/runner"
	"github.com/jakoblorz/go-expressgen/internal/tui"
)

// StageError is the terminal error of a run: the stage and step that failed, wrapping the cause
type StageError struct {
	Stage Stage
	Step  Step
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed at %q: %v", e.Stage, e.Step.Target(), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result summarizes a run
type Result struct {
	Root      string
	Completed int
	Total     int
	Stage     Stage
}

// Pipeline executes a Plan step by step. Nothing is rolled back on failure.
type Pipeline struct {
	gw       *filesystem.Gateway
	runner   runner.CommandRunner
	out      io.Writer
	verbose  bool
	progress func(percent int)
}

// New creates a Pipeline writing through fs and running commands with r.
// Step log lines go to out.
func New(fs filesystem.FileSystem, r runner.CommandRunner, out io.Writer) *Pipeline {
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{
		gw:      filesystem.NewGateway(fs),
		runner:  r,
		out:     out,
		verbose: true,
	}
}

// SetVerbose toggles the per-step log lines
func (p *Pipeline) SetVerbose(verbose bool) {
	p.verbose = verbose
}

// SetProgressFunc sets the callback receiving each distinct percentage
func (p *Pipeline) SetProgressFunc(fn func(percent int)) {
	p.progress = fn
}

// Run executes every step of plan in order and stops at the first failure
func (p *Pipeline) Run(plan *Plan) (*Result, error) {
	tracker := progress.NewTracker(plan.Total(), p.progress)
	result := &Result{Root: plan.Root, Total: plan.Total(), Stage: StageInit}

	for _, step := range plan.Steps {
		result.Stage = step.Stage
		if err := p.execute(step); err != nil {
			fmt.Fprintf(p.out, "\n%s\n", tui.ErrorStyle.Render(fmt.Sprintf("❌ %s failed: %s", step.Stage, step.Label)))
			return result, &StageError{Stage: step.Stage, Step: step, Err: err}
		}

		tracker.Step()
		result.Completed = tracker.Completed()
		if p.verbose {
			fmt.Fprintf(p.out, "✓ %s\n", step.Label)
		}
	}

	result.Stage = StageDone
	return result, nil
}

func (p *Pipeline) execute(step Step) error {
	switch step.Kind {
	case KindCommand:
		if err := p.gw.CreateDirectory(step.Dir); err != nil {
			return err
		}
		if step.Command == "" {
			return nil
		}
		_, err := p.runner.Run(step.Dir, step.Command)
		return err
	case KindDirectory:
		return p.gw.CreateDirectory(step.Path)
	case KindWrite:
		return p.gw.WriteFile(step.Path, step.Contents)
	case KindAppend:
		return p.gw.AppendFile(step.Path, step.Contents)
	case KindPatch:
		return step.Patch.ApplyFile(p.gw, step.Path)
	default:
		return fmt.Errorf("unknown step kind %d", step.Kind)
	}
}

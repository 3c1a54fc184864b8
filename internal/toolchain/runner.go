package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/vk/fortmake/internal/ctxlog"
)

// ActionError reports an external toolchain command that finished with a
// failure status. The tool's own diagnostics have already been streamed to
// the configured writers; this error only records which action failed.
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action failed: %s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Options configures action execution behavior.
type Options struct {
	// WorkingDir is the directory actions run in. Empty means the current
	// directory.
	WorkingDir string

	// StdoutWriter and StderrWriter receive the command's output untouched.
	StdoutWriter io.Writer
	StderrWriter io.Writer
}

// Option is a function that modifies Options.
type Option func(*Options)

// DefaultOptions returns the default execution options: run in the current
// directory and pass tool output through to the process streams.
func DefaultOptions() *Options {
	return &Options{
		StdoutWriter: os.Stdout,
		StderrWriter: os.Stderr,
	}
}

// WithWorkingDir sets the directory actions run in.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithStdoutWriter sets a custom stdout writer.
func WithStdoutWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StdoutWriter = w
	}
}

// WithStderrWriter sets a custom stderr writer.
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StderrWriter = w
	}
}

// Runner executes actions through the operating system, honoring context
// cancellation.
type Runner struct {
	options *Options
}

// NewRunner creates a runner with the given options applied over the
// defaults.
func NewRunner(opts ...Option) *Runner {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Runner{options: options}
}

// Run invokes the action's command and waits for it to finish. A non-zero
// exit status surfaces as an ActionError; a canceled context surfaces as
// the context's own error.
func (r *Runner) Run(ctx context.Context, action Action) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running toolchain action.", "command", action.String())

	cmd := exec.CommandContext(ctx, action.Command, action.Args...)
	cmd.Dir = r.options.WorkingDir
	cmd.Stdout = r.options.StdoutWriter
	cmd.Stderr = r.options.StderrWriter

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ActionError{Action: action, Err: err}
	}
	return nil
}

package lua

import (
	"context"
	"io"
	"time"

	"github.com/dshills/ttedit/internal/engine/session"
)

// Logger receives debug output from the runner.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Runner executes scripts against a session. Each run gets a fresh state,
// so scripts cannot leave globals behind for later runs.
type Runner struct {
	sess    *session.Session
	out     io.Writer
	timeout time.Duration
	logger  Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerOutput sets where scripts print.
func WithRunnerOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
	}
}

// WithRunnerTimeout sets the per-run execution timeout.
func WithRunnerTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(l Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner bound to sess.
func NewRunner(sess *session.Session, opts ...RunnerOption) *Runner {
	r := &Runner{
		sess:    sess,
		out:     io.Discard,
		timeout: DefaultExecutionTimeout,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func(s *State) error {
		return s.DoFile(ctx, path)
	})
}

// RunString runs code as a chunk called name.
func (r *Runner) RunString(ctx context.Context, name, code string) error {
	return r.run(ctx, name, func(s *State) error {
		return s.DoString(ctx, code)
	})
}

func (r *Runner) run(ctx context.Context, name string, exec func(*State) error) error {
	if err := ctx.Err(); err != nil {
		return &ScriptError{Path: name, Err: err}
	}

	state := NewState(WithExecutionTimeout(r.timeout), WithOutput(r.out))
	defer state.Close()

	mod := &sessionModule{sess: r.sess}
	mod.register(state.L)

	before := r.sess.Timeline().Head()
	start := time.Now()
	r.logger.Debug("running script %s", name)

	if err := exec(state); err != nil {
		r.logger.Debug("script %s failed after %v: %v", name, time.Since(start), err)
		return &ScriptError{Path: name, Err: err}
	}

	r.logger.Debug("script %s finished in %v, head %d -> %d",
		name, time.Since(start), before, r.sess.Timeline().Head())
	return nil
}

package wrapper

import (
	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/wrapper/exec"
	"github.com/jmgilman/go/wrapper/trace"
	"go.uber.org/zap"
)

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor sets the executor used to launch the child.
func WithExecutor(e exec.Executor) Option {
	return func(r *Runner) {
		r.executor = e
	}
}

// WithFilesystem sets the filesystem trace files are written to.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(r *Runner) {
		r.fs = fs
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithWorkDir sets the working directory recorded in the trace and used for
// relative trace paths.
func WithWorkDir(dir string) Option {
	return func(r *Runner) {
		r.workDir = dir
	}
}

// WithEnviron sets the environment snapshot recorded in the trace.
func WithEnviron(env []string) Option {
	return func(r *Runner) {
		r.environ = env
	}
}

// WithCommandLine sets the wrapper's own argv recorded in the trace.
func WithCommandLine(argv []string) Option {
	return func(r *Runner) {
		r.argv = argv
	}
}

// WithHostFacts sets the host facts recorded in the trace.
func WithHostFacts(h trace.HostFacts) Option {
	return func(r *Runner) {
		r.host = &h
	}
}

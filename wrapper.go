package wrapper

import (
	"context"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/wrapper/config"
	"github.com/jmgilman/go/wrapper/errors"
	"github.com/jmgilman/go/wrapper/exec"
	"github.com/jmgilman/go/wrapper/exitcode"
	"github.com/jmgilman/go/wrapper/rewrite"
	"github.com/jmgilman/go/wrapper/trace"
	"go.uber.org/zap"
)

// Runner performs one wrapped run.
type Runner struct {
	cfg      *config.Config
	executor exec.Executor
	fs       billy.Filesystem
	log      *zap.Logger
	workDir  string
	environ  []string
	argv     []string
	host     *trace.HostFacts
}

// New creates a Runner for cfg. Unset options default to the real process:
// os/exec with this process's stdio, the local filesystem, the current
// working directory, os.Environ and os.Args.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}

	if r.executor == nil {
		r.executor = exec.New()
	}
	if r.fs == nil {
		r.fs = osfs.New("")
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.workDir = wd
		}
	}
	if r.environ == nil {
		r.environ = os.Environ()
	}
	if r.argv == nil {
		r.argv = os.Args
	}
	if r.host == nil {
		h := trace.CollectHost(cfg.Source)
		r.host = &h
	}

	return r
}

// Run launches the configured executable with args joined by single spaces,
// and returns the resolved exit code.
//
// Configuration errors (bad pattern, unknown dialect, unusable trace
// directory) are reported before the child is launched. A launch failure or a
// trace write failure is returned as an error; the exit code is then
// meaningless and callers should use errors.ExitStatus. A trace name claimed
// by another run between reservation and creation is a write failure; the
// existing file is never overwritten.
func (r *Runner) Run(ctx context.Context, args []string) (int, error) {
	cfg := r.cfg

	rewriter, err := rewrite.New(cfg.OutputLinePattern, cfg.OutputLineReplacement)
	if err != nil {
		return 0, err
	}

	var (
		tracePath string
		writer    *trace.Writer
	)
	if strings.TrimSpace(cfg.TraceCommandLineFile) != "" {
		dialect, err := trace.DialectFor(cfg.TraceDialect)
		if err != nil {
			return 0, err
		}
		writer = trace.NewWriter(r.fs, dialect)

		tracePath, err = trace.NewNamer(r.fs, r.workDir).Next(cfg.TraceCommandLineFile)
		if err != nil {
			return 0, err
		}
		r.log.Debug("trace file reserved", zap.String("path", tracePath), zap.String("dialect", dialect.Name()))
	}

	recorder := &trace.Recorder{}
	var (
		childCode  *int
		invocation *trace.Invocation
	)

	if cfg.HasExecutable() {
		argLine := strings.Join(args, " ")
		invocation = &trace.Invocation{Executable: cfg.Executable, Args: argLine}
		r.log.Debug("launching child",
			zap.String("executable", cfg.Executable),
			zap.String("args", argLine),
			zap.Bool("rewrite", rewriter.Enabled()))

		target := exec.NewWrapper(r.executor.Clone(), cfg.Executable).
			WithContext(ctx).
			WithLineHandler(func(line string) string {
				out, rewritten := rewriter.Apply(line)
				recorder.Record(line, out, rewritten)
				return out
			})

		result, err := target.Run(argLine)
		if err != nil {
			return 0, classifyExecError(err, cfg.Executable)
		}

		code := result.ExitCode
		childCode = &code
		r.log.Debug("child exited", zap.Int("exit_code", code), zap.Int("lines", result.Lines))
	} else {
		r.log.Debug("no executable configured, nothing launched")
	}

	resolution := exitcode.Resolve(childCode, cfg.OverridedExitCode)
	if resolution.Overridden {
		r.log.Debug("exit code overridden", zap.Int("exit_code", resolution.Code))
	}

	if writer != nil {
		report := &trace.Report{
			WorkDir:     r.workDir,
			Environ:     r.environ,
			CommandLine: r.argv,
			Invocation:  invocation,
			Settings:    settings(cfg),
			Host:        *r.host,
			Notes:       resolution.Notes,
			ExitCode:    resolution.Code,
			Output:      recorder.Lines(),
		}
		if err := writer.Write(tracePath, report); err != nil {
			return resolution.Code, errors.WithContext(err, "exit_code", resolution.Code)
		}
	}

	return resolution.Code, nil
}

func classifyExecError(err error, executable string) error {
	var execErr *exec.ExecError
	if errors.As(err, &execErr) && !execErr.Started {
		return errors.WrapWithContext(err, errors.CodeLaunchFailed, "failed to start child process",
			map[string]interface{}{"executable": executable})
	}
	return errors.WrapWithContext(err, errors.CodeExecutionFailed, "child process failed",
		map[string]interface{}{"executable": executable})
}

func settings(cfg *config.Config) []trace.Setting {
	entries := cfg.Entries()
	out := make([]trace.Setting, len(entries))
	for i, e := range entries {
		out[i] = trace.Setting{Name: e.Name, Value: e.Value}
	}
	return out
}

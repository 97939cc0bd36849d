package exec

import (
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"strings"
)

// Command is the concrete implementation of the Executor interface.
type Command struct {
	config  *config
	ctx     context.Context
	stdout  io.Writer
	stderr  io.Writer
	stdin   io.Reader
	handler LineHandler
}

// New creates a new Command with the given options.
// By default output goes to os.Stdout and the child shares this process's
// standard error and standard input.
func New(opts ...Option) *Command {
	cmd := &Command{
		config: newConfig(),
		ctx:    context.Background(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

// WithEnv adds environment variables for the command.
func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.config.env[k] = v
	}
	return c
}

// WithDir sets the working directory for the command.
func (c *Command) WithDir(dir string) Executor {
	c.config.dir = dir
	return c
}

// WithContext sets the context for the command.
func (c *Command) WithContext(ctx context.Context) Executor {
	c.ctx = ctx
	return c
}

// WithStdout sets the stdout writer.
func (c *Command) WithStdout(w io.Writer) Executor {
	c.stdout = w
	return c
}

// WithStderr sets the stderr writer.
func (c *Command) WithStderr(w io.Writer) Executor {
	c.stderr = w
	return c
}

// WithStdin sets the stdin reader.
func (c *Command) WithStdin(r io.Reader) Executor {
	c.stdin = r
	return c
}

// WithLineHandler sets the line handler.
func (c *Command) WithLineHandler(h LineHandler) Executor {
	c.handler = h
	return c
}

// Run executes name with argLine as its argument string.
//
// Output is drained before the process is waited on, so a child that writes
// more than the pipe buffer never stalls. The returned Result is non-nil
// whenever the process was started.
func (c *Command) Run(name string, argLine string) (*Result, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ExecError{
			Command:  name,
			Args:     argLine,
			ExitCode: -1,
			Err:      osexec.ErrNotFound,
		}
	}

	cmd := osexec.CommandContext(c.ctx, name)
	setArgs(cmd, argLine)

	if c.config.dir != "" {
		cmd.Dir = c.config.dir
	}
	cmd.Env = c.config.environ(os.Environ())
	cmd.Stdin = c.stdin
	cmd.Stderr = c.stderr

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ExecError{Command: name, Args: argLine, ExitCode: -1, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &ExecError{Command: name, Args: argLine, ExitCode: -1, Err: err}
	}

	lines, streamErr := streamLines(pipe, c.stdout, c.handler)
	waitErr := cmd.Wait()

	result := &Result{
		Lines:    lines,
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := c.ctx.Err(); ctxErr != nil {
		return result, &ExecError{Command: name, Args: argLine, ExitCode: result.ExitCode, Started: true, Err: ctxErr}
	}

	var exitErr *osexec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return result, &ExecError{Command: name, Args: argLine, ExitCode: result.ExitCode, Started: true, Err: waitErr}
	}

	if streamErr != nil {
		return result, &ExecError{Command: name, Args: argLine, ExitCode: result.ExitCode, Started: true, Err: streamErr}
	}

	return result, nil
}

// Clone creates a copy of the executor with the same configuration.
func (c *Command) Clone() Executor {
	return &Command{
		config:  c.config.clone(),
		ctx:     c.ctx,
		stdout:  c.stdout,
		stderr:  c.stderr,
		stdin:   c.stdin,
		handler: c.handler,
	}
}

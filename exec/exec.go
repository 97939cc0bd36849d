package exec

import (
	"context"
	"io"
)

//go:generate go run github.com/matryer/moq@latest -out mocks/executor.go -pkg mocks . Executor

// LineHandler transforms one line of the child's standard output before it is echoed.
// The line has its terminator removed; the returned text is written followed by a newline.
type LineHandler func(line string) string

// Executor is the main interface for executing commands.
// It provides a fluent API for configuring and running commands.
type Executor interface {
	// WithEnv adds environment variables on top of the inherited environment.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the command.
	WithDir(dir string) Executor

	// WithContext sets the context for the command.
	// The command will be killed if the context is canceled.
	WithContext(ctx context.Context) Executor

	// WithStdout sets the writer that receives the (handled) output lines.
	WithStdout(w io.Writer) Executor

	// WithStderr sets the writer connected to the child's standard error.
	WithStderr(w io.Writer) Executor

	// WithStdin sets the reader connected to the child's standard input.
	WithStdin(r io.Reader) Executor

	// WithLineHandler sets the function applied to every output line.
	WithLineHandler(h LineHandler) Executor

	// Run executes name with the given argument string and blocks until the
	// output stream is drained and the process has exited.
	Run(name string, argLine string) (*Result, error)

	// Clone creates a copy of the executor with the same configuration.
	Clone() Executor
}

// Result represents the result of a command execution.
type Result struct {
	// Lines is the number of lines read from standard output
	Lines int

	// ExitCode is the exit code returned by the command
	ExitCode int
}

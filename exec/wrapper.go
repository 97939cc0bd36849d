package exec

import "context"

// CommandWrapper binds an Executor to a single executable.
// Run takes only the argument string, which keeps call sites that always
// launch the same target free of the executable name.
type CommandWrapper struct {
	executor Executor
	cmd      string
}

// NewWrapper creates a new CommandWrapper that runs cmd with the given executor.
// The executor parameter can be any implementation of the Executor interface,
// including mock executors for testing.
func NewWrapper(executor Executor, cmd string) *CommandWrapper {
	return &CommandWrapper{
		executor: executor,
		cmd:      cmd,
	}
}

// Name returns the bound executable.
func (w *CommandWrapper) Name() string {
	return w.cmd
}

// WithEnv adds environment variables for the command.
func (w *CommandWrapper) WithEnv(env map[string]string) *CommandWrapper {
	w.executor = w.executor.WithEnv(env)
	return w
}

// WithDir sets the working directory for the command.
func (w *CommandWrapper) WithDir(dir string) *CommandWrapper {
	w.executor = w.executor.WithDir(dir)
	return w
}

// WithContext sets the context for the command.
func (w *CommandWrapper) WithContext(ctx context.Context) *CommandWrapper {
	w.executor = w.executor.WithContext(ctx)
	return w
}

// WithLineHandler sets the line handler.
func (w *CommandWrapper) WithLineHandler(h LineHandler) *CommandWrapper {
	w.executor = w.executor.WithLineHandler(h)
	return w
}

// Run executes the bound command with the given argument string.
func (w *CommandWrapper) Run(argLine string) (*Result, error) {
	return w.executor.Run(w.cmd, argLine)
}

// Clone creates a copy of the wrapper with the same configuration.
func (w *CommandWrapper) Clone() *CommandWrapper {
	return &CommandWrapper{
		executor: w.executor.Clone(),
		cmd:      w.cmd,
	}
}

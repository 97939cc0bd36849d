package exec

import "fmt"

// ExecError represents an error that occurred while launching or streaming a command.
// A non-zero exit status on its own is not an ExecError.
type ExecError struct {
	// Command is the executable that was run
	Command string

	// Args is the argument string passed to the executable
	Args string

	// ExitCode is the exit code returned by the command, or -1 if it never ran
	ExitCode int

	// Started reports whether the process was started before the failure
	Started bool

	// Err is the underlying error from the execution
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if !e.Started {
		return fmt.Sprintf("command %q could not be started: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command %q failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Package errors provides structured error handling for the wrapper.
//
// Every failure the wrapper can surface carries an ErrorCode, a human-readable
// message, optional context metadata and the wrapped cause. The package stays
// compatible with the standard library errors package (errors.Is, errors.As,
// errors.Unwrap).
//
// # Quick Start
//
// Creating errors:
//
//	err := errors.New(errors.CodeInvalidConfig, "outputLinePattern is not a valid regular expression")
//	err := errors.Newf(errors.CodeNotFound, "trace directory %s does not exist", dir)
//
// Wrapping errors:
//
//	if err := cmd.Start(); err != nil {
//	    return errors.Wrap(err, errors.CodeLaunchFailed, "failed to start child process")
//	}
//
// Adding context:
//
//	err = errors.WithContext(err, "executable", name)
//
// # Exit Status
//
// The wrapper is a single-shot process, so instead of retry classification each
// code maps to the exit status the process terminates with when the error
// escapes to the entry point:
//
//	os.Exit(errors.ExitStatus(err))
//
// Configuration errors exit with 78, launch failures with 127, trace write
// failures with 74 and everything else with 70.
package errors

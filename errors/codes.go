package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability.
type ErrorCode string

const (
	// Configuration errors.

	// CodeInvalidConfig indicates a configuration value prevents the run
	// (malformed pattern, unknown trace dialect, missing trace directory).
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeConfigLoadFailed indicates the configuration file could not be read or compiled.
	CodeConfigLoadFailed ErrorCode = "CONFIG_LOAD_FAILED"

	// CodeConfigDecodeFailed indicates the configuration file did not match the schema.
	CodeConfigDecodeFailed ErrorCode = "CONFIG_DECODE_FAILED"

	// CodeNotFound indicates a requested file or directory does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Execution errors.

	// CodeLaunchFailed indicates the child process could not be started.
	CodeLaunchFailed ErrorCode = "LAUNCH_FAILED"

	// CodeExecutionFailed indicates a failure while streaming or waiting on the child.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// Trace errors.

	// CodeTraceWriteFailed indicates the trace file could not be created or written.
	CodeTraceWriteFailed ErrorCode = "TRACE_WRITE_FAILED"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

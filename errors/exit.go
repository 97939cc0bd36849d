package errors

// Process exit statuses used when an error terminates the wrapper.
// The values follow BSD sysexits.h where one fits.
const (
	// ExitSoftware is used for internal and unclassified failures (EX_SOFTWARE).
	ExitSoftware = 70

	// ExitIOError is used when the trace file cannot be written (EX_IOERR).
	ExitIOError = 74

	// ExitConfig is used for configuration errors (EX_CONFIG).
	ExitConfig = 78

	// ExitLaunchFailed is used when the child process cannot be started,
	// matching the status shells report for a missing command.
	ExitLaunchFailed = 127
)

var exitStatuses = map[ErrorCode]int{
	CodeInvalidConfig:      ExitConfig,
	CodeConfigLoadFailed:   ExitConfig,
	CodeConfigDecodeFailed: ExitConfig,
	CodeNotFound:           ExitConfig,
	CodeLaunchFailed:       ExitLaunchFailed,
	CodeExecutionFailed:    ExitSoftware,
	CodeTraceWriteFailed:   ExitIOError,
	CodeInternal:           ExitSoftware,
	CodeUnknown:            ExitSoftware,
}

// ExitStatus returns the process exit status for err.
// It returns 0 for a nil error and ExitSoftware for codes without a mapping.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	if status, ok := exitStatuses[GetCode(err)]; ok {
		return status
	}
	return ExitSoftware
}

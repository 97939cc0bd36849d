package config

// Environment variables that override file settings. A variable that is set,
// even to the empty string, wins over the file.
const (
	EnvConfigFile            = "WRAPPER_CONFIG"
	EnvExecutable            = "WRAPPER_EXECUTABLE"
	EnvOutputLinePattern     = "WRAPPER_OUTPUT_LINE_PATTERN"
	EnvOutputLineReplacement = "WRAPPER_OUTPUT_LINE_REPLACEMENT"
	EnvOverridedExitCode     = "WRAPPER_OVERRIDED_EXIT_CODE"
	EnvTraceCommandLineFile  = "WRAPPER_TRACE_COMMAND_LINE_FILE"
	EnvTraceDialect          = "WRAPPER_TRACE_DIALECT"
	EnvLogLevel              = "WRAPPER_LOG_LEVEL"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with any WRAPPER_* variables reported by lookup.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvExecutable, &cfg.Executable},
		{EnvOutputLinePattern, &cfg.OutputLinePattern},
		{EnvOverridedExitCode, &cfg.OverridedExitCode},
		{EnvTraceCommandLineFile, &cfg.TraceCommandLineFile},
		{EnvTraceDialect, &cfg.TraceDialect},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup(EnvOutputLineReplacement); ok {
		cfg.OutputLineReplacement = &v
	}
}

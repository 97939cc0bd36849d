package config

// schema is unified with CUE and JSON configuration files. Definitions are
// closed, so misspelled keys are rejected instead of silently ignored.
// traceDialect is checked against the trace package after decoding.
const schema = `
#Config: {
	executable?:            string
	outputLinePattern?:     string
	outputLineReplacement?: string
	overridedExitCode?:     string
	traceCommandLineFile?:  string
	traceDialect?:          string
}
`

// Package config resolves the wrapper's settings.
//
// Settings come from an optional configuration file (CUE, JSON or YAML) and
// are overridden by WRAPPER_* environment variables. The result is a plain
// Config value that the rest of the wrapper receives explicitly.
package config

import "strings"

// Config holds the resolved settings of one run.
type Config struct {
	// Executable is the program to launch. Blank disables launching.
	Executable string `json:"executable,omitempty" yaml:"executable"`

	// OutputLinePattern is the regular expression matched against each output line.
	OutputLinePattern string `json:"outputLinePattern,omitempty" yaml:"outputLinePattern"`

	// OutputLineReplacement replaces matches of OutputLinePattern. Nil means
	// unset, which disables rewriting; an empty string deletes matches.
	OutputLineReplacement *string `json:"outputLineReplacement,omitempty" yaml:"outputLineReplacement"`

	// OverridedExitCode replaces the final exit code when it parses as an integer.
	OverridedExitCode string `json:"overridedExitCode,omitempty" yaml:"overridedExitCode"`

	// TraceCommandLineFile is the base path of the trace file. Blank disables tracing.
	TraceCommandLineFile string `json:"traceCommandLineFile,omitempty" yaml:"traceCommandLineFile"`

	// TraceDialect selects the trace script flavor: "batch" (also "bat", "cmd")
	// or "sh" (also "shell", "posix"), case-insensitive.
	TraceDialect string `json:"traceDialect,omitempty" yaml:"traceDialect"`

	// Source is the configuration file the values were read from, if any.
	Source string `json:"-" yaml:"-"`
}

// Entry is a named setting, used to echo the configuration.
type Entry struct {
	Name  string
	Value string
}

// HasExecutable reports whether a child process should be launched.
func (c *Config) HasExecutable() bool {
	return strings.TrimSpace(c.Executable) != ""
}

// RewriteEnabled reports whether the pattern/replacement pair is active.
func (c *Config) RewriteEnabled() bool {
	return strings.TrimSpace(c.OutputLinePattern) != "" && c.OutputLineReplacement != nil
}

// Replacement returns the replacement text, or "" when unset.
func (c *Config) Replacement() string {
	if c.OutputLineReplacement == nil {
		return ""
	}
	return *c.OutputLineReplacement
}

// Entries returns every setting in echo order.
func (c *Config) Entries() []Entry {
	return []Entry{
		{Name: "executable", Value: c.Executable},
		{Name: "overridedExitCode", Value: c.OverridedExitCode},
		{Name: "traceCommandLineFile", Value: c.TraceCommandLineFile},
		{Name: "outputLinePattern", Value: c.OutputLinePattern},
		{Name: "outputLineReplacement", Value: c.Replacement()},
		{Name: "traceDialect", Value: c.TraceDialect},
	}
}

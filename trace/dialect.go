package trace

import (
	"runtime"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/jmgilman/go/wrapper/errors"
)

// Dialect renders the individual directives of a replay script.
type Dialect interface {
	// Name returns the configuration name of the dialect.
	Name() string

	// Newline returns the line terminator used by the script.
	Newline() string

	// Header returns lines emitted before anything else.
	Header() []string

	// PushDir changes into dir, remembering the previous directory.
	PushDir(dir string) string

	// PopDir restores the directory saved by PushDir.
	PopDir() string

	// SetEnv assigns an environment variable. Values that cannot be expressed
	// as a live assignment are emitted as comments.
	SetEnv(name, value string) []string

	// CommandLine renders argv as a runnable command.
	CommandLine(args []string) string

	// Comment renders text as one comment line per line of text.
	Comment(text string) []string
}

// Dialect names accepted by DialectFor.
const (
	DialectBatch = "batch"
	DialectShell = "sh"
)

// DialectFor returns the dialect registered under name. An empty name
// selects batch on Windows and sh elsewhere.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		if runtime.GOOS == "windows" {
			return Batch{}, nil
		}
		return Shell{}, nil
	case DialectBatch, "bat", "cmd":
		return Batch{}, nil
	case DialectShell, "shell", "posix":
		return Shell{}, nil
	default:
		return nil, errors.WithContext(
			errors.Newf(errors.CodeInvalidConfig, "unknown trace dialect %q", name),
			"traceDialect", name,
		)
	}
}

// splitLines splits text on any line terminator, always returning at least one element.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func comment(prefix, text string) []string {
	parts := splitLines(text)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = prefix + p
	}
	return out
}

// Batch renders Windows cmd.exe scripts.
type Batch struct{}

// Name implements Dialect.
func (Batch) Name() string { return DialectBatch }

// Newline implements Dialect.
func (Batch) Newline() string { return "\r\n" }

// Header implements Dialect.
func (Batch) Header() []string { return nil }

// PushDir implements Dialect.
func (Batch) PushDir(dir string) string {
	return `@pushd "` + escapePercent(dir) + `"`
}

// PopDir implements Dialect.
func (Batch) PopDir() string { return "@popd" }

// SetEnv implements Dialect. Percent signs are doubled so the value is not
// expanded when the script runs.
func (b Batch) SetEnv(name, value string) []string {
	if strings.ContainsAny(name+value, "\r\n") {
		return b.Comment("SET " + name + "=" + value)
	}
	return []string{`@SET "` + escapePercent(name) + "=" + escapePercent(value) + `"`}
}

// CommandLine implements Dialect using the Windows argument quoting rules.
// cmd.exe metacharacters left outside quotes are escaped with '^' so the
// replayed line runs exactly one command.
func (Batch) CommandLine(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = quoteWindowsArg(a)
	}
	return escapeCmd(escapePercent(strings.Join(quoted, " ")))
}

// Comment implements Dialect.
func (Batch) Comment(text string) []string {
	return comment("@REM ", text)
}

// cmdMeta are the characters cmd.exe interprets outside double quotes.
const cmdMeta = "&|<>()^"

func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// escapeCmd prefixes '^' to every metacharacter cmd.exe would see outside a
// quoted region. cmd toggles quoting on every '"' and knows nothing of the
// backslash escapes used for argv, so the state is tracked the same way.
func escapeCmd(line string) string {
	var b strings.Builder
	quoted := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			quoted = !quoted
		} else if !quoted && strings.IndexByte(cmdMeta, c) >= 0 {
			b.WriteByte('^')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// quoteWindowsArg quotes s so that the Windows command-line parser yields it unchanged.
func quoteWindowsArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\""+cmdMeta) {
		return s
	}

	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes+1))
			slashes = 0
		default:
			slashes = 0
		}
		b.WriteByte(c)
	}
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')
	return b.String()
}

// Shell renders POSIX sh scripts.
type Shell struct{}

// Name implements Dialect.
func (Shell) Name() string { return DialectShell }

// Newline implements Dialect.
func (Shell) Newline() string { return "\n" }

// Header implements Dialect.
func (Shell) Header() []string { return []string{"#!/bin/sh"} }

// PushDir implements Dialect.
func (Shell) PushDir(dir string) string {
	return "cd " + shellescape.Quote(dir)
}

// PopDir implements Dialect.
func (Shell) PopDir() string { return "cd - >/dev/null" }

// SetEnv implements Dialect. Names that are not shell identifiers cannot be
// exported and are kept as comments.
func (s Shell) SetEnv(name, value string) []string {
	if !isShellIdentifier(name) {
		return s.Comment(name + "=" + value)
	}
	return []string{"export " + name + "=" + shellescape.Quote(value)}
}

// CommandLine implements Dialect.
func (Shell) CommandLine(args []string) string {
	return shellescape.QuoteCommand(args)
}

// Comment implements Dialect.
func (Shell) Comment(text string) []string {
	return comment("# ", text)
}

func isShellIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

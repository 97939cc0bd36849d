package trace

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/wrapper/errors"
)

// Setting is one configuration value echoed into the trace.
type Setting struct {
	Name  string
	Value string
}

// Invocation is the child command that was actually launched.
type Invocation struct {
	Executable string
	Args       string
}

// Report holds everything a trace file records about a run.
type Report struct {
	// WorkDir is the working directory of the run.
	WorkDir string

	// Environ is the environment snapshot as KEY=VALUE pairs, in provider order.
	Environ []string

	// CommandLine is the wrapper's own argv.
	CommandLine []string

	// Invocation is nil when no child was launched.
	Invocation *Invocation

	Settings []Setting
	Host     HostFacts
	Notes    []string
	ExitCode int
	Output   []string
}

// Writer creates trace files on a filesystem.
type Writer struct {
	fs      billy.Filesystem
	dialect Dialect
}

// NewWriter creates a Writer producing scripts in the given dialect.
func NewWriter(fs billy.Filesystem, dialect Dialect) *Writer {
	return &Writer{
		fs:      fs,
		dialect: dialect,
	}
}

// Write creates path exclusively and renders r into it. The file is always
// closed; on failure a partial file may remain. An existing file is never
// overwritten: the returned error then wraps os.ErrExist.
func (w *Writer) Write(path string, r *Report) (err error) {
	f, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeTraceWriteFailed, "failed to create trace file",
			map[string]interface{}{"path": path})
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapWithContext(cerr, errors.CodeTraceWriteFailed, "failed to close trace file",
				map[string]interface{}{"path": path})
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Render(bw, w.dialect, r); err != nil {
		return errors.WrapWithContext(err, errors.CodeTraceWriteFailed, "failed to write trace file",
			map[string]interface{}{"path": path})
	}
	if err := bw.Flush(); err != nil {
		return errors.WrapWithContext(err, errors.CodeTraceWriteFailed, "failed to flush trace file",
			map[string]interface{}{"path": path})
	}

	return nil
}

// lineWriter remembers the first write error so rendering reads linearly.
type lineWriter struct {
	w   io.Writer
	nl  string
	err error
}

func (lw *lineWriter) line(s ...string) {
	for _, l := range s {
		if lw.err != nil {
			return
		}
		_, lw.err = io.WriteString(lw.w, l+lw.nl)
	}
}

// Render writes r as a replay script in dialect d.
func Render(w io.Writer, d Dialect, r *Report) error {
	lw := &lineWriter{w: w, nl: d.Newline()}

	lw.line(d.Header()...)
	lw.line(d.PushDir(r.WorkDir))
	lw.line("")

	for _, kv := range r.Environ {
		name, value := splitEnv(kv)
		lw.line(d.SetEnv(name, value)...)
	}
	lw.line("")

	lw.line(d.CommandLine(r.CommandLine))
	lw.line("")

	if r.Invocation != nil {
		lw.line(d.Comment(r.Invocation.Executable + " " + r.Invocation.Args)...)
		lw.line("")
	}

	lw.line(d.PopDir())
	lw.line("")

	for _, s := range r.Settings {
		lw.line(d.Comment("Configuration." + s.Name + ": " + s.Value)...)
	}
	for _, h := range r.Host.Lines() {
		lw.line(d.Comment(h)...)
	}
	for _, note := range r.Notes {
		lw.line(d.Comment(note)...)
	}
	lw.line(d.Comment("Exit code: " + strconv.Itoa(r.ExitCode))...)
	lw.line("")

	lw.line(d.Comment("Output:")...)
	for _, out := range r.Output {
		lw.line(d.Comment(out)...)
	}

	return lw.err
}

// splitEnv splits KEY=VALUE. Windows exposes per-drive entries such as
// "=C:=C:\dir", so a leading '=' belongs to the name.
func splitEnv(kv string) (string, string) {
	start := 0
	if len(kv) > 0 && kv[0] == '=' {
		start = 1
	}
	for i := start; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:]
		}
	}
	return kv, ""
}

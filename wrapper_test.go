package wrapper_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/wrapper"
	"github.com/jmgilman/go/wrapper/config"
	"github.com/jmgilman/go/wrapper/errors"
	"github.com/jmgilman/go/wrapper/exec"
	"github.com/jmgilman/go/wrapper/exec/mocks"
	"github.com/jmgilman/go/wrapper/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeChild emulates a child that prints lines and exits with code.
type fakeChild struct {
	lines  []string
	code   int
	err    error
	stdout bytes.Buffer

	name    string
	argLine string
}

func (f *fakeChild) executor() *mocks.ExecutorMock {
	var handler exec.LineHandler
	m := &mocks.ExecutorMock{}
	m.CloneFunc = func() exec.Executor { return m }
	m.WithContextFunc = func(ctx context.Context) exec.Executor { return m }
	m.WithLineHandlerFunc = func(h exec.LineHandler) exec.Executor {
		handler = h
		return m
	}
	m.RunFunc = func(name string, argLine string) (*exec.Result, error) {
		f.name, f.argLine = name, argLine
		if f.err != nil {
			return nil, f.err
		}
		for _, line := range f.lines {
			if handler != nil {
				line = handler(line)
			}
			f.stdout.WriteString(line + "\n")
		}
		return &exec.Result{Lines: len(f.lines), ExitCode: f.code}, nil
	}
	return m
}

func strPtr(s string) *string { return &s }

func testHost() trace.HostFacts {
	return trace.HostFacts{
		Is64BitProcess: true,
		OS:             "linux",
		Arch:           "amd64",
		ProcessorCount: 4,
		BaseDirectory:  "/opt/wrapper",
	}
}

func newRunner(cfg *config.Config, fs billy.Filesystem, e exec.Executor) *wrapper.Runner {
	return wrapper.New(cfg,
		wrapper.WithExecutor(e),
		wrapper.WithFilesystem(fs),
		wrapper.WithWorkDir("/work"),
		wrapper.WithEnviron([]string{"HOME=/home/me"}),
		wrapper.WithCommandLine([]string{"/opt/wrapper/tool", "foo", "baz"}),
		wrapper.WithHostFacts(testHost()),
	)
}

func readTrace(t *testing.T, fs billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_ForwardsArgsAndRewrites(t *testing.T) {
	child := &fakeChild{lines: []string{"foo baz", "plain"}, code: 3}
	cfg := &config.Config{
		Executable:            "echo",
		OutputLinePattern:     "foo",
		OutputLineReplacement: strPtr("bar"),
	}

	code, err := newRunner(cfg, memfs.New(), child.executor()).Run(context.Background(), []string{"foo", "baz"})
	require.NoError(t, err)

	assert.Equal(t, 3, code)
	assert.Equal(t, "echo", child.name)
	assert.Equal(t, "foo baz", child.argLine)
	assert.Equal(t, "bar baz\nplain\n", child.stdout.String())
}

func TestRun_EmptyReplacementDeletesMatches(t *testing.T) {
	child := &fakeChild{lines: []string{"ab-ab-c"}}
	cfg := &config.Config{
		Executable:            "tool",
		OutputLinePattern:     "ab",
		OutputLineReplacement: strPtr(""),
	}

	_, err := newRunner(cfg, memfs.New(), child.executor()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "--c\n", child.stdout.String())
}

func TestRun_PatternWithoutReplacementIsInactive(t *testing.T) {
	child := &fakeChild{lines: []string{"foo"}}
	cfg := &config.Config{Executable: "tool", OutputLinePattern: "foo"}

	_, err := newRunner(cfg, memfs.New(), child.executor()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "foo\n", child.stdout.String())
}

func TestRun_OverrideExitCode(t *testing.T) {
	tests := []struct {
		name     string
		override string
		child    int
		want     int
	}{
		{name: "numeric", override: "0", child: 5, want: 0},
		{name: "negative", override: " -2 ", child: 0, want: -2},
		{name: "non numeric", override: "abc", child: 5, want: 5},
		{name: "blank", override: "", child: 9, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child := &fakeChild{code: tt.child}
			cfg := &config.Config{Executable: "tool", OverridedExitCode: tt.override}

			code, err := newRunner(cfg, memfs.New(), child.executor()).Run(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestRun_NoExecutable(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	m := &mocks.ExecutorMock{}
	cfg := &config.Config{
		OverridedExitCode:    "7",
		TraceCommandLineFile: "/work/run.sh",
		TraceDialect:         "sh",
	}

	code, err := newRunner(cfg, fs, m).Run(context.Background(), []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, 7, code)
	assert.Empty(t, m.RunCalls())

	got := readTrace(t, fs, "/work/00000.run.sh")
	assert.NotContains(t, got, "!!! Override exit code")
	assert.Contains(t, got, "# Configuration.overridedExitCode: 7\n")
	assert.Contains(t, got, "# Exit code: 7\n")
	assert.True(t, strings.HasSuffix(got, "# Output:\n"), "nothing follows the Output marker")
	assert.NotContains(t, got, "# ignored")
}

func TestRun_OverrideNoteInTrace(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	child := &fakeChild{code: 2}
	cfg := &config.Config{
		Executable:           "tool",
		OverridedExitCode:    "0",
		TraceCommandLineFile: "/work/run.bat",
		TraceDialect:         "batch",
	}

	code, err := newRunner(cfg, fs, child.executor()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	got := readTrace(t, fs, "/work/00000.run.bat")
	assert.Contains(t, got, "@REM !!! Override exit code 2 by 0 !!!\r\n@REM Exit code: 0\r\n")
}

func TestRun_NoExecutableNoOverride(t *testing.T) {
	code, err := newRunner(&config.Config{}, memfs.New(), &mocks.ExecutorMock{}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRun_WritesShellTrace(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	child := &fakeChild{lines: []string{"foo baz", "done"}}
	cfg := &config.Config{
		Executable:            "echo",
		OutputLinePattern:     "foo",
		OutputLineReplacement: strPtr("bar"),
		TraceCommandLineFile:  "/work/run.sh",
		TraceDialect:          "sh",
	}

	code, err := newRunner(cfg, fs, child.executor()).Run(context.Background(), []string{"foo", "baz"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	want := strings.Join([]string{
		"#!/bin/sh",
		"cd /work",
		"",
		"export HOME=/home/me",
		"",
		"/opt/wrapper/tool foo baz",
		"",
		"# echo foo baz",
		"",
		"cd - >/dev/null",
		"",
		"# Configuration.executable: echo",
		"# Configuration.overridedExitCode: ",
		"# Configuration.traceCommandLineFile: /work/run.sh",
		"# Configuration.outputLinePattern: foo",
		"# Configuration.outputLineReplacement: bar",
		"# Configuration.traceDialect: sh",
		"# Is64BitProcess: true",
		"# OSVersion: linux/amd64",
		"# ProcessorCount: 4",
		"# BaseDirectory: /opt/wrapper",
		"# ConfigurationFile: ",
		"# Exit code: 0",
		"",
		"# Output:",
		"# !!! Replaced line !!!",
		"# foo baz",
		"# !!! New line !!!",
		"# bar baz",
		"# done",
		"",
	}, "\n")
	assert.Equal(t, want, readTrace(t, fs, "/work/00000.run.sh"))
}

func TestRun_TraceSequenceAdvances(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/00004.RUN.bat", nil, 0o644))
	require.NoError(t, util.WriteFile(fs, "/work/other.bat", nil, 0o644))

	cfg := &config.Config{
		Executable:           "tool",
		TraceCommandLineFile: "/work/run.bat",
		TraceDialect:         "batch",
	}

	for i := 0; i < 2; i++ {
		child := &fakeChild{}
		_, err := newRunner(cfg, fs, child.executor()).Run(context.Background(), nil)
		require.NoError(t, err)
	}

	for _, name := range []string{"/work/00005.run.bat", "/work/00006.run.bat"} {
		got := readTrace(t, fs, name)
		assert.True(t, strings.HasPrefix(got, "@pushd \"/work\"\r\n"), name)
	}
}

func TestRun_RelativeTracePathUsesWorkDir(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	cfg := &config.Config{TraceCommandLineFile: "run.sh", TraceDialect: "sh"}
	_, err := newRunner(cfg, fs, &mocks.ExecutorMock{}).Run(context.Background(), nil)
	require.NoError(t, err)

	_, err = fs.Stat("/work/00000.run.sh")
	assert.NoError(t, err)
}

func TestRun_ConfigErrorsBeforeLaunch(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{
			name: "malformed pattern",
			cfg: &config.Config{
				Executable:            "tool",
				OutputLinePattern:     "(",
				OutputLineReplacement: strPtr("x"),
			},
		},
		{
			name: "unknown dialect",
			cfg: &config.Config{
				Executable:           "tool",
				TraceCommandLineFile: "/work/run.txt",
				TraceDialect:         "powershell",
			},
		},
		{
			name: "missing trace directory",
			cfg: &config.Config{
				Executable:           "tool",
				TraceCommandLineFile: "/missing/run.sh",
				TraceDialect:         "sh",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			require.NoError(t, fs.MkdirAll("/work", 0o755))
			m := &mocks.ExecutorMock{}

			_, err := newRunner(tt.cfg, fs, m).Run(context.Background(), nil)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
			assert.Equal(t, errors.ExitConfig, errors.ExitStatus(err))
			assert.Empty(t, m.RunCalls())
		})
	}
}

func TestRun_LaunchFailure(t *testing.T) {
	child := &fakeChild{err: &exec.ExecError{Command: "missing", ExitCode: -1, Err: stderrors.New("not found")}}
	cfg := &config.Config{Executable: "missing"}

	_, err := newRunner(cfg, memfs.New(), child.executor()).Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeLaunchFailed))
	assert.Equal(t, errors.ExitLaunchFailed, errors.ExitStatus(err))
}

func TestRun_ExecutionFailure(t *testing.T) {
	child := &fakeChild{err: &exec.ExecError{Command: "tool", Started: true, Err: io.ErrClosedPipe}}
	cfg := &config.Config{Executable: "tool"}

	_, err := newRunner(cfg, memfs.New(), child.executor()).Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeExecutionFailed))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

// readOnlyFS refuses to create files.
type readOnlyFS struct {
	billy.Filesystem
}

func (readOnlyFS) OpenFile(string, int, os.FileMode) (billy.File, error) {
	return nil, os.ErrPermission
}

func TestRun_TraceWriteFailure(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("/work", 0o755))

	cfg := &config.Config{
		Executable:           "tool",
		OverridedExitCode:    "4",
		TraceCommandLineFile: "/work/run.sh",
		TraceDialect:         "sh",
	}
	child := &fakeChild{}

	code, err := newRunner(cfg, readOnlyFS{mem}, child.executor()).Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 4, code)
	assert.True(t, errors.HasCode(err, errors.CodeTraceWriteFailed))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, errors.ExitIOError, errors.ExitStatus(err))
}

func TestRun_TraceNameTakenIsNotOverwritten(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("/work", 0o755))

	cfg := &config.Config{
		Executable:           "tool",
		TraceCommandLineFile: "/work/run.sh",
		TraceDialect:         "sh",
	}
	child := &fakeChild{code: 6}
	m := child.executor()
	run := m.RunFunc
	m.RunFunc = func(name, argLine string) (*exec.Result, error) {
		// A concurrent run claims the reserved name.
		require.NoError(t, util.WriteFile(mem, "/work/00000.run.sh", []byte("other"), 0o644))
		return run(name, argLine)
	}

	code, err := newRunner(cfg, mem, m).Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 6, code)
	assert.True(t, errors.HasCode(err, errors.CodeTraceWriteFailed))
	assert.ErrorIs(t, err, os.ErrExist)

	assert.Equal(t, "other", readTrace(t, mem, "/work/00000.run.sh"))
	_, statErr := mem.Stat("/work/00001.run.sh")
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

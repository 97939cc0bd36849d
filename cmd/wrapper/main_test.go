//go:build !windows

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/wrapper/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDeps(env map[string]string) (*deps, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	d := &deps{
		fs: memfs.New(),
		lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		executable: func() (string, error) { return "/opt/bin/tool", nil },
		stdout:     &stdout,
		stderr:     &stderr,
	}
	return d, &stdout, &stderr
}

func TestRun_RewritesChildOutput(t *testing.T) {
	d, stdout, _ := testDeps(map[string]string{
		"WRAPPER_EXECUTABLE":              "echo",
		"WRAPPER_OUTPUT_LINE_PATTERN":     "foo",
		"WRAPPER_OUTPUT_LINE_REPLACEMENT": "bar",
	})

	code := run(d, []string{"foo", "baz"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "bar baz\n", stdout.String())
}

func TestRun_ForwardsFlagsVerbatim(t *testing.T) {
	d, stdout, _ := testDeps(map[string]string{"WRAPPER_EXECUTABLE": "echo"})

	code := run(d, []string{"--help", "-v"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "--help -v\n", stdout.String())
}

func TestRun_ChildExitCode(t *testing.T) {
	d, _, _ := testDeps(map[string]string{"WRAPPER_EXECUTABLE": "sh"})

	code := run(d, []string{"-c", `"exit 3"`})
	assert.Equal(t, 3, code)
}

func TestRun_DiscoversConfigNextToBinary(t *testing.T) {
	d, stdout, _ := testDeps(map[string]string{"WRAPPER_OVERRIDED_EXIT_CODE": "5"})
	require.NoError(t, util.WriteFile(d.fs, "/opt/bin/tool.yaml", []byte("executable: echo\n"), 0o644))

	code := run(d, []string{"hello"})
	assert.Equal(t, 5, code)
	assert.Equal(t, "hello\n", stdout.String())
}

func TestRun_StartupErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want int
	}{
		{
			name: "missing explicit config",
			env:  map[string]string{"WRAPPER_CONFIG": "/etc/missing.yaml"},
			want: errors.ExitConfig,
		},
		{
			name: "bad log level",
			env:  map[string]string{"WRAPPER_LOG_LEVEL": "loud"},
			want: errors.ExitConfig,
		},
		{
			name: "malformed pattern",
			env: map[string]string{
				"WRAPPER_EXECUTABLE":              "echo",
				"WRAPPER_OUTPUT_LINE_PATTERN":     "(",
				"WRAPPER_OUTPUT_LINE_REPLACEMENT": "x",
			},
			want: errors.ExitConfig,
		},
		{
			name: "missing executable",
			env:  map[string]string{"WRAPPER_EXECUTABLE": "definitely-not-a-real-binary-xyz"},
			want: errors.ExitLaunchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, stdout, stderr := testDeps(tt.env)

			code := run(d, []string{"arg"})
			assert.Equal(t, tt.want, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), "wrapper: startup error: ")
		})
	}
}

func TestErrorLabel(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want string
	}{
		{code: errors.CodeInvalidConfig, want: "startup error"},
		{code: errors.CodeNotFound, want: "startup error"},
		{code: errors.CodeLaunchFailed, want: "startup error"},
		{code: errors.CodeExecutionFailed, want: "execution error"},
		{code: errors.CodeTraceWriteFailed, want: "trace error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, errorLabel(errors.New(tt.code, "boom")))
		})
	}
}

func TestRun_TraceFailureIsNotAStartupError(t *testing.T) {
	d, stdout, stderr := testDeps(map[string]string{
		"WRAPPER_EXECUTABLE":              "echo",
		"WRAPPER_TRACE_COMMAND_LINE_FILE": "/work/run.sh",
		"WRAPPER_TRACE_DIALECT":           "sh",
	})
	require.NoError(t, d.fs.MkdirAll("/work", 0o755))
	d.fs = readOnlyFS{d.fs}

	code := run(d, []string{"hi"})
	assert.Equal(t, errors.ExitIOError, code)
	assert.Equal(t, "hi\n", stdout.String())
	assert.Equal(t, 1, strings.Count(stderr.String(), "\n"), "one line per failure")
	assert.Contains(t, stderr.String(), "wrapper: trace error: ")
	assert.NotContains(t, stderr.String(), "startup error")
}

// readOnlyFS refuses to create files.
type readOnlyFS struct {
	billy.Filesystem
}

func (readOnlyFS) OpenFile(string, int, os.FileMode) (billy.File, error) {
	return nil, os.ErrPermission
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	d, _, _ := testDeps(map[string]string{
		"WRAPPER_CONFIG":     "/etc/wrapper.json",
		"WRAPPER_EXECUTABLE": "from-env",
	})
	require.NoError(t, util.WriteFile(d.fs, "/etc/wrapper.json",
		[]byte(`{"executable": "from-file", "overridedExitCode": "2"}`), 0o644))

	cfg, err := loadConfig(d, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Executable)
	assert.Equal(t, "2", cfg.OverridedExitCode)
	assert.Equal(t, "/etc/wrapper.json", cfg.Source)
}

func TestLoadConfig_NoFile(t *testing.T) {
	d, _, _ := testDeps(nil)

	cfg, err := loadConfig(d, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, cfg.HasExecutable())
	assert.Empty(t, cfg.Source)
}

func TestRun_LocalFilesystemRelativePaths(t *testing.T) {
	root := t.TempDir()
	work := filepath.Join(root, "work")
	logs := filepath.Join(root, "logs")
	require.NoError(t, os.MkdirAll(work, 0o755))
	require.NoError(t, os.MkdirAll(logs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cfg.yaml"), []byte(
		"executable: echo\n"+
			"outputLinePattern: foo\n"+
			"outputLineReplacement: bar\n"+
			"traceCommandLineFile: ../logs/run.sh\n"+
			"traceDialect: sh\n"), 0o644))
	t.Chdir(work)

	d, stdout, stderr := testDeps(map[string]string{"WRAPPER_CONFIG": "../cfg.yaml"})
	d.fs = osfs.New("")

	code := run(d, []string{"foo", "baz"})
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "bar baz\n", stdout.String())

	data, err := os.ReadFile(filepath.Join(logs, "00000.run.sh"))
	require.NoError(t, err)
	got := string(data)
	assert.Contains(t, got, "cd "+work+"\n")
	assert.Contains(t, got, "# echo foo baz\n")
	assert.Contains(t, got, "# ConfigurationFile: "+filepath.Join(root, "cfg.yaml")+"\n")
	assert.Contains(t, got, "# !!! Replaced line !!!\n# foo baz\n# !!! New line !!!\n# bar baz\n")
}

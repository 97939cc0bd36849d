// Command wrapper launches a configured executable in its place.
//
// Every argument is forwarded to the child untouched, including ones that
// look like flags. The wrapper is configured through a file next to its
// binary (<binary>.cue, .json, .yaml or .yml), a file named by
// WRAPPER_CONFIG, and WRAPPER_* environment overrides.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/wrapper"
	"github.com/jmgilman/go/wrapper/config"
	"github.com/jmgilman/go/wrapper/errors"
	"github.com/jmgilman/go/wrapper/exec"
	"github.com/jmgilman/go/wrapper/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// deps holds the process-level collaborators of the root command.
type deps struct {
	fs         billy.Filesystem
	lookup     config.LookupFunc
	executable func() (string, error)
	stdout     io.Writer
	stderr     io.Writer
}

func defaultDeps() *deps {
	return &deps{
		fs:         osfs.New(""),
		lookup:     os.LookupEnv,
		executable: os.Executable,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

func init() {
	// The wrapper is often started from Explorer on Windows.
	cobra.MousetrapHelpText = ""
}

func main() {
	os.Exit(run(defaultDeps(), os.Args[1:]))
}

// run executes the root command and returns the process exit status.
func run(d *deps, args []string) int {
	var code int
	cmd := newRootCommand(d, &code)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(d.stderr, "%s: %s: %v\n", cmd.Name(), errorLabel(err), err)
		return errors.ExitStatus(err)
	}
	return code
}

// errorLabel names the phase an error ended the run in. Only configuration
// and launch failures happen before the child has run.
func errorLabel(err error) string {
	switch errors.GetCode(err) {
	case errors.CodeExecutionFailed:
		return "execution error"
	case errors.CodeTraceWriteFailed:
		return "trace error"
	default:
		return "startup error"
	}
}

func newRootCommand(d *deps, code *int) *cobra.Command {
	return &cobra.Command{
		Use:                "wrapper [args...]",
		Short:              "Launch the configured executable with rewritten output",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := d.lookup(config.EnvLogLevel)
			log, err := logging.New(level)
			if err != nil {
				return errors.WrapWithContext(err, errors.CodeInvalidConfig, "invalid log level",
					map[string]interface{}{"env": config.EnvLogLevel})
			}
			defer func() { _ = log.Sync() }()

			cfg, err := loadConfig(d, log)
			if err != nil {
				log.Debug("failed to load configuration", zap.Error(err))
				return err
			}

			runner := wrapper.New(cfg,
				wrapper.WithExecutor(exec.New(exec.WithStdout(d.stdout))),
				wrapper.WithFilesystem(d.fs),
				wrapper.WithLogger(log),
			)

			c, err := runner.Run(cmd.Context(), args)
			if err != nil {
				log.Debug("wrapped run failed", zap.Error(err))
				return err
			}

			*code = c
			return nil
		},
	}
}

// loadConfig reads the file named by WRAPPER_CONFIG, or else the first file
// found next to the binary, and applies environment overrides on top. No
// file at all yields an empty configuration.
func loadConfig(d *deps, log *zap.Logger) (*config.Config, error) {
	loader := config.NewLoader(d.fs, log)

	cfg := &config.Config{}
	if path, ok := d.lookup(config.EnvConfigFile); ok && strings.TrimSpace(path) != "" {
		loaded, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if binary, err := d.executable(); err != nil {
		log.Debug("cannot locate own binary, skipping config discovery", zap.Error(err))
	} else {
		path, err := loader.Discover(binary)
		if err != nil {
			return nil, err
		}
		if path != "" {
			loaded, err := loader.Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else {
			log.Debug("no configuration file found", zap.String("binary", filepath.Base(binary)))
		}
	}

	config.ApplyEnv(cfg, d.lookup)
	return cfg, nil
}

// Package wrapper implements a transparent subprocess launcher.
//
// A Runner forwards its arguments to a configured executable, streams the
// child's standard output back line by line (optionally rewriting lines that
// match a pattern), resolves the final exit code against an optional override
// and, when asked, writes a replay script describing the whole run.
//
//	cfg := &config.Config{Executable: "echo"}
//	code, err := wrapper.New(cfg).Run(ctx, os.Args[1:])
//	if err != nil {
//		os.Exit(errors.ExitStatus(err))
//	}
//	os.Exit(code)
//
// The run is strictly sequential: output is drained before the child is
// waited on, and the trace is written only after the exit code is known.
// There is no timeout; a child that never exits blocks Run.
package wrapper

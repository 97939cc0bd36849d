// Package exec launches a child process and streams its standard output line by line.
//
// This package wraps the standard library's os/exec. The Command struct implements
// the Executor interface; following the "accept interfaces, return structs" idiom,
// callers depend on Executor so orchestration code can be tested with the
// generated mock in the mocks package.
//
// # Basic Usage
//
// Run a command, forwarding a single argument string:
//
//	exec := exec.New()
//	result, err := exec.Run("echo", "hello world")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.ExitCode) // 0
//
// A non-zero exit status is not an error: it is reported in Result.ExitCode.
// Errors are returned only when the child could not be started or its output
// could not be streamed.
//
// # Line Handling
//
// Standard output is read strictly line by line, without a line-length limit.
// Every line passes through the configured LineHandler and the returned text is
// written to the stdout writer immediately, followed by a newline:
//
//	result, err := exec.
//		WithLineHandler(func(line string) string {
//			return strings.ToUpper(line)
//		}).
//		Run("printf", "a\\nb")
//
// Standard error and standard input stay connected to this process unless
// WithStderr or WithStdin replace them.
//
// # Argument Forwarding
//
// The argument string is passed verbatim. On Windows it becomes the tail of the
// child's command line. Elsewhere it is split into argv with SplitArgs, which
// follows the Windows command-line rules: whitespace separates arguments, double
// quotes group them and backslashes escape only quotes.
//
// # Command Wrappers
//
// A CommandWrapper binds an executable name so callers only supply arguments:
//
//	target := exec.NewWrapper(exec.New(), "/usr/bin/tool")
//	result, err := target.Run("--version")
package exec

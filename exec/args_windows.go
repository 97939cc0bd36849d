//go:build windows

package exec

import (
	osexec "os/exec"
	"syscall"
)

// setArgs hands the argument string to the child untouched, the way
// CreateProcess expects it.
func setArgs(cmd *osexec.Cmd, argLine string) {
	line := syscall.EscapeArg(cmd.Args[0])
	if argLine != "" {
		line += " " + argLine
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: line}
}

//go:build !windows

package exec

import osexec "os/exec"

func setArgs(cmd *osexec.Cmd, argLine string) {
	cmd.Args = append(cmd.Args[:1], SplitArgs(argLine)...)
}

package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// HostFacts describes the process and machine the run happened on.
type HostFacts struct {
	Is64BitProcess    bool
	OS                string
	Arch              string
	ProcessorCount    int
	BaseDirectory     string
	ConfigurationFile string
}

// CollectHost gathers facts about the current process.
func CollectHost(configFile string) HostFacts {
	facts := HostFacts{
		Is64BitProcess:    strconv.IntSize == 64,
		OS:                runtime.GOOS,
		Arch:              runtime.GOARCH,
		ProcessorCount:    runtime.NumCPU(),
		ConfigurationFile: configFile,
	}
	if exe, err := os.Executable(); err == nil {
		facts.BaseDirectory = filepath.Dir(exe)
	}
	return facts
}

// Lines renders the facts as "Name: value" lines.
func (h HostFacts) Lines() []string {
	return []string{
		fmt.Sprintf("Is64BitProcess: %t", h.Is64BitProcess),
		fmt.Sprintf("OSVersion: %s/%s", h.OS, h.Arch),
		fmt.Sprintf("ProcessorCount: %d", h.ProcessorCount),
		fmt.Sprintf("BaseDirectory: %s", h.BaseDirectory),
		fmt.Sprintf("ConfigurationFile: %s", h.ConfigurationFile),
	}
}

package trace

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/wrapper/errors"
)

// Namer computes collision-free trace file paths.
type Namer struct {
	fs      billy.Filesystem
	workDir string
}

// NewNamer creates a Namer. Relative configured paths are resolved against
// workDir.
func NewNamer(fs billy.Filesystem, workDir string) *Namer {
	return &Namer{
		fs:      fs,
		workDir: workDir,
	}
}

// Next returns <dir>/<NNNNN>.<file> for the configured path <dir>/<file>, where
// NNNNN is one more than the highest sequence number already used by a
// sibling named <digits>.<file> (case-insensitive), or 00000 if none exists.
//
// A blank configured path returns "" (tracing disabled). A directory that
// cannot be listed is a configuration error.
func (n *Namer) Next(configured string) (string, error) {
	if strings.TrimSpace(configured) == "" {
		return "", nil
	}

	dir, file := filepath.Split(configured)
	if file == "" {
		return "", errors.WithContext(
			errors.New(errors.CodeInvalidConfig, "traceCommandLineFile has no file name"),
			"traceCommandLineFile", configured,
		)
	}
	switch {
	case dir == "":
		dir = n.workDir
	case filepath.IsAbs(dir):
		dir = filepath.Clean(dir)
	default:
		// Relative directories may climb above workDir ("../logs"); the
		// filesystem only ever sees the absolute result.
		dir = filepath.Join(n.workDir, dir)
	}

	entries, err := n.fs.ReadDir(dir)
	if err != nil {
		return "", errors.WrapWithContext(
			err,
			errors.CodeInvalidConfig,
			"failed to list trace directory",
			map[string]interface{}{"dir": dir},
		)
	}

	re := regexp2.MustCompile(`^(\d+)\.`+regexp2.Escape(file)+`$`, regexp2.IgnoreCase)

	highest := int64(-1)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, err := re.FindStringMatch(entry.Name())
		if err != nil || m == nil {
			continue
		}
		seq, err := strconv.ParseInt(m.GroupByNumber(1).String(), 10, 32)
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}

	return filepath.Join(dir, fmt.Sprintf("%05d.%s", highest+1, file)), nil
}

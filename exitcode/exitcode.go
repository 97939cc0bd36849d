// Package exitcode decides the status the wrapper terminates with.
package exitcode

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolution is the outcome of combining the child's exit code with the
// configured override.
type Resolution struct {
	// Code is the final exit code.
	Code int

	// Overridden reports whether the override setting was applied.
	Overridden bool

	// Notes records decisions worth surfacing in the trace, in order.
	Notes []string
}

// Resolve combines child (nil when no process ran) with override.
//
// An override that parses as a 32-bit integer always wins, even when no child
// ran; superseding a real exit code adds a note. Anything else, including a
// blank override, is ignored and the child's code (or 0) is used. Resolve
// never fails.
func Resolve(child *int, override string) Resolution {
	value, ok := ParseOverride(override)
	if !ok {
		code := 0
		if child != nil {
			code = *child
		}
		return Resolution{Code: code}
	}

	res := Resolution{
		Code:       value,
		Overridden: true,
	}
	if child != nil {
		res.Notes = append(res.Notes, fmt.Sprintf("!!! Override exit code %d by %d !!!", *child, value))
	}
	return res
}

// ParseOverride parses an override setting. Surrounding whitespace and a
// leading sign are accepted.
func ParseOverride(s string) (int, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

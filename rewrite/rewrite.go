// Package rewrite implements the per-line output substitution applied to the
// child's standard output.
//
// Patterns use .NET regular expression syntax through regexp2, so replacement
// strings accept $1, ${name}, $& and $$ exactly as the configuration authors
// expect. Matching is case-sensitive and single-line.
package rewrite

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/jmgilman/go/wrapper/errors"
)

// Rewriter applies a compiled pattern/replacement pair to individual lines.
// The zero value and a nil *Rewriter are valid and never rewrite anything.
type Rewriter struct {
	re          *regexp2.Regexp
	replacement string
}

// New compiles pattern into a Rewriter.
//
// Rewriting is enabled only when pattern is not blank and replacement is
// non-nil; an empty replacement is valid and deletes the matched text. A
// malformed pattern fails here with CodeInvalidConfig rather than on first use.
func New(pattern string, replacement *string) (*Rewriter, error) {
	if strings.TrimSpace(pattern) == "" || replacement == nil {
		return &Rewriter{}, nil
	}

	re, err := regexp2.Compile(pattern, regexp2.Singleline)
	if err != nil {
		return nil, errors.WrapWithContext(
			err,
			errors.CodeInvalidConfig,
			"outputLinePattern is not a valid regular expression",
			map[string]interface{}{"pattern": pattern},
		)
	}

	return &Rewriter{
		re:          re,
		replacement: *replacement,
	}, nil
}

// Enabled reports whether the rewriter has an active pattern.
func (r *Rewriter) Enabled() bool {
	return r != nil && r.re != nil
}

// Apply rewrites line when the pattern matches anywhere in it.
// Every match is substituted. The second result reports whether a rewrite
// happened; unmatched lines are returned unchanged.
func (r *Rewriter) Apply(line string) (string, bool) {
	if !r.Enabled() {
		return line, false
	}

	matched, err := r.re.MatchString(line)
	if err != nil || !matched {
		return line, false
	}

	out, err := r.re.Replace(line, r.replacement, -1, -1)
	if err != nil {
		return line, false
	}

	return out, true
}

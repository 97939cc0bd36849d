package exec

import "strings"

// SplitArgs splits a command-line string into arguments using the Windows
// command-line conventions:
//
//   - spaces and tabs separate arguments outside double quotes
//   - double quotes group text and are removed; "" inside quotes is a literal quote
//   - 2n backslashes followed by a quote yield n backslashes and toggle quoting
//   - 2n+1 backslashes followed by a quote yield n backslashes and a literal quote
//   - backslashes not followed by a quote are literal
func SplitArgs(s string) []string {
	var args []string
	i := 0

	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			return args
		}

		var b strings.Builder
		inQuotes := false

	arg:
		for i < len(s) {
			switch c := s[i]; {
			case c == '\\':
				n := 0
				for i < len(s) && s[i] == '\\' {
					n++
					i++
				}
				if i < len(s) && s[i] == '"' {
					b.WriteString(strings.Repeat(`\`, n/2))
					if n%2 == 1 {
						b.WriteByte('"')
						i++
					}
				} else {
					b.WriteString(strings.Repeat(`\`, n))
				}
			case c == '"':
				if inQuotes && i+1 < len(s) && s[i+1] == '"' {
					b.WriteByte('"')
					i += 2
					continue
				}
				inQuotes = !inQuotes
				i++
			case (c == ' ' || c == '\t') && !inQuotes:
				break arg
			default:
				b.WriteByte(c)
				i++
			}
		}

		args = append(args, b.String())
	}
}

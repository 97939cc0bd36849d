package exec

import (
	"bufio"
	"io"
	"strings"
)

// streamLines reads r until EOF, passing every line through h and writing the
// result to w as soon as it is complete. A final line without a terminator is
// still delivered.
//
// A write failure does not stop reading: the child must keep being drained, so
// the first write error is returned once the stream ends.
func streamLines(r io.Reader, w io.Writer, h LineHandler) (int, error) {
	br := bufio.NewReader(r)

	var (
		count    int
		writeErr error
	)

	for {
		raw, err := br.ReadString('\n')
		if len(raw) > 0 {
			count++
			line := trimEOL(raw)
			if h != nil {
				line = h(line)
			}
			if writeErr == nil && w != nil {
				_, writeErr = io.WriteString(w, line+"\n")
			}
		}

		if err == io.EOF {
			return count, writeErr
		}
		if err != nil {
			return count, err
		}
	}
}

// trimEOL removes a trailing "\n" or "\r\n".
func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

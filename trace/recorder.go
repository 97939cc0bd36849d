package trace

// Markers surrounding a rewritten line in the output trace.
const (
	MarkerReplaced = "!!! Replaced line !!!"
	MarkerNew      = "!!! New line !!!"
)

// Recorder accumulates the output trace of a run in order.
// It is not safe for concurrent use; the runner feeds it from a single goroutine.
type Recorder struct {
	lines []string
}

// Line records an output line that was echoed unchanged.
func (r *Recorder) Line(line string) {
	r.lines = append(r.lines, line)
}

// Rewrite records a line that was replaced before being echoed.
func (r *Recorder) Rewrite(original, replaced string) {
	r.lines = append(r.lines, MarkerReplaced, original, MarkerNew, replaced)
}

// Record dispatches to Line or Rewrite.
func (r *Recorder) Record(original, output string, rewritten bool) {
	if rewritten {
		r.Rewrite(original, output)
		return
	}
	r.Line(original)
}

// Lines returns a copy of the recorded trace.
func (r *Recorder) Lines() []string {
	return append([]string(nil), r.lines...)
}

// Len returns the number of recorded trace entries.
func (r *Recorder) Len() int {
	return len(r.lines)
}

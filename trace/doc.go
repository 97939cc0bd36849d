// Package trace produces the optional replay script written after a run.
//
// A trace file is simultaneously a diagnostic report and a script: the
// working-directory change, the environment assignments and the original
// command line are live directives, while everything else (configuration,
// host facts, notes, exit code and the full output trace) is emitted as
// comments. Two dialects exist, Windows batch and POSIX sh.
//
// Trace files never overwrite earlier runs. Namer scans the target directory
// for siblings named <digits>.<file> and picks the next sequence number, and
// Writer creates the file exclusively.
package trace

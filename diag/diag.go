// Package diag carries non-fatal warnings out of the schema algebra without
// the core ever performing I/O itself. Core functions take a *Log (nil-safe,
// the same pattern the teacher threads an optional *EventLog through
// infer/parsesamplebody.go) and append to it; only the CLI boundary decides
// what to do with the accumulated warnings.
package diag

import "fmt"

// Log accumulates warning messages produced while merging or parsing. A nil
// *Log is valid everywhere Warn is called; it simply discards the message.
type Log struct {
	Warnings []string
}

// Warn records a formatted warning. Safe to call on a nil *Log.
func (l *Log) Warn(format string, args ...any) {
	if l == nil {
		return
	}
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

// Flush returns the accumulated warnings and clears the log.
func (l *Log) Flush() []string {
	if l == nil {
		return nil
	}
	w := l.Warnings
	l.Warnings = nil
	return w
}

// Append adds msgs to l as-is, with no formatting. Used to fold a
// worker-local Log's warnings into a caller's Log after the worker has
// finished running, never while it is still running. Safe to call on a nil
// *Log.
func (l *Log) Append(msgs []string) {
	if l == nil || len(msgs) == 0 {
		return
	}
	l.Warnings = append(l.Warnings, msgs...)
}

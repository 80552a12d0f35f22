// Package diag defines the diagnostics callback accepted by long-running
// operations. There is no package-level logger; callers that want output
// pass a Logger explicitly.
package diag

import "fmt"

// Logger receives diagnostic messages from operations that accept one
type Logger interface {
	// Debugf reports fine-grained progress
	Debugf(format string, args ...any)

	// Warnf reports recoverable oddities
	Warnf(format string, args ...any)
}

// NullLogger discards all messages
type NullLogger struct{}

// Debugf discards the message
func (NullLogger) Debugf(format string, args ...any) {}

// Warnf discards the message
func (NullLogger) Warnf(format string, args ...any) {}

// Func adapts a plain message sink to the Logger interface. Messages are
// prefixed with their level.
type Func func(msg string)

// Debugf formats the message and forwards it with a debug prefix
func (f Func) Debugf(format string, args ...any) {
	f("debug: " + fmt.Sprintf(format, args...))
}

// Warnf formats the message and forwards it with a warn prefix
func (f Func) Warnf(format string, args ...any) {
	f("warn: " + fmt.Sprintf(format, args...))
}

var _ Logger = NullLogger{}
var _ Logger = Func(nil)

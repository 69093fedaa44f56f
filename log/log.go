// Package log provides the caller-supplied logging sink that spec.md §7
// requires for Fatal-class failures (e.g. a dispose-time inability to
// restore tty settings) and other non-fatal warnings: they are logged,
// never thrown from a drop/dispose path.
//
// This directly generalizes the teacher's single
// fmt.Fprintf(os.Stderr, "Warning: ...") call in
// AhnafCodes-basementui/go/tui/screen.go (NewScreen) into an injectable
// interface, rather than adopting a third-party structured-logging
// library: none of the retrieved example repos import one directly (see
// DESIGN.md).
package log

import (
	"fmt"
	"log"
	"os"
)

// Sink receives warnings and errors that the core must report but cannot
// return as an error (e.g. from a destructor, or from a background
// worker).
type Sink interface {
	Warn(msg string, kv ...any)
	Error(msg string, err error, kv ...any)
}

// stderrSink is the default Sink, writing through the standard library's
// log package to os.Stderr.
type stderrSink struct {
	logger *log.Logger
}

// NewStderrSink returns the default Sink, used whenever an embedding
// application does not supply its own.
func NewStderrSink() Sink {
	return &stderrSink{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *stderrSink) Warn(msg string, kv ...any) {
	s.logger.Print("WARN: " + format(msg, kv))
}

func (s *stderrSink) Error(msg string, err error, kv ...any) {
	line := "ERROR: " + format(msg, kv)
	if err != nil {
		line += ": " + err.Error()
	}
	s.logger.Print(line)
}

func format(msg string, kv []any) string {
	if len(kv) == 0 {
		return msg
	}
	out := msg
	for i := 0; i+1 < len(kv); i += 2 {
		out += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	return out
}

// Nop is a Sink that discards everything, useful in tests.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Warn(string, ...any)        {}
func (nopSink) Error(string, error, ...any) {}

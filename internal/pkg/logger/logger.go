package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// Debug and Info are only emitted in verbose mode; warnings and errors are
// always shown because they tell the user something was substituted.
type StdLogger struct {
	verbose bool
	fields  map[string]interface{}
	out     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return New(os.Stderr, verbose)
}

// New creates a StdLogger writing to w.
func New(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		out:     log.New(w, "sllm: ", 0),
	}
}

// With returns a logger that adds fields to every line.
func (l *StdLogger) With(fields map[string]interface{}) *StdLogger {
	return &StdLogger{verbose: l.verbose, fields: l.merge(fields), out: l.out}
}

// SetVerbose toggles Debug and Info output.
func (l *StdLogger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[DEBUG]", msg, l.merge(fields))
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("[INFO]", msg, l.merge(fields))
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	if l.verbose {
		l.out.Println("[WARN]", msg, l.merge(fields))
		return
	}
	l.out.Println("WARNING:", msg)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if l.verbose {
		l.out.Println("[ERROR]", msg, err, l.merge(fields))
		return
	}
	l.out.Println("ERROR:", msg)
}

func (l *StdLogger) merge(fields map[string]interface{}) map[string]interface{} {
	if len(l.fields) == 0 {
		return fields
	}
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

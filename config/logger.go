package config

import (
	"fmt"
	"io"
)

// Logger is what the editor, server and CLI print diagnostics through.
type Logger interface {
	Printf(format string, a ...any)
}

// DebugLogger only prints when enabled.
type DebugLogger struct {
	enabled bool
	w       io.Writer
}

func NewDebugLogger(enabled bool, w io.Writer) *DebugLogger {
	return &DebugLogger{enabled: enabled, w: w}
}

func (d *DebugLogger) Printf(format string, a ...any) {
	if d.enabled {
		fmt.Fprintf(d.w, format, a...)
	}
}

func (d *DebugLogger) Enabled() bool {
	return d.enabled
}

// Discard drops everything.
var Discard Logger = NewDebugLogger(false, io.Discard)

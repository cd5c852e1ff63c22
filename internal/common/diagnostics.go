package common

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Diagnostic is one recorded warning or notice.
type Diagnostic struct {
	Attrs   map[string]any
	Message string
	Level   slog.Level
}

func (d Diagnostic) String() string {
	if len(d.Attrs) == 0 {
		return d.Message
	}
	return fmt.Sprintf("%s %v", d.Message, d.Attrs)
}

// Diagnostics collects warnings raised while a stage runs so callers can
// inspect them after the fact. Every entry is also sent to the logger.
// A nil *Diagnostics only logs.
type Diagnostics struct {
	logger  *slog.Logger
	entries []Diagnostic
	mu      sync.Mutex
}

// NewDiagnostics creates a collector that logs through logger
// (slog.Default when nil).
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Diagnostics{logger: logger}
}

// Warn records a warning. args are slog-style key/value pairs.
func (d *Diagnostics) Warn(msg string, args ...any) {
	d.record(slog.LevelWarn, msg, args)
}

// Info records an informational notice.
func (d *Diagnostics) Info(msg string, args ...any) {
	d.record(slog.LevelInfo, msg, args)
}

func (d *Diagnostics) record(level slog.Level, msg string, args []any) {
	if d == nil {
		slog.Default().Log(context.Background(), level, msg, args...)
		return
	}
	d.logger.Log(context.Background(), level, msg, args...)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, Diagnostic{
		Level:   level,
		Message: msg,
		Attrs:   attrsToMap(args),
	})
}

// Entries returns a copy of everything recorded so far.
func (d *Diagnostics) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}

// Warnings returns only the warning-level entries.
func (d *Diagnostics) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, entry := range d.Entries() {
		if entry.Level >= slog.LevelWarn {
			out = append(out, entry)
		}
	}
	return out
}

func attrsToMap(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	attrs := make(map[string]any, len(args)/2)
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "", 0)
	r.Add(args...)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	return attrs
}

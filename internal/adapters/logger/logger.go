// Package logger implements ports.Logger on top of log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/portable/internal/core/ports"
)

// messager is implemented by zerr errors: the message of one link without its cause.
type messager interface {
	Message() string
}

// metadataer is implemented by zerr errors carrying key/value context.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain as it is printed.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

var _ ports.Logger = (*Logger)(nil)

// New creates a Logger writing human-readable lines to os.Stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.logger = slog.New(l.handler())
	return l
}

// SetOutput changes where log lines go. A nil w restores os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.handler())
}

// SetJSON switches between JSON and pretty output, keeping the destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.handler())
}

// handler builds the slog handler for the current mode. Callers hold l.mu.
func (l *Logger) handler() slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return NewPrettyHandler(l.output, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain. In JSON mode the chain is a single attribute.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err.Error())
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the zerr chain. A link without a message of its own
// (zerr.With on a plain error) contributes only its metadata, which is folded
// into the previous entry, or the next one when it heads the chain.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; current = errors.Unwrap(current) {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}

		var meta map[string]any
		if md, ok := current.(metadataer); ok {
			meta = md.Metadata()
		}

		if m.Message() != "" {
			if pending != nil {
				if meta == nil {
					meta = map[string]any{}
				}
				maps.Copy(meta, pending)
				pending = nil
			}
			entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
			continue
		}

		if len(entries) > 0 {
			last := &entries[len(entries)-1]
			if last.Metadata == nil {
				last.Metadata = map[string]any{}
			}
			maps.Copy(last.Metadata, meta)
			continue
		}
		if pending == nil {
			pending = map[string]any{}
		}
		maps.Copy(pending, meta)
	}

	return entries
}

// formatErrorEntries renders entries as an "Error:" line followed by a
// "Caused by:" list. Metadata is printed under its entry, sorted by key.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		prefix, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			prefix, indent = "    → ", "      "
		}

		lines = append(lines, prefix+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, indent+key+": "+formatValue(entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}

func formatValue(v any) string {
	return slog.AnyValue(v).String()
}

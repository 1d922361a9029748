package log

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// FormatterHandler adapts a LogFormatter to slog.Handler, so NewWithHandler
// callers can choose TextFormatter, JSONFormatter, or ColorFormatter instead
// of slog's built-in JSON/text handlers. This is the bridge that makes the
// formatter types in this package reachable from Logger.
type FormatterHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	formatter LogFormatter
	minLevel  slog.Level
	attrs     map[string]interface{}
}

// NewFormatterHandler builds a handler writing to w through formatter, only
// passing records at or above minLevel.
func NewFormatterHandler(w io.Writer, formatter LogFormatter, minLevel slog.Level) *FormatterHandler {
	return &FormatterHandler{
		mu:        &sync.Mutex{},
		w:         w,
		formatter: formatter,
		minLevel:  minLevel,
		attrs:     map[string]interface{}{},
	}
}

func (h *FormatterHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *FormatterHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(map[string]interface{}, len(h.attrs)+record.NumAttrs())
	for k, v := range h.attrs {
		fields[k] = v
	}
	record.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})

	entry := LogEntry{
		Timestamp: record.Time,
		Level:     slogLevelToLogLevel(record.Level),
		Message:   record.Message,
		Fields:    fields,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, h.formatter.Format(entry)+"\n")
	return err
}

func (h *FormatterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make(map[string]interface{}, len(h.attrs)+len(attrs))
	for k, v := range h.attrs {
		merged[k] = v
	}
	for _, a := range attrs {
		merged[a.Key] = a.Value.Any()
	}
	return &FormatterHandler{mu: h.mu, w: h.w, formatter: h.formatter, minLevel: h.minLevel, attrs: merged}
}

func (h *FormatterHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened: this package's formatters have no concept of
	// nested scopes, so attrs added under a group still surface as top-level
	// fields on the next Handle call.
	return h
}

func slogLevelToLogLevel(level slog.Level) LogLevel {
	switch {
	case level < slog.LevelInfo:
		return DEBUG
	case level < slog.LevelWarn:
		return INFO
	case level < slog.LevelError:
		return WARN
	default:
		return ERROR
	}
}

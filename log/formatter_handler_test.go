package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestFormatterHandlerWritesThroughFormatter(t *testing.T) {
	var buf bytes.Buffer
	h := NewFormatterHandler(&buf, &TextFormatter{}, slog.LevelInfo)
	logger := NewWithHandler(h)

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "key=value") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestFormatterHandlerRespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewFormatterHandler(&buf, &TextFormatter{}, slog.LevelWarn)
	logger := NewWithHandler(h)

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below min level, got %q", buf.String())
	}

	logger.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn message, got %q", buf.String())
	}
}

func TestFormatterHandlerModuleAttrsSurface(t *testing.T) {
	var buf bytes.Buffer
	h := NewFormatterHandler(&buf, &JSONFormatter{}, slog.LevelInfo)
	logger := NewWithHandler(h).Module("chain")

	logger.Info("appended")
	if !strings.Contains(buf.String(), `"module":"chain"`) {
		t.Fatalf("expected module attr in output, got %q", buf.String())
	}
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlePlain(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &Options{Level: slog.LevelInfo})
	log := slog.New(h)

	log.Info("Tweet posted", "id", "123")

	out := buf.String()
	if !strings.Contains(out, "INF Tweet posted id=123") {
		t.Errorf("output = %q, want inline attrs", out)
	}
}

func TestBlockAttrsRenderBelowLine(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &Options{Level: slog.LevelInfo})
	log := slog.New(h)

	log.Info("Reply sent", "tweet", "line one\nline two")

	out := buf.String()
	if strings.Contains(out, "tweet=") {
		t.Errorf("tweet text rendered inline: %q", out)
	}
	if !strings.Contains(out, "| line one") || !strings.Contains(out, "| line two") {
		t.Errorf("output = %q, want indented block lines", out)
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &Options{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug enabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error not enabled at warn level")
	}
}

func TestWithAttrsCarriesOver(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &Options{Level: slog.LevelInfo})
	log := slog.New(h).With("handle", "alice")

	log.Info("Mention handled")

	if !strings.Contains(buf.String(), "handle=alice") {
		t.Errorf("output = %q, want bound attr", buf.String())
	}
}

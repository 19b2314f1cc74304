package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"Loadline/internal/config"
)

func TestBuffer_DropsOldest(t *testing.T) {
	b := NewBuffer(2)
	b.Add(Entry{Message: "one"})
	b.Add(Entry{Message: "two"})
	b.Add(Entry{Message: "three"})

	got := b.Entries(nil)
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[0].Message != "two" || got[1].Message != "three" {
		t.Errorf("entries = %+v; want two, three", got)
	}
}

func TestBuffer_FilterByLevel(t *testing.T) {
	b := NewBuffer(10)
	b.Add(Entry{Level: "INFO", Message: "a"})
	b.Add(Entry{Level: "ERROR", Message: "b"})

	got := b.Entries([]string{"error"})
	if len(got) != 1 || got[0].Message != "b" {
		t.Errorf("Entries(error) = %+v; want only b", got)
	}

	b.Clear()
	if n := len(b.Entries(nil)); n != 0 {
		t.Errorf("after Clear len = %d; want 0", n)
	}
}

func TestNew_ProdWritesJSONAndTees(t *testing.T) {
	cfg := config.Default()
	cfg.AppEnv = "prod"
	cfg.LogLevel = slog.LevelInfo

	var out bytes.Buffer
	buf := NewBuffer(5)
	logger := New(cfg, &out, "loadline", buf)

	logger.Info("stage failed", "stage", "dimensions")
	logger.Debug("hidden")

	var rec map[string]any
	line := strings.TrimSpace(out.String())
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("output is not one JSON line: %q (%v)", line, err)
	}
	if rec["app"] != "loadline" || rec["stage"] != "dimensions" {
		t.Errorf("record = %v", rec)
	}

	entries := buf.Entries(nil)
	if len(entries) != 1 {
		t.Fatalf("buffer len = %d; want 1", len(entries))
	}
	if entries[0].Message != "stage failed" || entries[0].Fields["stage"] != "dimensions" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestNew_BufferKeepsWithAttrs(t *testing.T) {
	cfg := config.Default()
	cfg.AppEnv = "prod"

	buf := NewBuffer(5)
	logger := New(cfg, io.Discard, "loadline", buf).With("component", "backend")
	logger.WithGroup("req").With("path", "/location").Info("call", "status", 500)

	entries := buf.Entries(nil)
	if len(entries) != 1 {
		t.Fatalf("buffer len = %d; want 1", len(entries))
	}
	want := map[string]string{
		"app":        "loadline",
		"component":  "backend",
		"req.path":   "/location",
		"req.status": "500",
	}
	for k, v := range want {
		if got := entries[0].Fields[k]; got != v {
			t.Errorf("Fields[%q] = %q; want %q", k, got, v)
		}
	}
}

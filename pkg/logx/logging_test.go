package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestZeroLoggerIsNoop(t *testing.T) {
	t.Parallel()
	var l Logger
	if !l.IsZero() {
		t.Fatal("zero logger should report IsZero")
	}
	l.Error("ignored", String("k", "v"))
	if Nop().IsZero() {
		t.Fatal("Nop logger is not zero")
	}
}

func TestNewJSONFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewJSON(&buf, "debug").With(String("comp", "test"))
	l.Warn("delivery failed", Int("attempt", 1), Err(errors.New("boom")), Stack(""))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if m["level"] != "warn" || m["message"] != "delivery failed" || m["comp"] != "test" || m["err"] != "boom" {
		t.Fatalf("unexpected entry %v", m)
	}
	if _, ok := m["stack"]; ok {
		t.Fatal("empty stack should be omitted")
	}
	if c, _ := m["caller"].(string); !strings.HasPrefix(c, "logging_test.go:") {
		t.Fatalf("unexpected caller %q", c)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewJSON(&buf, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info leaked at warn level: %q", buf.String())
	}
	if l.Enabled(LevelInfo) || !l.Enabled(LevelError) {
		t.Fatal("Enabled disagrees with the configured level")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{" WARNING ", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, ok)
		}
	}
}

func TestServiceApplyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "wconsole.log")
	svc, log := New(Config{Level: "info", File: FileConfig{Enabled: true, Path: path}})
	defer svc.Close()

	log.Info("to file", String("k", "v"))
	if err := svc.Apply(Config{Level: "error", File: FileConfig{Enabled: true, Path: path}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	log.Info("filtered")
	log.Error("kept")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"to file"`) || !strings.Contains(out, `"kept"`) || strings.Contains(out, "filtered") {
		t.Fatalf("unexpected file content:\n%s", out)
	}
	if svc.Config().Level != "error" {
		t.Fatalf("Config() not updated: %+v", svc.Config())
	}
}

func TestServiceApplyBadFile(t *testing.T) {
	t.Parallel()
	svc, _ := New(Config{Level: "info"})
	defer svc.Close()
	bad := filepath.Join(t.TempDir(), "missing", "dir", "x.log")
	if err := svc.Apply(Config{File: FileConfig{Enabled: true, Path: bad}}); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}

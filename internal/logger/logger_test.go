package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := New(Config{Dir: dir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("hello", "keyword", "milk")

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected log file to contain message, got %q", string(data))
	}
}

func TestNew_DebugMirrorsToStderr(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Config{Debug: true, Stderr: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Debug("dispatching", "kind", "offline")

	if !strings.Contains(buf.String(), "dispatching") {
		t.Errorf("expected debug output on stderr, got %q", buf.String())
	}
}

func TestNew_NoSinks(t *testing.T) {
	l, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if l == nil {
		t.Fatal("expected a non-nil logger")
	}
	l.Error("dropped")
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("expected discard logger for nil input")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Error("expected OrDiscard to return the given logger")
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := WithContext(context.Background(), l)

	if FromContext(ctx) != l {
		t.Error("expected the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("expected a discard logger for a bare context")
	}
}

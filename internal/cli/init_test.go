package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSetupLoggerToHonoursEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	logger := SetupLoggerTo(&buf, "test")
	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if m["msg"] != "kept" || m["component"] != "test" {
		t.Fatalf("unexpected record %v", m)
	}
}

func TestSetupLoggerToTextFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	SetupLoggerTo(&buf, "cli").Info("hello")
	if !bytes.Contains(buf.Bytes(), []byte("msg=hello")) {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

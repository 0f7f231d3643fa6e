package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("workflow.aborted", map[string]any{
		"workflow": "review",
		"error":    errors.New("storage unavailable"),
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if payload["level"] != "warn" || payload["msg"] != "workflow.aborted" {
		t.Fatalf("unexpected level/msg: %v", payload)
	}
	if payload["error"] != "storage unavailable" {
		t.Fatalf("expected error rendered as string, got %v", payload["error"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}

func TestReservedFieldsWin(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("real", map[string]any{"msg": "spoofed", "level": "error"})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["msg"] != "real" || payload["level"] != "info" {
		t.Fatalf("reserved fields overwritten: %v", payload)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if WithRequestID(ctx, "") != ctx {
		t.Fatalf("empty id should leave ctx unchanged")
	}
}

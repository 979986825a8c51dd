package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerRedactsSecretsAndHashesIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("check", "authorization", "Bearer abc", "user_id", "u-1", "item", "milk")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: want=1 got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["authorization"]; got != "[REDACTED]" {
		t.Fatalf("authorization: want=[REDACTED] got=%v", got)
	}
	uid, _ := fields["user_id"].(string)
	if !strings.HasPrefix(uid, "hash:") || strings.Contains(uid, "u-1") {
		t.Fatalf("user_id should be hashed, got=%q", uid)
	}
	if got := fields["item"]; got != "milk" {
		t.Fatalf("item: want=milk got=%v", got)
	}
}

func TestLoggerRedactsNestedMetadata(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "test")

	log.Warn("event", "metadata", map[string]string{"user_id": "u-2", "reason": "timeout"})

	fields := logs.All()[0].ContextMap()
	meta, ok := fields["metadata"].(map[string]string)
	if !ok {
		t.Fatalf("metadata: unexpected type %T", fields["metadata"])
	}
	if meta["reason"] != "timeout" {
		t.Fatalf("reason: want=timeout got=%q", meta["reason"])
	}
	if !strings.HasPrefix(meta["user_id"], "hash:") {
		t.Fatalf("nested user_id should be hashed, got=%q", meta["user_id"])
	}
}

func TestHashValueIsStable(t *testing.T) {
	a := hashValue("same")
	b := hashValue("same")
	if a != b || a == "" {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if hashValue("") != "" {
		t.Fatalf("empty input should hash to empty")
	}
}

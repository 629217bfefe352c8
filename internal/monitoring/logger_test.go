package monitoring

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	original := L()
	defer SetLogger(original)

	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	L().Info("step", zap.String("subject", "Subject1"))

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "step" {
		t.Errorf("message = %q", entry.Message)
	}
	if got := entry.ContextMap()["subject"]; got != "Subject1" {
		t.Errorf("subject field = %v", got)
	}

	SetLogger(nil)
	L().Info("dropped")
	if logs.Len() != 1 {
		t.Error("nil logger should not reach the previous core")
	}
}

func TestDefaultLogger(t *testing.T) {
	if L() == nil {
		t.Fatal("L should never be nil")
	}
	L().Warn("safe to call")
}

func TestConfigure(t *testing.T) {
	original := L()
	defer SetLogger(original)

	l, err := Configure("info", false)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zap.InfoLevel) || l.Core().Enabled(zap.DebugLevel) {
		t.Error("info level not applied")
	}

	l, err = Configure("error", true)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("verbose should enable debug")
	}

	if _, err := Configure("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

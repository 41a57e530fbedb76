package daemonlog

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestAllComponentsEnabledByDefault(t *testing.T) {
	l, err := New(zapcore.InfoLevel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, c := range allComponents {
		if !l.IsComponentEnabled(c) {
			t.Fatalf("expected %s enabled by default", c)
		}
	}
}

func TestSetComponentEnabledTogglesGate(t *testing.T) {
	l, err := New(zapcore.InfoLevel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.SetComponentEnabled(ComponentGamepad, false)
	if l.IsComponentEnabled(ComponentGamepad) {
		t.Fatalf("expected gamepad component disabled")
	}
	if !l.IsComponentEnabled(ComponentFocus) {
		t.Fatalf("expected unrelated component to remain enabled")
	}
	l.SetComponentEnabled(ComponentGamepad, true)
	if !l.IsComponentEnabled(ComponentGamepad) {
		t.Fatalf("expected gamepad component re-enabled")
	}
}

func TestForReturnsUsableLoggerRegardlessOfGate(t *testing.T) {
	l, err := New(zapcore.InfoLevel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.For(ComponentCore).Info("daemon starting")

	l.SetComponentEnabled(ComponentSynth, false)
	l.For(ComponentSynth).Info("should be dropped silently")
}

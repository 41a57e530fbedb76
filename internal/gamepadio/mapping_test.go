package gamepadio

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

func TestNormalizeAxisStickFullScale(t *testing.T) {
	if got := normalizeAxis(sdl.CONTROLLER_AXIS_LEFTX, 32767); got != 1.0 {
		t.Fatalf("expected +1.0 at max positive, got %v", got)
	}
	if got := normalizeAxis(sdl.CONTROLLER_AXIS_LEFTX, -32768); got != -1.0 {
		t.Fatalf("expected -1.0 at max negative, got %v", got)
	}
	if got := normalizeAxis(sdl.CONTROLLER_AXIS_LEFTX, 0); got != 0 {
		t.Fatalf("expected 0 at rest, got %v", got)
	}
}

func TestNormalizeAxisTriggerIsUnsigned(t *testing.T) {
	got := normalizeAxis(sdl.CONTROLLER_AXIS_TRIGGERLEFT, 32767)
	if got != 1.0 {
		t.Fatalf("expected trigger at max to normalize to 1.0, got %v", got)
	}
}

func TestSdlButtonToLogicalKnownAndUnknown(t *testing.T) {
	b, ok := sdlButtonToLogical(sdl.CONTROLLER_BUTTON_A)
	if !ok || b != gamacros.ButtonA {
		t.Fatalf("expected CONTROLLER_BUTTON_A -> ButtonA, got %v, %v", b, ok)
	}
	if _, ok := sdlButtonToLogical(sdl.GameControllerButton(200)); ok {
		t.Fatalf("expected unknown SDL button to be rejected")
	}
}

func newTestBackend() *Backend {
	return &Backend{
		events:      make(chan gamacros.ControllerEvent, 16),
		stop:        make(chan struct{}),
		devices:     make(map[gamacros.ControllerID]*device),
		triggerHeld: make(map[gamacros.ControllerID][2]bool),
	}
}

func TestHandleAxisTriggerHysteresisEmitsButtonEdges(t *testing.T) {
	b := newTestBackend()
	id := gamacros.ControllerID(1)

	// Below threshold: axis motion only, no button edge.
	b.handleAxis(id, sdl.CONTROLLER_AXIS_TRIGGERLEFT, 10000) // ~0.305
	select {
	case ev := <-b.events:
		if _, ok := ev.(gamacros.EventAxisMotion); !ok {
			t.Fatalf("expected AxisMotion only, got %+v", ev)
		}
	default:
		t.Fatalf("expected at least one event")
	}
	if len(b.events) != 0 {
		t.Fatalf("did not expect a button edge below threshold, got %d queued", len(b.events))
	}

	// Above threshold (0.610): axis motion + button pressed.
	b.handleAxis(id, sdl.CONTROLLER_AXIS_TRIGGERLEFT, 25000) // ~0.763
	drainAxis(t, b)
	ev := <-b.events
	pressed, ok := ev.(gamacros.EventButtonPressed)
	if !ok || pressed.Button != gamacros.ButtonLeftTrigger {
		t.Fatalf("expected ButtonPressed(LeftTrigger), got %+v", ev)
	}

	// Still above threshold: no repeated edge.
	b.handleAxis(id, sdl.CONTROLLER_AXIS_TRIGGERLEFT, 26000)
	drainAxis(t, b)
	if len(b.events) != 0 {
		t.Fatalf("did not expect a repeated press edge while held, got %d queued", len(b.events))
	}

	// Back below threshold: released edge.
	b.handleAxis(id, sdl.CONTROLLER_AXIS_TRIGGERLEFT, 5000)
	drainAxis(t, b)
	ev2 := <-b.events
	released, ok := ev2.(gamacros.EventButtonReleased)
	if !ok || released.Button != gamacros.ButtonLeftTrigger {
		t.Fatalf("expected ButtonReleased(LeftTrigger), got %+v", ev2)
	}
}

func drainAxis(t *testing.T, b *Backend) {
	t.Helper()
	ev := <-b.events
	if _, ok := ev.(gamacros.EventAxisMotion); !ok {
		t.Fatalf("expected leading AxisMotion event, got %+v", ev)
	}
}

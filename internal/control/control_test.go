package control

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

func TestEncodeDecodeRumbleAllControllers(t *testing.T) {
	cmd := gamacros.ControlRumble{Ms: 250}
	payload := encodeRumble(cmd)

	decoded, err := decodeCommand(payload)
	if err != nil {
		t.Fatalf("decodeCommand: %v", err)
	}
	r, ok := decoded.(gamacros.ControlRumble)
	if !ok {
		t.Fatalf("expected ControlRumble, got %T", decoded)
	}
	if r.ID != nil {
		t.Fatalf("expected nil ID (all controllers), got %v", *r.ID)
	}
	if r.Ms != 250 {
		t.Fatalf("expected Ms=250, got %d", r.Ms)
	}
}

func TestEncodeDecodeRumbleSingleController(t *testing.T) {
	id := gamacros.ControllerID(7)
	cmd := gamacros.ControlRumble{ID: &id, Ms: 100}
	decoded, err := decodeCommand(encodeRumble(cmd))
	if err != nil {
		t.Fatalf("decodeCommand: %v", err)
	}
	r := decoded.(gamacros.ControlRumble)
	if r.ID == nil || *r.ID != id {
		t.Fatalf("expected ID=%v, got %v", id, r.ID)
	}
}

func TestDecodeCommandRejectsUnknownTag(t *testing.T) {
	if _, err := decodeCommand([]byte{0xFF}); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestDecodeCommandRejectsMalformedRumbleLength(t *testing.T) {
	if _, err := decodeCommand([]byte{tagRumble, 0x00}); err == nil {
		t.Fatal("expected error for truncated rumble frame")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{tagRumble, 0, 0, 0, 1, 0, 0, 0, 50}
	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	got, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("readFrame = %v, want %v", got, payload)
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	writeFrame(&buf, make([]byte, 0)) // placeholder, overwritten below
	buf.Reset()
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := readFrame(&buf); err == nil {
		t.Fatal("expected error for oversized frame length")
	}
}

func TestServerClientRumbleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "gamacrosd.sock")

	srv, err := Listen(sockPath, nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()
	go srv.Serve()

	id := gamacros.ControllerID(3)
	if err := SendRumble(sockPath, gamacros.ControlRumble{ID: &id, Ms: 75}); err != nil {
		t.Fatalf("SendRumble: %v", err)
	}

	select {
	case cmd := <-srv.Commands():
		r, ok := cmd.(gamacros.ControlRumble)
		if !ok {
			t.Fatalf("expected ControlRumble, got %T", cmd)
		}
		if r.ID == nil || *r.ID != id || r.Ms != 75 {
			t.Fatalf("unexpected command: %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command")
	}
}

func TestListenRemovesStaleSocket(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "gamacrosd.sock")

	first, err := Listen(sockPath, nil)
	if err != nil {
		t.Fatalf("first Listen: %v", err)
	}
	// Simulate a crashed daemon: close the listener without removing the
	// socket file isn't representative of unix semantics on all platforms,
	// so instead just verify a second Listen on the same path succeeds
	// after the first is closed (the common crash-recovery path).
	first.Close()

	second, err := Listen(sockPath, nil)
	if err != nil {
		t.Fatalf("second Listen: %v", err)
	}
	defer second.Close()
}

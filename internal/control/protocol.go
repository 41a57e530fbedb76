// Package control implements gamacrosd's local control channel: a
// unix-domain stream socket exchanging length-prefixed framed messages.
// v1 defines a single command, Rumble.
package control

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// tagRumble is the only command tag defined in v1.
const tagRumble byte = 0x01

// allControllers is the sentinel ControllerID meaning "every connected
// controller", used on the wire when ControlRumble.ID is nil.
const allControllers uint32 = 0xFFFFFFFF

// maxFrameLen bounds a single frame's payload to guard against a
// malformed or hostile peer forcing an unbounded allocation.
const maxFrameLen = 1 << 16

// encodeRumble serializes a ControlRumble command into its frame payload:
// 1-byte tag, 4-byte big-endian controller id (allControllers for "all"),
// 4-byte big-endian duration in milliseconds.
func encodeRumble(cmd gamacros.ControlRumble) []byte {
	payload := make([]byte, 1+4+4)
	payload[0] = tagRumble
	id := allControllers
	if cmd.ID != nil {
		id = uint32(*cmd.ID)
	}
	binary.BigEndian.PutUint32(payload[1:5], id)
	binary.BigEndian.PutUint32(payload[5:9], cmd.Ms)
	return payload
}

// decodeCommand parses a frame payload into a gamacros.ControlCommand.
func decodeCommand(payload []byte) (gamacros.ControlCommand, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("control: empty frame")
	}
	switch payload[0] {
	case tagRumble:
		if len(payload) != 9 {
			return nil, fmt.Errorf("control: malformed rumble frame: want 9 bytes, got %d", len(payload))
		}
		id := binary.BigEndian.Uint32(payload[1:5])
		ms := binary.BigEndian.Uint32(payload[5:9])
		cmd := gamacros.ControlRumble{Ms: ms}
		if id != allControllers {
			cid := gamacros.ControllerID(id)
			cmd.ID = &cid
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("control: unknown command tag 0x%02x", payload[0])
	}
}

// writeFrame writes a 4-byte big-endian length prefix followed by payload.
func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readFrame reads one length-prefixed frame from r.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameLen {
		return nil, fmt.Errorf("control: frame of %d bytes exceeds limit", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Package synth realizes the core's Action stream as real input: XTest key
// and mouse synthesis over X11, and shell command spawning. It is the one
// package besides internal/gamepadio allowed to perform the corresponding
// side effect, consuming gamacros.Action values synchronously from the
// event loop.
package synth

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

const (
	xKeyPress      = 2
	xKeyRelease    = 3
	xButtonPress   = 4
	xButtonRelease = 5
	xMotionNotify  = 6

	buttonScrollUp    = 4
	buttonScrollDown  = 5
	buttonScrollLeft  = 6
	buttonScrollRight = 7
)

// Synthesizer drives XTest over an xgb connection.
type Synthesizer struct {
	conn       *xgb.Conn
	root       xproto.Window
	keycodes   map[uint32]byte // keysym -> keycode, level 0
	shiftLevel map[uint32]bool // keysym -> true if only reachable via shift level 1
	shell      string          // profile's configured shell; "" means "sh"
}

// New connects to the X server, initializes the XTEST extension, and builds
// a keysym->keycode table from the current keyboard mapping.
func New(shell string) (*Synthesizer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("synth: connect: %w", err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("synth: init xtest: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)
	mapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, count).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("synth: get keyboard mapping: %w", err)
	}

	s := &Synthesizer{
		conn:       conn,
		root:       screen.Root,
		keycodes:   make(map[uint32]byte),
		shiftLevel: make(map[uint32]bool),
		shell:      shell,
	}
	s.buildKeycodeTable(setup.MinKeycode, mapping)
	return s, nil
}

func (s *Synthesizer) buildKeycodeTable(minKeycode xproto.Keycode, mapping *xproto.GetKeyboardMappingReply) {
	perKeycode := int(mapping.KeysymsPerKeycode)
	if perKeycode == 0 {
		return
	}
	for i := 0; i*perKeycode < len(mapping.Keysyms); i++ {
		keycode := byte(int(minKeycode) + i)
		base := i * perKeycode
		if base < len(mapping.Keysyms) {
			ks := uint32(mapping.Keysyms[base])
			if ks != 0 {
				if _, exists := s.keycodes[ks]; !exists {
					s.keycodes[ks] = keycode
				}
			}
		}
		if perKeycode > 1 && base+1 < len(mapping.Keysyms) {
			ks := uint32(mapping.Keysyms[base+1])
			if ks != 0 {
				if _, exists := s.keycodes[ks]; !exists {
					s.keycodes[ks] = keycode
					s.shiftLevel[ks] = true
				}
			}
		}
	}
}

// Close releases the X11 connection.
func (s *Synthesizer) Close() error {
	s.conn.Close()
	return nil
}

// Apply realizes a single Action. The core treats its sink as infallible,
// so callers log and continue on a translation failure rather than letting
// one bad action end the event loop.
func (s *Synthesizer) Apply(a gamacros.Action) error {
	switch act := a.(type) {
	case gamacros.ActionKeyPress:
		return s.pressCombo(act.Combo)
	case gamacros.ActionKeyRelease:
		return s.releaseCombo(act.Combo)
	case gamacros.ActionKeyTap:
		if err := s.pressCombo(act.Combo); err != nil {
			return err
		}
		return s.releaseCombo(act.Combo)
	case gamacros.ActionMacros:
		for _, combo := range act.Combos {
			if err := s.pressCombo(combo); err != nil {
				return err
			}
			if err := s.releaseCombo(combo); err != nil {
				return err
			}
		}
		return nil
	case gamacros.ActionMouseMove:
		return s.moveRelative(act.DX, act.DY)
	case gamacros.ActionScroll:
		return s.scroll(act.H, act.V)
	case gamacros.ActionShell:
		return s.runShell(act.Command)
	case gamacros.ActionRumble:
		// Rumble is routed to internal/gamepadio by the scheduling shell,
		// since only that package owns the originating device handle.
		return nil
	default:
		return fmt.Errorf("synth: unhandled action %T", a)
	}
}

func (s *Synthesizer) pressCombo(combo gamacros.KeyCombo) error {
	for _, m := range modifierOrder {
		if combo.HasModifier(m) {
			if err := s.fakeKey(ModifierKeysym(m), true); err != nil {
				return err
			}
		}
	}
	for _, k := range combo.Keys {
		ks, ok := KeysymFor(k)
		if !ok {
			return fmt.Errorf("synth: no keysym for key %q", k)
		}
		if s.shiftLevel[ks] && !combo.HasModifier(gamacros.ModShift) {
			if err := s.fakeKey(ModifierKeysym(gamacros.ModShift), true); err != nil {
				return err
			}
		}
		if err := s.fakeKey(ks, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *Synthesizer) releaseCombo(combo gamacros.KeyCombo) error {
	for i := len(combo.Keys) - 1; i >= 0; i-- {
		ks, ok := KeysymFor(combo.Keys[i])
		if !ok {
			continue
		}
		if err := s.fakeKey(ks, false); err != nil {
			return err
		}
		if s.shiftLevel[ks] && !combo.HasModifier(gamacros.ModShift) {
			if err := s.fakeKey(ModifierKeysym(gamacros.ModShift), false); err != nil {
				return err
			}
		}
	}
	for i := len(modifierOrder) - 1; i >= 0; i-- {
		m := modifierOrder[i]
		if combo.HasModifier(m) {
			if err := s.fakeKey(ModifierKeysym(m), false); err != nil {
				return err
			}
		}
	}
	return nil
}

var modifierOrder = []gamacros.Modifier{
	gamacros.ModCtrl, gamacros.ModMeta, gamacros.ModShift, gamacros.ModAlt,
}

func (s *Synthesizer) fakeKey(keysym uint32, press bool) error {
	keycode, ok := s.keycodes[keysym]
	if !ok {
		return fmt.Errorf("synth: no keycode mapped for keysym 0x%x", keysym)
	}
	eventType := byte(xKeyRelease)
	if press {
		eventType = xKeyPress
	}
	return xtest.FakeInputChecked(s.conn, eventType, keycode, 0, s.root, 0, 0, 0).Check()
}

func (s *Synthesizer) moveRelative(dx, dy int32) error {
	return xtest.FakeInputChecked(s.conn, xMotionNotify, 1, 0, s.root, int16(dx), int16(dy), 0).Check()
}

func (s *Synthesizer) scroll(h, v int32) error {
	if err := s.clickRepeated(scrollButton(v > 0, false), abs32(v)); err != nil {
		return err
	}
	return s.clickRepeated(scrollButton(h > 0, true), abs32(h))
}

func scrollButton(positive, horizontal bool) byte {
	switch {
	case horizontal && positive:
		return buttonScrollRight
	case horizontal && !positive:
		return buttonScrollLeft
	case !horizontal && positive:
		return buttonScrollUp
	default:
		return buttonScrollDown
	}
}

func (s *Synthesizer) clickRepeated(button byte, n int32) error {
	for i := int32(0); i < n; i++ {
		if err := xtest.FakeInputChecked(s.conn, xButtonPress, button, 0, s.root, 0, 0, 0).Check(); err != nil {
			return err
		}
		if err := xtest.FakeInputChecked(s.conn, xButtonRelease, button, 0, s.root, 0, 0, 0).Check(); err != nil {
			return err
		}
	}
	return nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Package gamacros implements the input-to-action engine: the stateful,
// synchronous core that turns gamepad button/axis events and focused-app
// changes into a stream of output Actions, according to a per-application
// Profile. The core performs no I/O and owns no goroutines; it is driven
// entirely by its caller (internal/schedshell).
package gamacros

import (
	"fmt"
	"strings"
)

// Button is a logical gamepad control. Values carry a stable bit index used
// by Bitmask for chord membership.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonBack
	ButtonGuide
	ButtonStart
	ButtonLeftStick
	ButtonRightStick
	ButtonLeftShoulder
	ButtonRightShoulder
	ButtonLeftTrigger
	ButtonRightTrigger
	ButtonDPadUp
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight

	buttonCount
)

// BitIndex implements BitIndexer.
func (b Button) BitIndex() uint { return uint(b) }

func (b Button) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

var buttonNames = map[Button]string{
	ButtonA:             "A",
	ButtonB:             "B",
	ButtonX:             "X",
	ButtonY:             "Y",
	ButtonBack:          "Back",
	ButtonGuide:         "Guide",
	ButtonStart:         "Start",
	ButtonLeftStick:     "LeftStick",
	ButtonRightStick:    "RightStick",
	ButtonLeftShoulder:  "LeftShoulder",
	ButtonRightShoulder: "RightShoulder",
	ButtonLeftTrigger:   "LeftTrigger",
	ButtonRightTrigger:  "RightTrigger",
	ButtonDPadUp:        "DPadUp",
	ButtonDPadDown:      "DPadDown",
	ButtonDPadLeft:      "DPadLeft",
	ButtonDPadRight:     "DPadRight",
}

// ButtonByName resolves a button by its canonical name, case-insensitively.
func ButtonByName(name string) (Button, bool) {
	for b, n := range buttonNames {
		if strings.EqualFold(n, name) {
			return b, true
		}
	}
	return 0, false
}

// TriggerThreshold is the symmetric analog threshold, as a fraction of full
// scale, above which a trigger axis is treated as a held button. Fixed here
// rather than exposed as a profile field.
const TriggerThreshold = 0.610

// Axis is a normalized analog input in [-1.0, 1.0].
type Axis int

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisLeftTrigger
	AxisRightTrigger

	axisCount
)

func (a Axis) String() string {
	switch a {
	case AxisLeftX:
		return "LeftX"
	case AxisLeftY:
		return "LeftY"
	case AxisRightX:
		return "RightX"
	case AxisRightY:
		return "RightY"
	case AxisLeftTrigger:
		return "LeftTrigger"
	case AxisRightTrigger:
		return "RightTrigger"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ControllerID is an opaque, backend-assigned identifier, stable for the
// lifetime of a connection.
type ControllerID uint32

// ControllerInfo describes a newly connected controller.
type ControllerInfo struct {
	ID             ControllerID
	Name           string
	VendorID       uint16
	ProductID      uint16
	SupportsRumble bool
}

// Side selects an analog stick.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "Left"
	}
	return "Right"
}

// Phase is a button transition direction.
type Phase int

const (
	PhasePressed Phase = iota
	PhaseReleased
)

// Modifier is one of the four recognized keyboard modifiers.
type Modifier int

const (
	ModCtrl Modifier = iota
	ModMeta
	ModShift
	ModAlt
)

// Key is a single named key or printable character, as produced by KeyCombo
// parsing (internal/keycombo).
type Key string

// KeyCombo is a modifier set plus an ordered sequence of keys.
type KeyCombo struct {
	Modifiers map[Modifier]bool
	Keys      []Key
}

// HasModifier reports whether m is part of the combo.
func (k KeyCombo) HasModifier(m Modifier) bool {
	return k.Modifiers[m]
}

// Equal reports whether k and other represent the same modifier set and key
// sequence.
func (k KeyCombo) Equal(other KeyCombo) bool {
	if len(k.Modifiers) != len(other.Modifiers) {
		return false
	}
	for m, v := range k.Modifiers {
		if other.Modifiers[m] != v {
			return false
		}
	}
	if len(k.Keys) != len(other.Keys) {
		return false
	}
	for i, key := range k.Keys {
		if other.Keys[i] != key {
			return false
		}
	}
	return true
}

// Action is an abstract output event emitted by the core for the input
// synthesis backend (internal/synth) to realize.
type Action interface {
	isAction()
}

type ActionKeyPress struct{ Combo KeyCombo }
type ActionKeyRelease struct{ Combo KeyCombo }
type ActionKeyTap struct{ Combo KeyCombo }
type ActionMacros struct{ Combos []KeyCombo }
type ActionShell struct{ Command string }
type ActionMouseMove struct{ DX, DY int32 }
type ActionScroll struct{ H, V int32 }
type ActionRumble struct {
	ID ControllerID
	Ms uint32
}

func (ActionKeyPress) isAction()   {}
func (ActionKeyRelease) isAction() {}
func (ActionKeyTap) isAction()     {}
func (ActionMacros) isAction()     {}
func (ActionShell) isAction()      {}
func (ActionMouseMove) isAction()  {}
func (ActionScroll) isAction()     {}
func (ActionRumble) isAction()     {}

// Sink receives Actions emitted by the core, in emission order, within a
// single call to an on_* method. Implementations must not block or panic;
// the core treats the sink as infallible.
type Sink interface {
	Emit(Action)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Action)

func (f SinkFunc) Emit(a Action) { f(a) }

// CollectingSink is a Sink that appends to a slice, useful for tests and
// for callers that want to post-process a batch of actions.
type CollectingSink struct {
	Actions []Action
}

func (c *CollectingSink) Emit(a Action) {
	c.Actions = append(c.Actions, a)
}

// ControllerEvent is one of the event variants gamepad backends produce.
type ControllerEvent interface {
	isControllerEvent()
}

type EventConnected struct{ Info ControllerInfo }
type EventDisconnected struct{ ID ControllerID }
type EventButtonPressed struct {
	ID     ControllerID
	Button Button
}
type EventButtonReleased struct {
	ID     ControllerID
	Button Button
}
type EventAxisMotion struct {
	ID    ControllerID
	Axis  Axis
	Value float32
}

func (EventConnected) isControllerEvent()      {}
func (EventDisconnected) isControllerEvent()   {}
func (EventButtonPressed) isControllerEvent()  {}
func (EventButtonReleased) isControllerEvent() {}
func (EventAxisMotion) isControllerEvent()     {}

// FocusEvent reports that the foreground application changed.
type FocusEvent struct {
	BundleID string
}

// ControlCommand is a value delivered from the local control transport.
type ControlCommand interface {
	isControlCommand()
}

// ControlRumble requests a rumble pulse, optionally targeting a single
// controller (ID == nil means "all connected controllers").
type ControlRumble struct {
	ID *ControllerID
	Ms uint32
}

func (ControlRumble) isControlCommand() {}

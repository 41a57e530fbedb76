// Package gamepadio translates SDL2 controller/joystick events into
// gamacros.ControllerEvent values on a channel, and carries out Rumble
// actions against the originating device. It owns the SDL event pump and
// runs on its own goroutine.
package gamepadio

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// Backend owns SDL2 gamepad/haptic state and produces ControllerEvents.
type Backend struct {
	events  chan gamacros.ControllerEvent
	stop    chan struct{}
	devices map[gamacros.ControllerID]*device

	// triggerHeld tracks hysteresis state for the two analog-derived
	// trigger buttons, per controller.
	triggerHeld map[gamacros.ControllerID][2]bool
}

type device struct {
	id      gamacros.ControllerID
	pad     *sdl.GameController
	joy     *sdl.Joystick
	haptic  *sdl.Haptic
	rumbles bool
}

// New initializes SDL2's game-controller subsystem. Callers must call Run
// on a dedicated goroutine (it drives sdl.PollEvent in a loop, which SDL
// requires to happen on a consistent thread on some platforms).
func New() (*Backend, error) {
	if err := sdl.Init(sdl.INIT_GAMECONTROLLER | sdl.INIT_JOYSTICK | sdl.INIT_HAPTIC | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("gamepadio: sdl init: %w", err)
	}
	return &Backend{
		events:      make(chan gamacros.ControllerEvent, 64),
		stop:        make(chan struct{}),
		devices:     make(map[gamacros.ControllerID]*device),
		triggerHeld: make(map[gamacros.ControllerID][2]bool),
	}, nil
}

// Events returns the channel of translated controller events.
func (b *Backend) Events() <-chan gamacros.ControllerEvent { return b.events }

// Stop signals Run to exit and quits SDL.
func (b *Backend) Stop() {
	close(b.stop)
}

// Run pumps SDL events until Stop is called. It opens already-connected
// pads on entry, since SDL only raises CONTROLLERDEVICEADDED for hotplugs
// after init.
func (b *Backend) Run() {
	defer sdl.Quit()

	for i := 0; i < sdl.NumJoysticks(); i++ {
		b.openDevice(i)
	}

	for {
		select {
		case <-b.stop:
			for _, d := range b.devices {
				b.closeDevice(d)
			}
			return
		default:
		}

		ev := sdl.WaitEventTimeout(10)
		if ev == nil {
			continue
		}
		b.handle(ev)
	}
}

func (b *Backend) handle(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.ControllerDeviceEvent:
		switch e.Type {
		case sdl.CONTROLLERDEVICEADDED:
			b.openDevice(int(e.Which))
		case sdl.CONTROLLERDEVICEREMOVED:
			b.removeDevice(gamacros.ControllerID(e.Which))
		}
	case *sdl.ControllerButtonEvent:
		id := gamacros.ControllerID(e.Which)
		btn, ok := sdlButtonToLogical(sdl.GameControllerButton(e.Button))
		if !ok {
			return
		}
		if e.State == sdl.PRESSED {
			b.events <- gamacros.EventButtonPressed{ID: id, Button: btn}
		} else {
			b.events <- gamacros.EventButtonReleased{ID: id, Button: btn}
		}
	case *sdl.ControllerAxisEvent:
		b.handleAxis(gamacros.ControllerID(e.Which), sdl.GameControllerAxis(e.Axis), e.Value)
	case *sdl.JoyButtonEvent:
		id := gamacros.ControllerID(e.Which)
		if _, ok := b.devices[id]; !ok || b.devices[id].pad != nil {
			return // mapped pads are handled via ControllerButtonEvent
		}
		btn, ok := joyButtonToLogical(e.Button)
		if !ok {
			return
		}
		if e.State == sdl.PRESSED {
			b.events <- gamacros.EventButtonPressed{ID: id, Button: btn}
		} else {
			b.events <- gamacros.EventButtonReleased{ID: id, Button: btn}
		}
	}
}

// handleAxis normalizes a raw SDL axis value to [-1, 1], emits AxisMotion,
// and applies trigger-as-button hysteresis at this translation boundary
// (the core never sees raw trigger axis values as buttons; it only sees
// the button it is told about).
func (b *Backend) handleAxis(id gamacros.ControllerID, axis sdl.GameControllerAxis, raw int16) {
	logical, ok := sdlAxisToLogical(axis)
	if !ok {
		return
	}
	value := normalizeAxis(axis, raw)
	b.events <- gamacros.EventAxisMotion{ID: id, Axis: logical, Value: value}

	var slot int
	var button gamacros.Button
	switch logical {
	case gamacros.AxisLeftTrigger:
		slot, button = 0, gamacros.ButtonLeftTrigger
	case gamacros.AxisRightTrigger:
		slot, button = 1, gamacros.ButtonRightTrigger
	default:
		return
	}

	held := b.triggerHeld[id]
	wasHeld := held[slot]
	isHeld := float64(value) > gamacros.TriggerThreshold
	if isHeld == wasHeld {
		return
	}
	held[slot] = isHeld
	b.triggerHeld[id] = held

	if isHeld {
		b.events <- gamacros.EventButtonPressed{ID: id, Button: button}
	} else {
		b.events <- gamacros.EventButtonReleased{ID: id, Button: button}
	}
}

func normalizeAxis(axis sdl.GameControllerAxis, raw int16) float32 {
	if axis == sdl.CONTROLLER_AXIS_TRIGGERLEFT || axis == sdl.CONTROLLER_AXIS_TRIGGERRIGHT {
		return float32(raw) / 32767.0
	}
	if raw < 0 {
		return float32(raw) / 32768.0
	}
	return float32(raw) / 32767.0
}

func (b *Backend) openDevice(joystickIndex int) {
	var d device

	if sdl.IsGameController(joystickIndex) {
		pad := sdl.GameControllerOpen(joystickIndex)
		if pad == nil {
			return
		}
		d.pad = pad
		d.joy = pad.Joystick()
	} else {
		joy := sdl.JoystickOpen(joystickIndex)
		if joy == nil {
			return
		}
		d.joy = joy
	}

	id := gamacros.ControllerID(d.joy.InstanceID())
	d.id = id

	if haptic, err := sdl.HapticOpenFromJoystick(d.joy); err == nil {
		if haptic.RumbleInit() == nil {
			d.haptic = haptic
			d.rumbles = true
		} else {
			haptic.Close()
		}
	}

	name := d.joy.Name()
	vendor := uint16(d.joy.Vendor())
	product := uint16(d.joy.Product())

	b.devices[id] = &d
	b.events <- gamacros.EventConnected{Info: gamacros.ControllerInfo{
		ID:             id,
		Name:           name,
		VendorID:       vendor,
		ProductID:      product,
		SupportsRumble: d.rumbles,
	}}
}

func (b *Backend) removeDevice(id gamacros.ControllerID) {
	d, ok := b.devices[id]
	if !ok {
		return
	}
	b.closeDevice(d)
	delete(b.devices, id)
	delete(b.triggerHeld, id)
	b.events <- gamacros.EventDisconnected{ID: id}
}

func (b *Backend) closeDevice(d *device) {
	if d.haptic != nil {
		d.haptic.Close()
	}
	if d.pad != nil {
		d.pad.Close()
	} else if d.joy != nil {
		d.joy.Close()
	}
}

// Rumble carries out an Action::Rumble against the originating device with
// a full-strength haptic rumble. Only devices whose haptic rumble
// initialized in openDevice are marked as rumble-capable; every other
// device is skipped, so the game-controller rumble branch below is not
// reached.
func (b *Backend) Rumble(id gamacros.ControllerID, ms uint32) {
	d, ok := b.devices[id]
	if !ok || !d.rumbles {
		return
	}
	if d.haptic != nil {
		d.haptic.RumblePlay(1.0, ms)
		return
	}
	if d.pad != nil {
		d.pad.Rumble(0xFFFF, 0xFFFF, ms)
	}
}

package gamepadio

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

var sdlButtonMap = map[sdl.GameControllerButton]gamacros.Button{
	sdl.CONTROLLER_BUTTON_A:             gamacros.ButtonA,
	sdl.CONTROLLER_BUTTON_B:             gamacros.ButtonB,
	sdl.CONTROLLER_BUTTON_X:             gamacros.ButtonX,
	sdl.CONTROLLER_BUTTON_Y:             gamacros.ButtonY,
	sdl.CONTROLLER_BUTTON_BACK:          gamacros.ButtonBack,
	sdl.CONTROLLER_BUTTON_GUIDE:         gamacros.ButtonGuide,
	sdl.CONTROLLER_BUTTON_START:         gamacros.ButtonStart,
	sdl.CONTROLLER_BUTTON_LEFTSTICK:     gamacros.ButtonLeftStick,
	sdl.CONTROLLER_BUTTON_RIGHTSTICK:    gamacros.ButtonRightStick,
	sdl.CONTROLLER_BUTTON_LEFTSHOULDER:  gamacros.ButtonLeftShoulder,
	sdl.CONTROLLER_BUTTON_RIGHTSHOULDER: gamacros.ButtonRightShoulder,
	sdl.CONTROLLER_BUTTON_DPAD_UP:       gamacros.ButtonDPadUp,
	sdl.CONTROLLER_BUTTON_DPAD_DOWN:     gamacros.ButtonDPadDown,
	sdl.CONTROLLER_BUTTON_DPAD_LEFT:     gamacros.ButtonDPadLeft,
	sdl.CONTROLLER_BUTTON_DPAD_RIGHT:    gamacros.ButtonDPadRight,
}

func sdlButtonToLogical(b sdl.GameControllerButton) (gamacros.Button, bool) {
	v, ok := sdlButtonMap[b]
	return v, ok
}

// joyButtonToLogical handles the small set of unmapped joysticks the pack's
// target hardware falls back to; button ordinals follow the common SDL
// "Xbox-like" legacy joystick layout.
var joyButtonFallback = map[uint8]gamacros.Button{
	0: gamacros.ButtonA,
	1: gamacros.ButtonB,
	2: gamacros.ButtonX,
	3: gamacros.ButtonY,
	4: gamacros.ButtonLeftShoulder,
	5: gamacros.ButtonRightShoulder,
	6: gamacros.ButtonBack,
	7: gamacros.ButtonStart,
	8: gamacros.ButtonLeftStick,
	9: gamacros.ButtonRightStick,
}

func joyButtonToLogical(b uint8) (gamacros.Button, bool) {
	v, ok := joyButtonFallback[b]
	return v, ok
}

var sdlAxisMap = map[sdl.GameControllerAxis]gamacros.Axis{
	sdl.CONTROLLER_AXIS_LEFTX:        gamacros.AxisLeftX,
	sdl.CONTROLLER_AXIS_LEFTY:        gamacros.AxisLeftY,
	sdl.CONTROLLER_AXIS_RIGHTX:       gamacros.AxisRightX,
	sdl.CONTROLLER_AXIS_RIGHTY:       gamacros.AxisRightY,
	sdl.CONTROLLER_AXIS_TRIGGERLEFT:  gamacros.AxisLeftTrigger,
	sdl.CONTROLLER_AXIS_TRIGGERRIGHT: gamacros.AxisRightTrigger,
}

func sdlAxisToLogical(a sdl.GameControllerAxis) (gamacros.Axis, bool) {
	v, ok := sdlAxisMap[a]
	return v, ok
}

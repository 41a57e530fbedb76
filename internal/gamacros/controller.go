package gamacros

// controllerState is core-owned per-connection state, spanning the
// Connected→Disconnected window.
type controllerState struct {
	info           ControllerInfo
	remap          map[Button]Button
	pressed        Chord
	supportsRumble bool
	axes           [axisCount]float32

	// scroll accumulators, one per side; reset on active-app change.
	scrollAccum [2]struct{ h, v float32 }
}

func newControllerState(info ControllerInfo) *controllerState {
	return &controllerState{
		info:           info,
		remap:          nil,
		supportsRumble: info.SupportsRumble,
	}
}

// remapped resolves a raw button through the controller's remap table,
// identity when absent.
func (c *controllerState) remapped(b Button) Button {
	if c.remap == nil {
		return b
	}
	if to, ok := c.remap[b]; ok {
		return to
	}
	return b
}

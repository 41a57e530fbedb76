package gamacros

import (
	"math"
	"time"
)

func arrowKey(dir ArrowDir) KeyCombo {
	switch dir {
	case ArrowUp:
		return KeyCombo{Keys: []Key{"arrow_up"}}
	case ArrowDown:
		return KeyCombo{Keys: []Key{"arrow_down"}}
	case ArrowLeft:
		return KeyCombo{Keys: []Key{"arrow_left"}}
	default:
		return KeyCombo{Keys: []Key{"arrow_right"}}
	}
}

func volumeKey(positive bool) KeyCombo {
	if positive {
		return KeyCombo{Keys: []Key{"volume_up"}}
	}
	return KeyCombo{Keys: []Key{"volume_down"}}
}

func brightnessKey(positive bool) KeyCombo {
	if positive {
		return KeyCombo{Keys: []Key{"brightness_up"}}
	}
	return KeyCombo{Keys: []Key{"brightness_down"}}
}

func pow(base float64, gamma float32) float64 {
	switch gamma {
	case 0.5:
		return math.Sqrt(base)
	case 1.0:
		return base
	case 1.5:
		return base * math.Sqrt(base)
	case 2.0:
		return base * base
	case 3.0:
		return base * base * base
	default:
		return math.Pow(base, float64(gamma))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// onTick evaluates the compiled stick rules for every connected controller
// and side, driving the repeat scheduler or emitting immediate motion/
// scroll actions.
func (g *Gamacros) onTick(now time.Time, sink Sink) {
	g.generation++
	gen := g.generation

	if g.compiledSticks != nil {
		for _, cs := range g.controllers {
			g.processSide(cs, SideLeft, g.compiledSticks.forSide(SideLeft), gen, now, sink)
			g.processSide(cs, SideRight, g.compiledSticks.forSide(SideRight), gen, now, sink)
		}
	}

	g.repeats.CleanupInactive(gen)
}

func (g *Gamacros) processSide(cs *controllerState, side Side, mode *StickMode, gen uint64, now time.Time, sink Sink) {
	if mode == nil {
		return
	}

	var x, y float32
	switch side {
	case SideLeft:
		x, y = cs.axes[AxisLeftX], cs.axes[AxisLeftY]
	case SideRight:
		x, y = cs.axes[AxisRightX], cs.axes[AxisRightY]
	}

	switch mode.Kind {
	case StickModeArrows:
		g.processArrows(cs, side, *mode, x, y, gen, now, sink)
	case StickModeVolume:
		g.processStepper(cs, side, *mode, x, y, gen, now, false, sink)
	case StickModeBrightness:
		g.processStepper(cs, side, *mode, x, y, gen, now, true, sink)
	case StickModeMouseMove:
		g.processMouseMove(*mode, x, y, sink)
	case StickModeScroll:
		g.processScroll(cs, side, *mode, x, y, sink)
	}
}

func (g *Gamacros) processArrows(cs *controllerState, side Side, mode StickMode, x, y float32, gen uint64, now time.Time, sink Sink) {
	if mode.InvertX {
		x = -x
	}
	if mode.InvertY {
		y = -y
	}

	if float64(x)*float64(x)+float64(y)*float64(y) <= float64(mode.Deadzone)*float64(mode.Deadzone) {
		return
	}
	if x == 0 && y == 0 {
		return
	}

	var dir ArrowDir
	if math.Abs(float64(y)) >= math.Abs(float64(x)) {
		if y > 0 {
			dir = ArrowUp
		} else {
			dir = ArrowDown
		}
	} else {
		if x > 0 {
			dir = ArrowRight
		} else {
			dir = ArrowLeft
		}
	}

	reg := RepeatRegistration{
		ID:             RepeatTaskID{Controller: cs.info.ID, Side: side, Kind: ArrowKind(dir)},
		Key:            arrowKey(dir),
		InitialDelayMs: mode.RepeatDelayMs,
		IntervalMs:     mode.RepeatIntervalMs,
		FireOnActivate: true,
		Generation:     gen,
	}
	if a := g.repeats.Register(reg, now); a != nil {
		sink.Emit(a)
	}
}

func (g *Gamacros) processStepper(cs *controllerState, side Side, mode StickMode, x, y float32, gen uint64, now time.Time, brightness bool, sink Sink) {
	v := x
	if mode.Axis == StickAxisY {
		v = y
	}
	if mode.Invert {
		v = -v
	}
	if math.Abs(float64(v)) < float64(mode.Deadzone) {
		return
	}

	absV := math.Abs(float64(v))
	intervalMs := float64(mode.MaxIntervalMs) + absV*float64(int64(mode.MinIntervalMs)-int64(mode.MaxIntervalMs))
	if intervalMs < 0 {
		intervalMs = 0
	}

	positive := v > 0
	var kind RepeatKind
	var key KeyCombo
	if brightness {
		kind = BrightnessKind(mode.Axis, positive)
		key = brightnessKey(positive)
	} else {
		kind = VolumeKind(mode.Axis, positive)
		key = volumeKey(positive)
	}

	reg := RepeatRegistration{
		ID:             RepeatTaskID{Controller: cs.info.ID, Side: side, Kind: kind},
		Key:            key,
		InitialDelayMs: 0,
		IntervalMs:     uint32(intervalMs),
		FireOnActivate: true,
		Generation:     gen,
	}
	if a := g.repeats.Register(reg, now); a != nil {
		sink.Emit(a)
	}
}

func (g *Gamacros) processMouseMove(mode StickMode, x, y float32, sink Sink) {
	if mode.InvertX {
		x = -x
	}
	if mode.InvertY {
		y = -y
	}

	mRaw := math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y))
	if mRaw < float64(mode.Deadzone) {
		return
	}

	gamma := mode.Gamma
	if gamma < 0.1 {
		gamma = 0.1
	}

	denom := 1 - float64(mode.Deadzone)
	var base float64
	if denom > 0 {
		base = clamp01((mRaw - float64(mode.Deadzone)) / denom)
	}
	m := pow(base, gamma)

	dirX := float64(x) / mRaw
	dirY := float64(y) / mRaw

	dx := int32(math.Round(float64(mode.MaxSpeedPxS) * m * dirX * 0.010))
	dy := int32(math.Round(float64(mode.MaxSpeedPxS) * m * dirY * 0.010))
	if dx != 0 || dy != 0 {
		sink.Emit(ActionMouseMove{DX: dx, DY: dy})
	}
}

func (g *Gamacros) processScroll(cs *controllerState, side Side, mode StickMode, x, y float32, sink Sink) {
	if mode.InvertX {
		x = -x
	}
	if mode.InvertY {
		y = -y
	}
	if !mode.Horizontal {
		x = 0
	}

	if math.Max(math.Abs(float64(x)), math.Abs(float64(y))) <= float64(mode.Deadzone) {
		return
	}

	accum := &cs.scrollAccum[side]
	accum.h += mode.SpeedLinesS * x * 0.1
	accum.v += mode.SpeedLinesS * y * 0.1

	hStep := int32(math.Round(float64(accum.h)))
	vStep := int32(math.Round(float64(accum.v)))
	accum.h -= float32(hStep)
	accum.v -= float32(vStep)

	if hStep != 0 {
		sink.Emit(ActionScroll{H: hStep})
	}
	if vStep != 0 {
		sink.Emit(ActionScroll{V: vStep})
	}
}

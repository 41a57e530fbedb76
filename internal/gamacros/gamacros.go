package gamacros

import "time"

// Gamacros is the core façade: it owns the active profile, the active
// application id, per-controller state, and the stick subsystem. It is
// driven synchronously by a single caller (internal/schedshell) and
// performs no I/O of its own.
type Gamacros struct {
	profile *Profile

	activeApp   BundleID
	activeRules *AppRules

	controllers map[ControllerID]*controllerState

	compiledSticks *compiledStickRules
	repeats        *RepeatScheduler
	generation     uint64
}

// New returns an empty façade with no profile and no controllers.
func New() *Gamacros {
	return &Gamacros{
		controllers: make(map[ControllerID]*controllerState),
		repeats:     NewRepeatScheduler(),
	}
}

// SetProfile replaces the profile snapshot atomically. Existing controller
// states are preserved; their remap tables are refreshed from the new
// profile where a matching (vendor, product) entry exists, else reset to
// identity. The compiled stick rules are recomputed from the active app's
// rules under the new profile, if any.
func (g *Gamacros) SetProfile(p *Profile) {
	g.profile = p
	for _, cs := range g.controllers {
		if cp, ok := p.ControllerProfileFor(cs.info.VendorID, cs.info.ProductID); ok {
			cs.remap = cp.Remap
		} else {
			cs.remap = nil
		}
	}
	g.recompile()
}

// ClearProfile drops the profile and compiled stick rules; button and stick
// processing become no-ops until a new profile is installed.
func (g *Gamacros) ClearProfile() {
	g.profile = nil
	g.activeRules = nil
	g.compiledSticks = nil
}

func (g *Gamacros) recompile() {
	if g.profile == nil {
		g.activeRules = nil
		g.compiledSticks = nil
		return
	}
	if rules, ok := g.profile.RulesFor(g.activeApp); ok {
		r := rules
		g.activeRules = &r
		c := compileStickRules(r)
		g.compiledSticks = &c
	} else {
		g.activeRules = nil
		g.compiledSticks = nil
	}
}

// AddController registers a newly connected controller. Idempotent: a
// second call for an already-known id is a no-op.
func (g *Gamacros) AddController(info ControllerInfo) {
	if _, ok := g.controllers[info.ID]; ok {
		return
	}
	cs := newControllerState(info)
	if g.profile != nil {
		if cp, ok := g.profile.ControllerProfileFor(info.VendorID, info.ProductID); ok {
			cs.remap = cp.Remap
		}
	}
	g.controllers[info.ID] = cs
}

// RemoveController drops a controller's state and releases any repeat
// tasks scheduled for it.
func (g *Gamacros) RemoveController(id ControllerID) {
	delete(g.controllers, id)
	g.repeats.ReleaseAllFor(id)
}

// ControllerIDs returns every currently connected controller id, in no
// particular order. Used by the scheduling shell to broadcast a
// ControlCommand::Rumble with no target id to every connected controller.
func (g *Gamacros) ControllerIDs() []ControllerID {
	ids := make([]ControllerID, 0, len(g.controllers))
	for id := range g.controllers {
		ids = append(ids, id)
	}
	return ids
}

// SetActiveApp updates the focused application. A no-op if app is already
// active. Otherwise it discards all arrow repeat tasks and scroll
// accumulators, then recompiles the stick rules for the new app.
func (g *Gamacros) SetActiveApp(app BundleID) {
	if app == g.activeApp {
		return
	}
	g.activeApp = app
	g.repeats.ReleaseAllArrows()
	for _, cs := range g.controllers {
		cs.scrollAccum[SideLeft] = struct{ h, v float32 }{}
		cs.scrollAccum[SideRight] = struct{ h, v float32 }{}
	}
	g.recompile()
}

// OnAxis updates a controller's axis slot. No actions are emitted; the
// stick processor reads axis state on the next tick.
func (g *Gamacros) OnAxis(id ControllerID, axis Axis, value float32) {
	cs, ok := g.controllers[id]
	if !ok {
		return
	}
	cs.axes[axis] = value
}

// OnButton applies a button transition and resolves any chords that fire.
// Panics if id is not a connected controller.
func (g *Gamacros) OnButton(id ControllerID, button Button, phase Phase, sink Sink) {
	g.onButton(id, button, phase, sink)
}

// OnTick evaluates the stick subsystem for time `now`, possibly registering
// repeat tasks or emitting immediate motion/scroll actions.
func (g *Gamacros) OnTick(now time.Time, sink Sink) {
	g.onTick(now, sink)
}

// ProcessDueRepeats drains every repeat task due at or before now.
func (g *Gamacros) ProcessDueRepeats(now time.Time, sink Sink) {
	g.repeats.ProcessDue(now, sink)
}

// NextRepeatDue returns the due time of the earliest live repeat task, if
// any.
func (g *Gamacros) NextRepeatDue() (time.Time, bool) {
	return g.repeats.NextDue()
}

// axisActive reports whether any connected controller has an axis whose
// magnitude is at least 0.05, the fixed activity threshold.
func (g *Gamacros) axisActive() bool {
	const threshold = 0.05
	for _, cs := range g.controllers {
		for _, v := range cs.axes {
			if v < 0 {
				v = -v
			}
			if v >= threshold {
				return true
			}
		}
	}
	return false
}

// stickModeNeedsTick reports whether the active rules include any
// tick-requiring stick mode (i.e. any mode at all: every StickMode variant
// is driven by on_tick).
func (g *Gamacros) stickModeNeedsTick() bool {
	return g.compiledSticks != nil && (g.compiledSticks.left != nil || g.compiledSticks.right != nil)
}

// NeedsTick reports whether the event loop should keep ticking: the active
// rules include a tick-requiring stick mode AND at least one controller has
// axis activity, OR the repeat scheduler has an active task.
func (g *Gamacros) NeedsTick() bool {
	if g.stickModeNeedsTick() && g.axisActive() {
		return true
	}
	return g.repeats.HasActive()
}

// WantsFastTick reports whether the event loop should prefer the fast tick
// period: axis activity is present, or a repeat task is active.
func (g *Gamacros) WantsFastTick() bool {
	return g.axisActive() || g.repeats.HasActive()
}

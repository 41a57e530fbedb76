// Package schedshell implements the daemon's outer event loop: it
// serializes gamepad events, focus events, profile hot-reload events, and
// local control commands into a single decision point, driving the gamacros
// core and arming exactly one coalesced wake timer for the next stick tick
// or repeat-scheduler deadline. It is the only package that performs
// select/wake-timer I/O against the core's public surface; time is taken
// from an injectable clock.Clock so tests can drive it deterministically.
package schedshell

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/gamacros/gamacrosd/internal/gamacros"
	"github.com/gamacros/gamacrosd/internal/profile"
)

const (
	idlePeriod       = 16 * time.Millisecond
	fastPeriod       = 10 * time.Millisecond
	fastStickyWindow = 250 * time.Millisecond
)

// RumbleFunc carries out a rumble pulse against the originating gamepad
// device. Only internal/gamepadio owns the device handle, so the loop
// calls back into it rather than routing rumble through the core.
type RumbleFunc func(id gamacros.ControllerID, ms uint32)

// Sources bundles every channel the loop selects across. A nil channel
// blocks forever in a select, which is the desired behavior for a source
// the caller chose not to wire up (e.g. tests driving only gamepad input).
type Sources struct {
	Stop    <-chan struct{}
	Gamepad <-chan gamacros.ControllerEvent
	Focus   <-chan gamacros.FocusEvent
	Profile <-chan profile.Event
	Control <-chan gamacros.ControlCommand
}

// Loop drives a *gamacros.Gamacros from live event sources.
type Loop struct {
	core   *gamacros.Gamacros
	sink   gamacros.Sink
	clk    clock.Clock
	rumble RumbleFunc
	log    *zap.Logger

	// ProfileApplied, when non-nil, is invoked from the loop goroutine after
	// a profile has been installed into (or cleared from) the core, so
	// collaborators outside the core — e.g. the input synthesizer's shell
	// setting — can pick up profile-level fields. nil means cleared.
	ProfileApplied func(*gamacros.Profile)

	fastUntil    time.Time
	inFastWindow bool

	// nextWakeIsTick records which deadline the armed timer represents, so
	// onWake can skip the tick when only a repeat was due.
	nextWakeIsTick bool
}

// New builds a Loop. sink receives every Action the core emits; rumble is
// invoked both for Action::Rumble (from button rules) and for a directly
// issued ControlCommand::Rumble.
func New(core *gamacros.Gamacros, sink gamacros.Sink, clk clock.Clock, rumble RumbleFunc, log *zap.Logger) *Loop {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{core: core, sink: sink, clk: clk, rumble: rumble, log: log}
}

// rumbleSink wraps the caller's sink so that Action::Rumble emitted by the
// core during button handling is also dispatched to the gamepad backend,
// in addition to being forwarded to the caller's sink for logging/testing.
type rumbleSink struct {
	inner  gamacros.Sink
	rumble RumbleFunc
}

func (r rumbleSink) Emit(a gamacros.Action) {
	if r.inner != nil {
		r.inner.Emit(a)
	}
	if rb, ok := a.(gamacros.ActionRumble); ok && r.rumble != nil {
		r.rumble(rb.ID, rb.Ms)
	}
}

func (l *Loop) sinkWithRumble() gamacros.Sink {
	return rumbleSink{inner: l.sink, rumble: l.rumble}
}

// Run drives the loop until src.Stop is closed or the gamepad channel is
// closed (the core itself has no recovery). A closed focus or profile
// channel does not end the loop; it simply delivers no further events.
func (l *Loop) Run(src Sources) {
	timer := l.clk.Timer(time.Hour)
	timer.Stop()
	armed := false

	l.reschedule(timer, &armed)

	for {
		var wake <-chan time.Time
		if armed {
			wake = timer.C
		}

		changed := false

		select {
		case <-src.Stop:
			timer.Stop()
			return

		case ev, ok := <-src.Gamepad:
			if !ok {
				timer.Stop()
				return
			}
			l.handleGamepadEvent(ev)
			changed = true

		case cmd := <-src.Control:
			l.handleControlCommand(cmd)

		case now := <-wake:
			l.onWake(now)
			changed = true
		}

		changed = l.drainFocus(src.Focus) || changed
		changed = l.drainProfile(src.Profile) || changed

		if changed {
			l.reschedule(timer, &armed)
		}
	}
}

// drainFocus non-blockingly drains every pending focus event; only the
// last one observed matters since SetActiveApp is idempotent for a
// repeated app id.
func (l *Loop) drainFocus(focus <-chan gamacros.FocusEvent) bool {
	if focus == nil {
		return false
	}
	changed := false
	for {
		select {
		case ev, ok := <-focus:
			if !ok {
				return changed
			}
			l.core.SetActiveApp(ev.BundleID)
			changed = true
		default:
			return changed
		}
	}
}

// drainProfile non-blockingly drains every pending profile event.
func (l *Loop) drainProfile(profiles <-chan profile.Event) bool {
	if profiles == nil {
		return false
	}
	changed := false
	for {
		select {
		case ev, ok := <-profiles:
			if !ok {
				return changed
			}
			l.handleProfileEvent(ev)
			changed = true
		default:
			return changed
		}
	}
}

func (l *Loop) handleGamepadEvent(ev gamacros.ControllerEvent) {
	sink := l.sinkWithRumble()
	switch e := ev.(type) {
	case gamacros.EventConnected:
		l.core.AddController(e.Info)
	case gamacros.EventDisconnected:
		l.core.RemoveController(e.ID)
	case gamacros.EventButtonPressed:
		l.core.OnButton(e.ID, e.Button, gamacros.PhasePressed, sink)
	case gamacros.EventButtonReleased:
		l.core.OnButton(e.ID, e.Button, gamacros.PhaseReleased, sink)
	case gamacros.EventAxisMotion:
		l.core.OnAxis(e.ID, e.Axis, e.Value)
	}
}

func (l *Loop) handleProfileEvent(ev profile.Event) {
	switch ev.Kind {
	case profile.EventChanged:
		l.core.SetProfile(ev.Profile)
		if l.ProfileApplied != nil {
			l.ProfileApplied(ev.Profile)
		}
	case profile.EventRemoved:
		l.core.ClearProfile()
		if l.ProfileApplied != nil {
			l.ProfileApplied(nil)
		}
	case profile.EventError:
		if l.log != nil {
			l.log.Warn("profile: reload failed, keeping previous profile", zap.Error(ev.Err))
		}
	}
}

// handleControlCommand carries out a command from the local control
// transport. Rumble bypasses the core's button-rule path entirely: a
// directly issued command is not gated by any button rule's vibrate
// setting.
func (l *Loop) handleControlCommand(cmd gamacros.ControlCommand) {
	rumble, ok := cmd.(gamacros.ControlRumble)
	if !ok || l.rumble == nil {
		return
	}
	if rumble.ID != nil {
		l.rumble(*rumble.ID, rumble.Ms)
		return
	}
	for _, id := range l.core.ControllerIDs() {
		l.rumble(id, rumble.Ms)
	}
}

// onWake runs a tick only when the armed wake was the tick deadline, then
// always drains due repeats. A wake armed for an earlier repeat deadline
// must not tick: MouseMove/Scroll deltas are scaled to the tick period, so
// an extra tick would over-sample them.
func (l *Loop) onWake(now time.Time) {
	if l.nextWakeIsTick {
		l.core.OnTick(now, l.sinkWithRumble())
	}
	l.core.ProcessDueRepeats(now, l.sinkWithRumble())
}

// reschedule recomputes the single coalesced wake timer from the earlier of
// the next stick tick and the next repeat deadline, tracking a 250ms sticky
// window so fast mode doesn't oscillate with every tiny dip in axis
// magnitude.
func (l *Loop) reschedule(timer *clock.Timer, armed *bool) {
	now := l.clk.Now()

	var nextTick time.Time
	haveTick := false
	if l.core.NeedsTick() {
		haveTick = true
		if l.core.WantsFastTick() {
			l.fastUntil = now.Add(fastStickyWindow)
			l.inFastWindow = true
		}
		period := idlePeriod
		if l.inFastWindow && now.Before(l.fastUntil) {
			period = fastPeriod
		} else {
			l.inFastWindow = false
		}
		nextTick = now.Add(period)
	} else {
		l.inFastWindow = false
	}

	nextRepeat, haveRepeat := l.core.NextRepeatDue()

	due, have := earliest(nextTick, haveTick, nextRepeat, haveRepeat)
	l.nextWakeIsTick = haveTick && (!haveRepeat || !nextRepeat.Before(nextTick))
	timer.Stop()
	if !have {
		*armed = false
		return
	}
	d := due.Sub(now)
	if d < 0 {
		d = 0
	}
	timer.Reset(d)
	*armed = true
}

func earliest(a time.Time, haveA bool, b time.Time, haveB bool) (time.Time, bool) {
	switch {
	case haveA && haveB:
		if a.Before(b) {
			return a, true
		}
		return b, true
	case haveA:
		return a, true
	case haveB:
		return b, true
	default:
		return time.Time{}, false
	}
}

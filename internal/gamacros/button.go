package gamacros

import "fmt"

// onButton applies the device remap, updates the pressed chord, and
// resolves the winning rule(s) by maximum cardinality.
//
// id must be a known, connected controller: an unknown id here is a caller
// bug and panics. OnAxis, by contrast, tolerates a straggling event from a
// just-removed device, since axis state is harmless to drop.
func (g *Gamacros) onButton(id ControllerID, button Button, phase Phase, sink Sink) {
	cs, ok := g.controllers[id]
	if !ok {
		panic(fmt.Sprintf("gamacros: OnButton for unknown controller %d; AddController must precede button events", id))
	}

	mapped := cs.remapped(button)

	prev := cs.pressed
	now := cs.pressed
	switch phase {
	case PhasePressed:
		now.Insert(mapped)
	case PhaseReleased:
		now.Remove(mapped)
	}
	cs.pressed = now

	if g.activeRules == nil {
		return
	}
	resolveChords(*g.activeRules, prev, now, phase, cs, sink)
}

// resolveChords implements two-pass maximum-cardinality resolution: the
// longest chord that fires wins. prev/now are the pressed bitmasks
// immediately before/after the transition being processed.
func resolveChords(rules AppRules, prev, now Chord, phase Phase, cs *controllerState, sink Sink) {
	fires := func(chord Chord) bool {
		switch phase {
		case PhasePressed:
			return prev.IsSuperset(chord) != now.IsSuperset(chord)
		case PhaseReleased:
			return prev.IsSuperset(chord) && !now.IsSuperset(chord)
		default:
			return false
		}
	}

	maxBits := 0
	for chord := range rules.Buttons {
		if !fires(chord) {
			continue
		}
		if n := chord.Count(); n > maxBits {
			maxBits = n
		}
	}
	if maxBits == 0 {
		return
	}

	for chord, rule := range rules.Buttons {
		if chord.Count() != maxBits || !fires(chord) {
			continue
		}
		dispatchRule(rule, phase, cs, sink)
	}
}

func dispatchRule(rule ButtonRule, phase Phase, cs *controllerState, sink Sink) {
	switch phase {
	case PhasePressed:
		if rule.Vibrate != nil && cs.supportsRumble {
			sink.Emit(ActionRumble{ID: cs.info.ID, Ms: uint32(*rule.Vibrate)})
		}
		switch rule.Action.Kind {
		case ActionKindKeystroke:
			sink.Emit(ActionKeyPress{Combo: rule.Action.Keystroke})
		case ActionKindMacros:
			sink.Emit(ActionMacros{Combos: rule.Action.Macros})
		case ActionKindShell:
			sink.Emit(ActionShell{Command: rule.Action.Shell})
		}
	case PhaseReleased:
		if rule.Action.Kind == ActionKindKeystroke {
			sink.Emit(ActionKeyRelease{Combo: rule.Action.Keystroke})
		}
	}
}

package profile

import (
	"fmt"
	"strings"

	"github.com/gamacros/gamacrosd/internal/gamacros"
	"github.com/gamacros/gamacrosd/internal/keycombo"
)

// parseChordKey parses a '+'-joined list of button names (e.g. "LeftShoulder+A")
// into a Chord, case-insensitively.
func parseChordKey(key string) (gamacros.Chord, error) {
	names := strings.Split(key, "+")
	if len(names) == 0 {
		return gamacros.Chord{}, fmt.Errorf("profile: empty chord key")
	}
	var buttons []gamacros.Button
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return gamacros.Chord{}, fmt.Errorf("profile: empty button name in chord %q", key)
		}
		b, ok := gamacros.ButtonByName(n)
		if !ok {
			return gamacros.Chord{}, fmt.Errorf("profile: unknown button name %q in chord %q", n, key)
		}
		buttons = append(buttons, b)
	}
	return gamacros.NewChord(buttons...), nil
}

func parseButtonAction(raw rawButtonRule) (gamacros.ButtonAction, error) {
	set := 0
	if raw.Keystroke != "" {
		set++
	}
	if len(raw.Macros) > 0 {
		set++
	}
	if raw.Shell != "" {
		set++
	}
	if set != 1 {
		return gamacros.ButtonAction{}, fmt.Errorf("profile: button rule must set exactly one of keystroke/macros/shell")
	}

	switch {
	case raw.Keystroke != "":
		combo, err := keycombo.Parse(raw.Keystroke)
		if err != nil {
			return gamacros.ButtonAction{}, fmt.Errorf("profile: unparseable keystroke %q: %w", raw.Keystroke, err)
		}
		return gamacros.ButtonAction{Kind: gamacros.ActionKindKeystroke, Keystroke: combo}, nil
	case len(raw.Macros) > 0:
		combos := make([]gamacros.KeyCombo, 0, len(raw.Macros))
		for _, m := range raw.Macros {
			combo, err := keycombo.Parse(m)
			if err != nil {
				return gamacros.ButtonAction{}, fmt.Errorf("profile: unparseable macro keystroke %q: %w", m, err)
			}
			combos = append(combos, combo)
		}
		return gamacros.ButtonAction{Kind: gamacros.ActionKindMacros, Macros: combos}, nil
	default:
		return gamacros.ButtonAction{Kind: gamacros.ActionKindShell, Shell: raw.Shell}, nil
	}
}

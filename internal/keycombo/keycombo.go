// Package keycombo parses and prints the KeyCombo format used by profile
// YAML: a '+'-separated list of modifier
// aliases and key names, e.g. "ctrl+shift+a" or "cmd+arrow_up".
package keycombo

import (
	"fmt"
	"strings"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// modifierAliases maps every recognized spelling (already lowercased) to its
// canonical Modifier.
var modifierAliases = map[string]gamacros.Modifier{
	"ctrl":    gamacros.ModCtrl,
	"control": gamacros.ModCtrl,
	"meta":    gamacros.ModMeta,
	"cmd":     gamacros.ModMeta,
	"command": gamacros.ModMeta,
	"super":   gamacros.ModMeta,
	"win":     gamacros.ModMeta,
	"shift":   gamacros.ModShift,
	"alt":     gamacros.ModAlt,
	"option":  gamacros.ModAlt,
}

// keyAliases maps non-canonical spellings to the name Print emits.
var keyAliases = map[string]string{
	"esc": "escape",
}

// namedKeys is the set of multi-character key names Parse accepts beyond a
// single printable character. Function keys and kp_0..kp_9 are recognized
// programmatically rather than listed here (see isFunctionKey/isKeypadKey).
var namedKeys = map[string]bool{
	"escape":          true,
	"home":            true,
	"end":             true,
	"pageup":          true,
	"pagedown":        true,
	"insert":          true,
	"delete":          true,
	"backspace":       true,
	"tab":             true,
	"enter":           true,
	"return":          true,
	"space":           true,
	"arrow_up":        true,
	"arrow_down":      true,
	"arrow_left":      true,
	"arrow_right":     true,
	"volume_up":       true,
	"volume_down":     true,
	"volume_mute":     true,
	"brightness_up":   true,
	"brightness_down": true,
}

func isFunctionKey(s string) bool {
	if len(s) < 2 || s[0] != 'f' {
		return false
	}
	n := 0
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n >= 1 && n <= 20
}

func isKeypadKey(s string) bool {
	return len(s) == 4 && strings.HasPrefix(s, "kp_") && s[3] >= '0' && s[3] <= '9'
}

// Parse parses a '+'-separated KeyCombo string such as "ctrl+shift+a" or
// "cmd+arrow_up". Empty input, an empty term (from "++" or a leading/
// trailing '+'), or a term that is neither a recognized modifier, a
// recognized named key, nor a single printable character, is an error.
func Parse(s string) (gamacros.KeyCombo, error) {
	if s == "" {
		return gamacros.KeyCombo{}, fmt.Errorf("keycombo: empty input")
	}
	terms := strings.Split(s, "+")

	combo := gamacros.KeyCombo{Modifiers: make(map[gamacros.Modifier]bool)}
	sawKey := false

	for i, term := range terms {
		if term == "" {
			return gamacros.KeyCombo{}, fmt.Errorf("keycombo: empty term in %q", s)
		}
		lower := strings.ToLower(term)

		if mod, ok := modifierAliases[lower]; ok {
			combo.Modifiers[mod] = true
			continue
		}

		key, err := parseKeyTerm(lower)
		if err != nil {
			return gamacros.KeyCombo{}, fmt.Errorf("keycombo: term %d of %q: %w", i, s, err)
		}
		combo.Keys = append(combo.Keys, key)
		sawKey = true
	}

	if !sawKey {
		return gamacros.KeyCombo{}, fmt.Errorf("keycombo: %q has modifiers but no key", s)
	}
	return combo, nil
}

func parseKeyTerm(lower string) (gamacros.Key, error) {
	if canon, ok := keyAliases[lower]; ok {
		return gamacros.Key(canon), nil
	}
	if namedKeys[lower] {
		return gamacros.Key(lower), nil
	}
	if isFunctionKey(lower) {
		return gamacros.Key(lower), nil
	}
	if isKeypadKey(lower) {
		return gamacros.Key(lower), nil
	}
	if len([]rune(lower)) == 1 {
		return gamacros.Key(lower), nil
	}
	return "", fmt.Errorf("unrecognized key %q", lower)
}

// modifierOrder fixes Print's modifier emission order so output is
// deterministic; parse ∘ print ∘ parse stability does not require this
// order to match what was originally typed.
var modifierOrder = []gamacros.Modifier{
	gamacros.ModCtrl,
	gamacros.ModMeta,
	gamacros.ModShift,
	gamacros.ModAlt,
}

var modifierNames = map[gamacros.Modifier]string{
	gamacros.ModCtrl:  "ctrl",
	gamacros.ModMeta:  "meta",
	gamacros.ModShift: "shift",
	gamacros.ModAlt:   "alt",
}

// Print renders a KeyCombo back into '+'-separated form. The output is
// canonical (fixed modifier order, canonical key spellings) but Parse only
// guarantees print(parse(s)) round-trips through a second parse, not that it
// reproduces s byte-for-byte.
func Print(k gamacros.KeyCombo) string {
	var parts []string
	for _, m := range modifierOrder {
		if k.Modifiers[m] {
			parts = append(parts, modifierNames[m])
		}
	}
	for _, key := range k.Keys {
		parts = append(parts, string(key))
	}
	return strings.Join(parts, "+")
}

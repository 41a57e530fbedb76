package keycombo

import (
	"testing"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

func TestParseModifierAliasesNormalizeToCanonical(t *testing.T) {
	cases := []string{"cmd+a", "command+a", "super+a", "win+a"}
	for _, s := range cases {
		k, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if !k.HasModifier(gamacros.ModMeta) {
			t.Fatalf("Parse(%q): expected meta modifier, got %+v", s, k)
		}
	}
}

func TestParseOptionIsAlt(t *testing.T) {
	k, err := Parse("option+x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !k.HasModifier(gamacros.ModAlt) {
		t.Fatalf("expected alt modifier, got %+v", k)
	}
}

func TestParseEscAliasesToEscape(t *testing.T) {
	k, err := Parse("esc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(k.Keys) != 1 || k.Keys[0] != "escape" {
		t.Fatalf("expected canonical key 'escape', got %+v", k.Keys)
	}
}

func TestParseNamedKeysAndFunctionAndKeypad(t *testing.T) {
	names := []string{
		"home", "arrow_up", "arrow_down", "arrow_left", "arrow_right",
		"volume_up", "volume_down", "volume_mute",
		"brightness_up", "brightness_down",
		"f1", "f12", "f20",
		"kp_0", "kp_9",
	}
	for _, n := range names {
		k, err := Parse(n)
		if err != nil {
			t.Fatalf("Parse(%q): %v", n, err)
		}
		if len(k.Keys) != 1 || string(k.Keys[0]) != n {
			t.Fatalf("Parse(%q): expected key %q, got %+v", n, n, k.Keys)
		}
	}
}

func TestParseSinglePrintableCharacter(t *testing.T) {
	k, err := Parse("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(k.Keys) != 1 || k.Keys[0] != "a" {
		t.Fatalf("expected key 'a', got %+v", k.Keys)
	}
}

func TestParseFullComboWithMultipleModifiers(t *testing.T) {
	k, err := Parse("ctrl+shift+alt+meta+a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range []gamacros.Modifier{gamacros.ModCtrl, gamacros.ModShift, gamacros.ModAlt, gamacros.ModMeta} {
		if !k.HasModifier(m) {
			t.Fatalf("expected modifier %v set, got %+v", m, k.Modifiers)
		}
	}
	if len(k.Modifiers) != 4 {
		t.Fatalf("expected exactly 4 modifiers set, got %+v", k.Modifiers)
	}
}

func TestParseEmptyInputIsError(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatalf("expected error on empty input")
	}
}

func TestParseTrailingPlusIsError(t *testing.T) {
	if _, err := Parse("ctrl+"); err == nil {
		t.Fatalf("expected error on trailing '+'")
	}
}

func TestParseLeadingPlusIsError(t *testing.T) {
	if _, err := Parse("+a"); err == nil {
		t.Fatalf("expected error on leading '+'")
	}
}

func TestParseDoublePlusIsError(t *testing.T) {
	if _, err := Parse("ctrl++a"); err == nil {
		t.Fatalf("expected error on double '+'")
	}
}

func TestParseModifiersOnlyNoKeyIsError(t *testing.T) {
	if _, err := Parse("ctrl+shift"); err == nil {
		t.Fatalf("expected error when combo has modifiers but no key")
	}
}

func TestParseUnrecognizedTermIsError(t *testing.T) {
	if _, err := Parse("nonsense_key_name"); err == nil {
		t.Fatalf("expected error for unrecognized multi-char term")
	}
}

func TestParseFunctionKeyOutOfRangeIsError(t *testing.T) {
	for _, s := range []string{"f0", "f21", "f99"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected error for out-of-range function key %q", s)
		}
	}
}

func TestParsePrintParseRoundTrip(t *testing.T) {
	inputs := []string{
		"a", "ctrl+a", "shift+alt+f1", "cmd+arrow_up", "kp_5",
		"meta+volume_mute", "ctrl+shift+alt+meta+z", "brightness_down",
		"esc",
	}
	for _, s := range inputs {
		k1, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		printed := Print(k1)
		k2, err := Parse(printed)
		if err != nil {
			t.Fatalf("Parse(Print(Parse(%q)))=%q: %v", s, printed, err)
		}
		if Print(k2) != printed {
			t.Fatalf("round trip unstable: %q -> %q -> %q", s, printed, Print(k2))
		}
	}
}

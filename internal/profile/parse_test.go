package profile

import (
	"strings"
	"testing"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

func TestParseMinimalProfile(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    buttons:
      A:
        keystroke: a
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rules, ok := p.RulesFor("com.apple.Terminal")
	if !ok {
		t.Fatalf("expected rules for com.apple.Terminal")
	}
	rule, ok := rules.Buttons[gamacros.NewChord(gamacros.ButtonA)]
	if !ok {
		t.Fatalf("expected rule for A, got %+v", rules.Buttons)
	}
	if rule.Action.Kind != gamacros.ActionKindKeystroke || rule.Action.Keystroke.Keys[0] != "a" {
		t.Fatalf("unexpected action: %+v", rule.Action)
	}
}

func TestParseUnsupportedVersionIsError(t *testing.T) {
	_, err := Parse([]byte("version: 2\n"))
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestParseControllerVidPidHexAndInt(t *testing.T) {
	src := `
version: 1
controllers:
  - vid: 0x1234
    pid: 5678
    remap:
      A: B
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cp, ok := p.ControllerProfileFor(0x1234, 5678)
	if !ok {
		t.Fatalf("expected controller profile for (0x1234, 5678)")
	}
	if cp.Remap[gamacros.ButtonA] != gamacros.ButtonB {
		t.Fatalf("expected A->B remap, got %+v", cp.Remap)
	}
}

func TestParseGroupSelectorExpansion(t *testing.T) {
	src := `
version: 1
groups:
  browsers:
    - com.google.Chrome
    - org.mozilla.firefox
rules:
  $browsers:
    buttons:
      A:
        keystroke: a
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bundle := range []string{"com.google.Chrome", "org.mozilla.firefox"} {
		if _, ok := p.RulesFor(bundle); !ok {
			t.Fatalf("expected rules for %s via group expansion", bundle)
		}
	}
}

func TestParseSelectorWithMultipleTerms(t *testing.T) {
	src := `
version: 1
groups:
  browsers:
    - com.google.Chrome
rules:
  $browsers|com.apple.Terminal:
    buttons:
      A:
        keystroke: a
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bundle := range []string{"com.google.Chrome", "com.apple.Terminal"} {
		if _, ok := p.RulesFor(bundle); !ok {
			t.Fatalf("expected rules for %s", bundle)
		}
	}
}

func TestParseCommonMergesAsDefaultsAppWins(t *testing.T) {
	src := `
version: 1
rules:
  common:
    buttons:
      A:
        keystroke: a
      B:
        keystroke: c
  com.apple.Terminal:
    buttons:
      B:
        keystroke: d
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rules, ok := p.RulesFor("com.apple.Terminal")
	if !ok {
		t.Fatalf("expected rules for com.apple.Terminal")
	}
	a := rules.Buttons[gamacros.NewChord(gamacros.ButtonA)]
	if a.Action.Keystroke.Keys[0] != "a" {
		t.Fatalf("expected common's A rule inherited, got %+v", a)
	}
	b := rules.Buttons[gamacros.NewChord(gamacros.ButtonB)]
	if b.Action.Keystroke.Keys[0] != "d" {
		t.Fatalf("expected app's B rule to override common's, got %+v", b)
	}
	// "common" itself must never appear as an addressable bundle.
	if _, ok := p.RulesFor("common"); ok {
		t.Fatalf("expected 'common' to not be directly addressable")
	}
}

func TestParseBlacklistSuppressesRules(t *testing.T) {
	src := `
version: 1
blacklist:
  - com.apple.Terminal
rules:
  com.apple.Terminal:
    buttons:
      A:
        keystroke: a
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.RulesFor("com.apple.Terminal"); ok {
		t.Fatalf("expected blacklisted bundle to have no rules")
	}
}

func TestParseMalformedSelectorErrors(t *testing.T) {
	cases := []string{"|com.apple.Terminal", "com.apple.Terminal|", "a||b"}
	for _, sel := range cases {
		src := "version: 1\nrules:\n  \"" + sel + "\":\n    buttons: {}\n"
		if _, err := Parse([]byte(src)); err == nil {
			t.Fatalf("expected malformed-selector error for %q", sel)
		}
	}
}

func TestParseUnknownGroupIsError(t *testing.T) {
	src := `
version: 1
rules:
  $nonexistent:
    buttons: {}
`
	if _, err := Parse([]byte(src)); err == nil {
		t.Fatalf("expected unknown-group error")
	}
}

func TestParseUnknownButtonNameIsError(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    buttons:
      NotAButton:
        keystroke: a
`
	if _, err := Parse([]byte(src)); err == nil {
		t.Fatalf("expected unknown-button error")
	}
}

func TestParseUnparseableKeystrokeIsError(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    buttons:
      A:
        keystroke: "ctrl+"
`
	if _, err := Parse([]byte(src)); err == nil {
		t.Fatalf("expected unparseable-keystroke error")
	}
}

func TestParseInvalidStickModeIsError(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    sticks:
      left:
        mode: not_a_mode
`
	if _, err := Parse([]byte(src)); err == nil {
		t.Fatalf("expected invalid-stick-mode error")
	}
}

func TestParseInvalidStickAxisIsError(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    sticks:
      left:
        mode: volume
        axis: z
`
	if _, err := Parse([]byte(src)); err == nil {
		t.Fatalf("expected invalid-axis error")
	}
}

func TestParseInvalidStickSideIsError(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    sticks:
      diagonal:
        mode: arrows
`
	if _, err := Parse([]byte(src)); err == nil {
		t.Fatalf("expected invalid-side error")
	}
}

func TestParseArrowsDefaultInvertYTrueMouseMoveDefaultFalse(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    sticks:
      left:
        mode: arrows
        deadzone: 0.2
      right:
        mode: mouse_move
        deadzone: 0.1
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rules, _ := p.RulesFor("com.apple.Terminal")
	if !rules.Sticks[gamacros.SideLeft].InvertY {
		t.Fatalf("expected Arrows to default invert_y=true")
	}
	if rules.Sticks[gamacros.SideRight].InvertY {
		t.Fatalf("expected MouseMove to default invert_y=false")
	}
}

func TestParseVibrateAndMacros(t *testing.T) {
	src := `
version: 1
rules:
  com.apple.Terminal:
    buttons:
      "LeftShoulder+A":
        macros:
          - a
          - b
        vibrate: 150
`
	p, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rules, _ := p.RulesFor("com.apple.Terminal")
	chord := gamacros.NewChord(gamacros.ButtonLeftShoulder, gamacros.ButtonA)
	rule, ok := rules.Buttons[chord]
	if !ok {
		t.Fatalf("expected rule for LeftShoulder+A chord")
	}
	if rule.Action.Kind != gamacros.ActionKindMacros || len(rule.Action.Macros) != 2 {
		t.Fatalf("expected 2-step macro, got %+v", rule.Action)
	}
	if rule.Vibrate == nil || *rule.Vibrate != 150 {
		t.Fatalf("expected vibrate=150, got %+v", rule.Vibrate)
	}
}

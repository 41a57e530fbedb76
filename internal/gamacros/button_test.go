package gamacros

import (
	"reflect"
	"testing"
)

func kc(s string) KeyCombo {
	return KeyCombo{Keys: []Key{Key(s)}}
}

func keystroke(s string) ButtonAction {
	return ButtonAction{Kind: ActionKindKeystroke, Keystroke: kc(s)}
}

// newDemoProfile builds a profile for app "demo" with A -> keystroke "x"
// and Ctrl+A -> keystroke "y", where Ctrl is modeled as LeftShoulder for
// the test.
func newDemoProfile() *Profile {
	buttons := map[Chord]ButtonRule{
		NewChord(ButtonA):                     {Action: keystroke("x")},
		NewChord(ButtonLeftShoulder, ButtonA): {Action: keystroke("y")},
	}
	return &Profile{
		Rules: map[BundleID]AppRules{
			"demo": {Buttons: buttons},
		},
	}
}

func TestScenario1ChordResolutionOnActivationEdge(t *testing.T) {
	g := New()
	g.AddController(ControllerInfo{ID: 1})
	g.SetProfile(newDemoProfile())
	g.SetActiveApp("demo")

	s1 := &CollectingSink{}
	g.OnButton(1, ButtonLeftShoulder, PhasePressed, s1)
	if len(s1.Actions) != 0 {
		t.Fatalf("expected no actions after pressing LeftShoulder alone, got %+v", s1.Actions)
	}

	s2 := &CollectingSink{}
	g.OnButton(1, ButtonA, PhasePressed, s2)
	want := []Action{ActionKeyPress{Combo: kc("y")}}
	if !reflect.DeepEqual(s2.Actions, want) {
		t.Fatalf("expected only KeyPress(y), got %+v", s2.Actions)
	}
}

func TestScenario2ReleaseSemantics(t *testing.T) {
	g := New()
	g.AddController(ControllerInfo{ID: 1})
	g.SetProfile(newDemoProfile())
	g.SetActiveApp("demo")

	g.OnButton(1, ButtonLeftShoulder, PhasePressed, &CollectingSink{})
	g.OnButton(1, ButtonA, PhasePressed, &CollectingSink{})

	s1 := &CollectingSink{}
	g.OnButton(1, ButtonA, PhaseReleased, s1)
	want := []Action{ActionKeyRelease{Combo: kc("y")}}
	if !reflect.DeepEqual(s1.Actions, want) {
		t.Fatalf("expected only KeyRelease(y), got %+v", s1.Actions)
	}

	s2 := &CollectingSink{}
	g.OnButton(1, ButtonLeftShoulder, PhaseReleased, s2)
	if len(s2.Actions) != 0 {
		t.Fatalf("expected no actions releasing LeftShoulder alone, got %+v", s2.Actions)
	}
}

func TestScenario5RumbleSuppression(t *testing.T) {
	ms := uint16(200)
	rules := AppRules{
		Buttons: map[Chord]ButtonRule{
			NewChord(ButtonA): {Action: keystroke("z"), Vibrate: &ms},
		},
	}
	g := New()
	g.AddController(ControllerInfo{ID: 1, SupportsRumble: false})
	g.SetProfile(&Profile{Rules: map[BundleID]AppRules{"demo": rules}})
	g.SetActiveApp("demo")

	s := &CollectingSink{}
	g.OnButton(1, ButtonA, PhasePressed, s)
	want := []Action{ActionKeyPress{Combo: kc("z")}}
	if !reflect.DeepEqual(s.Actions, want) {
		t.Fatalf("expected only KeyPress(z), no Rumble, got %+v", s.Actions)
	}
}

func TestRumbleEmittedWhenSupported(t *testing.T) {
	ms := uint16(200)
	rules := AppRules{
		Buttons: map[Chord]ButtonRule{
			NewChord(ButtonA): {Action: keystroke("z"), Vibrate: &ms},
		},
	}
	g := New()
	g.AddController(ControllerInfo{ID: 1, SupportsRumble: true})
	g.SetProfile(&Profile{Rules: map[BundleID]AppRules{"demo": rules}})
	g.SetActiveApp("demo")

	s := &CollectingSink{}
	g.OnButton(1, ButtonA, PhasePressed, s)
	want := []Action{
		ActionRumble{ID: 1, Ms: 200},
		ActionKeyPress{Combo: kc("z")},
	}
	if !reflect.DeepEqual(s.Actions, want) {
		t.Fatalf("expected Rumble then KeyPress(z), got %+v", s.Actions)
	}
}

func TestShellOnlyFiresOnPressNotRelease(t *testing.T) {
	rules := AppRules{
		Buttons: map[Chord]ButtonRule{
			NewChord(ButtonA): {Action: ButtonAction{Kind: ActionKindShell, Shell: "echo hi"}},
		},
	}
	g := New()
	g.AddController(ControllerInfo{ID: 1})
	g.SetProfile(&Profile{Rules: map[BundleID]AppRules{"demo": rules}})
	g.SetActiveApp("demo")

	press := &CollectingSink{}
	g.OnButton(1, ButtonA, PhasePressed, press)
	if len(press.Actions) != 1 {
		t.Fatalf("expected shell action on press, got %+v", press.Actions)
	}

	release := &CollectingSink{}
	g.OnButton(1, ButtonA, PhaseReleased, release)
	if len(release.Actions) != 0 {
		t.Fatalf("expected no action on shell-rule release, got %+v", release.Actions)
	}
}

func TestOnButtonPanicsOnUnknownController(t *testing.T) {
	g := New()
	g.SetProfile(newDemoProfile())
	g.SetActiveApp("demo")

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown controller id")
		}
	}()
	g.OnButton(99, ButtonA, PhasePressed, &CollectingSink{})
}

func TestNoActiveRulesIsNoop(t *testing.T) {
	g := New()
	g.AddController(ControllerInfo{ID: 1})
	// No profile installed at all.
	s := &CollectingSink{}
	g.OnButton(1, ButtonA, PhasePressed, s)
	if len(s.Actions) != 0 {
		t.Fatalf("expected no-op with no profile, got %+v", s.Actions)
	}
}

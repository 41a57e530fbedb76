package gamacros

// ButtonAction is the effect a ButtonRule produces. Exactly one of the
// fields below is meaningful for a given value, discriminated by Kind.
type ButtonActionKind int

const (
	ActionKindKeystroke ButtonActionKind = iota
	ActionKindMacros
	ActionKindShell
)

type ButtonAction struct {
	Kind      ButtonActionKind
	Keystroke KeyCombo
	Macros    []KeyCombo
	Shell     string
}

// ButtonRule pairs an action with an optional rumble pulse.
type ButtonRule struct {
	Action  ButtonAction
	Vibrate *uint16 // milliseconds; nil means no rumble
}

// StickModeKind discriminates the StickMode variants.
type StickModeKind int

const (
	StickModeArrows StickModeKind = iota
	StickModeVolume
	StickModeBrightness
	StickModeMouseMove
	StickModeScroll
)

// StickAxisSelector picks which axis of a stick a Volume/Brightness mode
// reads.
type StickAxisSelector int

const (
	StickAxisX StickAxisSelector = iota
	StickAxisY
)

// StickMode is a tagged union of the five stick-processing modes, each
// carrying only the fields relevant to its Kind.
type StickMode struct {
	Kind StickModeKind

	// Arrows
	Deadzone         float32
	RepeatDelayMs    uint32
	RepeatIntervalMs uint32
	InvertX          bool
	InvertY          bool

	// Volume / Brightness
	Axis          StickAxisSelector
	MinIntervalMs uint32
	MaxIntervalMs uint32
	Invert        bool

	// MouseMove
	MaxSpeedPxS float32
	Gamma       float32

	// Scroll
	SpeedLinesS float32
	Horizontal  bool
}

// AppRules is the set of button and stick bindings active for one
// application.
type AppRules struct {
	Buttons map[Chord]ButtonRule
	Sticks  map[Side]StickMode
}

// ControllerKey identifies a controller model for remap lookup.
type ControllerKey struct {
	VendorID  uint16
	ProductID uint16
}

// ControllerProfile carries the per-model button remap table.
type ControllerProfile struct {
	Remap map[Button]Button
}

// BundleID is the platform identifier of a focused application, treated as
// an opaque string by the core.
type BundleID = string

// Profile is an immutable snapshot; it is never mutated in place, only
// replaced wholesale.
type Profile struct {
	Controllers map[ControllerKey]ControllerProfile
	Blacklist   map[string]struct{}
	Rules       map[BundleID]AppRules
	Shell       string
}

// RulesFor returns the AppRules active for a bundle id, if any. A
// blacklisted or unconfigured app yields (AppRules{}, false), which the
// core treats as "no actions" rather than an error.
func (p *Profile) RulesFor(bundle BundleID) (AppRules, bool) {
	if p == nil {
		return AppRules{}, false
	}
	if _, blocked := p.Blacklist[bundle]; blocked {
		return AppRules{}, false
	}
	r, ok := p.Rules[bundle]
	return r, ok
}

// ControllerProfileFor looks up the remap table for a (vendor, product)
// pair, returning ok=false when the profile has no entry (identity remap
// applies).
func (p *Profile) ControllerProfileFor(vendor, product uint16) (ControllerProfile, bool) {
	if p == nil {
		return ControllerProfile{}, false
	}
	cp, ok := p.Controllers[ControllerKey{VendorID: vendor, ProductID: product}]
	return cp, ok
}

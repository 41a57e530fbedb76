package gamacros

// Chord is an unordered set of buttons that must be held simultaneously to
// match a ButtonRule. A chord used as a rule key must be non-empty; Bitmask
// itself has no such restriction.
type Chord = Bitmask[Button]

// NewChord builds a Chord from a list of buttons, deduplicating via the
// underlying bitmask union.
func NewChord(buttons ...Button) Chord {
	return NewBitmask(buttons...)
}

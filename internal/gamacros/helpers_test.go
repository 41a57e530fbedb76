package gamacros

import "time"

// fixedNow returns a stable base instant for deterministic scheduler tests.
func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

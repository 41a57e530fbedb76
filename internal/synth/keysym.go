package synth

import "github.com/gamacros/gamacrosd/internal/gamacros"

// X11 keysym values (from <X11/keysymdef.h>), covering the named keys
// internal/keycombo recognizes plus printable ASCII.
const (
	keysymBackspace      = 0xff08
	keysymTab            = 0xff09
	keysymReturn         = 0xff0d
	keysymEscape         = 0xff1b
	keysymSpace          = 0x0020
	keysymDelete         = 0xffff
	keysymHome           = 0xff50
	keysymEnd            = 0xff57
	keysymPageUp         = 0xff55
	keysymPageDown       = 0xff56
	keysymInsert         = 0xff63
	keysymUp             = 0xff52
	keysymDown           = 0xff54
	keysymLeft           = 0xff51
	keysymRight          = 0xff53
	keysymVolumeMute     = 0x1008ff12
	keysymVolumeDown     = 0x1008ff11
	keysymVolumeUp       = 0x1008ff13
	keysymBrightnessDown = 0x1008ff03
	keysymBrightnessUp   = 0x1008ff02
	keysymKP0            = 0xffb0
	keysymF1             = 0xffbe
)

var namedKeysyms = map[gamacros.Key]uint32{
	"backspace":       keysymBackspace,
	"tab":             keysymTab,
	"return":          keysymReturn,
	"enter":           keysymReturn,
	"escape":          keysymEscape,
	"space":           keysymSpace,
	"delete":          keysymDelete,
	"home":            keysymHome,
	"end":             keysymEnd,
	"pageup":          keysymPageUp,
	"pagedown":        keysymPageDown,
	"insert":          keysymInsert,
	"arrow_up":        keysymUp,
	"arrow_down":      keysymDown,
	"arrow_left":      keysymLeft,
	"arrow_right":     keysymRight,
	"volume_mute":     keysymVolumeMute,
	"volume_down":     keysymVolumeDown,
	"volume_up":       keysymVolumeUp,
	"brightness_down": keysymBrightnessDown,
	"brightness_up":   keysymBrightnessUp,
}

// KeysymFor resolves a Key to its X11 keysym, handling named keys, f1..f20,
// kp_0..kp_9, and single printable characters (ASCII keysyms equal their
// Latin-1 code point).
func KeysymFor(k gamacros.Key) (uint32, bool) {
	s := string(k)

	if ks, ok := namedKeysyms[k]; ok {
		return ks, true
	}
	if isFunctionKeyName(s) {
		n := functionKeyNumber(s)
		if n >= 1 && n <= 20 {
			return keysymF1 + uint32(n-1), true
		}
		return 0, false
	}
	if len(s) == 4 && s[:3] == "kp_" && s[3] >= '0' && s[3] <= '9' {
		return keysymKP0 + uint32(s[3]-'0'), true
	}
	if r := []rune(s); len(r) == 1 {
		return uint32(r[0]), true
	}
	return 0, false
}

func isFunctionKeyName(s string) bool {
	if len(s) < 2 || s[0] != 'f' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func functionKeyNumber(s string) int {
	n := 0
	for _, c := range s[1:] {
		n = n*10 + int(c-'0')
	}
	return n
}

// ModifierKeysym returns the left-hand variant keysym for a modifier.
func ModifierKeysym(m gamacros.Modifier) uint32 {
	switch m {
	case gamacros.ModCtrl:
		return 0xffe3 // Control_L
	case gamacros.ModMeta:
		return 0xffeb // Super_L
	case gamacros.ModShift:
		return 0xffe1 // Shift_L
	case gamacros.ModAlt:
		return 0xffe9 // Alt_L
	default:
		return 0
	}
}

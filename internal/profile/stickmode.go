package profile

import (
	"fmt"
	"strings"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func parseStickSide(side string) (gamacros.Side, error) {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "left":
		return gamacros.SideLeft, nil
	case "right":
		return gamacros.SideRight, nil
	default:
		return 0, fmt.Errorf("profile: invalid stick side %q", side)
	}
}

func parseStickAxis(axis string) (gamacros.StickAxisSelector, error) {
	switch strings.ToLower(strings.TrimSpace(axis)) {
	case "x":
		return gamacros.StickAxisX, nil
	case "y":
		return gamacros.StickAxisY, nil
	default:
		return 0, fmt.Errorf("profile: invalid stick axis %q", axis)
	}
}

// parseStickMode converts a raw YAML stick-mode entry into a gamacros.StickMode.
// invert_y defaults independently per variant: true for Arrows and Scroll
// (screen-up maps to +1), false for MouseMove.
func parseStickMode(raw rawStickMode) (gamacros.StickMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw.Mode)) {
	case "arrows":
		return gamacros.StickMode{
			Kind:             gamacros.StickModeArrows,
			Deadzone:         raw.Deadzone,
			RepeatDelayMs:    raw.RepeatDelayMs,
			RepeatIntervalMs: raw.RepeatIntervalMs,
			InvertX:          boolOr(raw.InvertX, false),
			InvertY:          boolOr(raw.InvertY, true),
		}, nil

	case "volume", "brightness":
		axis, err := parseStickAxis(raw.Axis)
		if err != nil {
			return gamacros.StickMode{}, err
		}
		kind := gamacros.StickModeVolume
		if strings.ToLower(raw.Mode) == "brightness" {
			kind = gamacros.StickModeBrightness
		}
		return gamacros.StickMode{
			Kind:          kind,
			Deadzone:      raw.Deadzone,
			Axis:          axis,
			MinIntervalMs: raw.MinIntervalMs,
			MaxIntervalMs: raw.MaxIntervalMs,
			Invert:        boolOr(raw.Invert, false),
		}, nil

	case "mouse_move":
		return gamacros.StickMode{
			Kind:        gamacros.StickModeMouseMove,
			Deadzone:    raw.Deadzone,
			MaxSpeedPxS: raw.MaxSpeedPxS,
			Gamma:       raw.Gamma,
			InvertX:     boolOr(raw.InvertX, false),
			InvertY:     boolOr(raw.InvertY, false),
		}, nil

	case "scroll":
		return gamacros.StickMode{
			Kind:        gamacros.StickModeScroll,
			Deadzone:    raw.Deadzone,
			SpeedLinesS: raw.SpeedLinesS,
			Horizontal:  boolOr(raw.Horizontal, false),
			InvertX:     boolOr(raw.InvertX, false),
			InvertY:     boolOr(raw.InvertY, true),
		}, nil

	default:
		return gamacros.StickMode{}, fmt.Errorf("profile: invalid stick mode %q", raw.Mode)
	}
}

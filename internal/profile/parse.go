package profile

import (
	"fmt"
	"sort"

	"github.com/gamacros/gamacrosd/internal/gamacros"
	"gopkg.in/yaml.v3"
)

// Parse validates and converts profile YAML source into a gamacros.Profile
// snapshot.
func Parse(data []byte) (*gamacros.Profile, error) {
	var raw rawProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("profile: invalid yaml: %w", err)
	}

	if raw.Version != supportedVersion {
		return nil, fmt.Errorf("profile: unsupported version %d (expected %d)", raw.Version, supportedVersion)
	}

	controllers := make(map[gamacros.ControllerKey]gamacros.ControllerProfile, len(raw.Controllers))
	for _, rc := range raw.Controllers {
		remap := make(map[gamacros.Button]gamacros.Button, len(rc.Remap))
		for from, to := range rc.Remap {
			fromB, ok := gamacros.ButtonByName(from)
			if !ok {
				return nil, fmt.Errorf("profile: unknown button name %q in controller remap", from)
			}
			toB, ok := gamacros.ButtonByName(to)
			if !ok {
				return nil, fmt.Errorf("profile: unknown button name %q in controller remap", to)
			}
			remap[fromB] = toB
		}
		key := gamacros.ControllerKey{VendorID: uint16(rc.VID), ProductID: uint16(rc.PID)}
		controllers[key] = gamacros.ControllerProfile{Remap: remap}
	}

	blacklist := make(map[string]struct{}, len(raw.Blacklist))
	for _, b := range raw.Blacklist {
		blacklist[b] = struct{}{}
	}

	appRules, err := parseRules(raw.Rules, raw.Groups)
	if err != nil {
		return nil, err
	}

	return &gamacros.Profile{
		Controllers: controllers,
		Blacklist:   blacklist,
		Rules:       appRules,
		Shell:       raw.Shell,
	}, nil
}

// parseRules expands every selector (including $group references) into
// concrete bundle IDs, parses each selector's AppRules once, and merges the
// reserved "common" selector into every other bundle's rules (common first,
// app entries override on key conflict, per DESIGN.md's documented order).
func parseRules(rawRules map[string]rawAppRules, groups map[string][]string) (map[gamacros.BundleID]gamacros.AppRules, error) {
	selectors := make([]string, 0, len(rawRules))
	for sel := range rawRules {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	parsed := make(map[string]gamacros.AppRules, len(rawRules))
	for _, sel := range selectors {
		ar, err := parseAppRules(rawRules[sel])
		if err != nil {
			return nil, fmt.Errorf("profile: selector %q: %w", sel, err)
		}
		parsed[sel] = ar
	}

	common, hasCommon := parsed[reservedCommonSelector]

	result := make(map[gamacros.BundleID]gamacros.AppRules)
	for _, sel := range selectors {
		if sel == reservedCommonSelector {
			continue
		}
		bundles, err := expandSelector(sel, groups)
		if err != nil {
			return nil, err
		}

		merged := parsed[sel]
		if hasCommon {
			merged = mergeCommon(common, merged)
		}
		for _, bundle := range bundles {
			result[bundle] = merged
		}
	}
	return result, nil
}

// mergeCommon builds a copy of common's buttons/sticks maps overlaid with
// app's own entries; app wins key-by-key on conflict.
func mergeCommon(common, app gamacros.AppRules) gamacros.AppRules {
	buttons := make(map[gamacros.Chord]gamacros.ButtonRule, len(common.Buttons)+len(app.Buttons))
	for k, v := range common.Buttons {
		buttons[k] = v
	}
	for k, v := range app.Buttons {
		buttons[k] = v
	}

	sticks := make(map[gamacros.Side]gamacros.StickMode, len(common.Sticks)+len(app.Sticks))
	for k, v := range common.Sticks {
		sticks[k] = v
	}
	for k, v := range app.Sticks {
		sticks[k] = v
	}

	return gamacros.AppRules{Buttons: buttons, Sticks: sticks}
}

func parseAppRules(raw rawAppRules) (gamacros.AppRules, error) {
	buttons := make(map[gamacros.Chord]gamacros.ButtonRule, len(raw.Buttons))
	for key, rb := range raw.Buttons {
		chord, err := parseChordKey(key)
		if err != nil {
			return gamacros.AppRules{}, err
		}
		action, err := parseButtonAction(rb)
		if err != nil {
			return gamacros.AppRules{}, err
		}
		buttons[chord] = gamacros.ButtonRule{Action: action, Vibrate: rb.Vibrate}
	}

	sticks := make(map[gamacros.Side]gamacros.StickMode, len(raw.Sticks))
	for sideStr, rs := range raw.Sticks {
		side, err := parseStickSide(sideStr)
		if err != nil {
			return gamacros.AppRules{}, err
		}
		mode, err := parseStickMode(rs)
		if err != nil {
			return gamacros.AppRules{}, err
		}
		sticks[side] = mode
	}

	return gamacros.AppRules{Buttons: buttons, Sticks: sticks}, nil
}

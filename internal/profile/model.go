// Package profile loads gamacrosd's YAML profile format into an immutable
// gamacros.Profile snapshot, and watches a profile file for changes,
// debouncing editor rename-replace saves.
package profile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// hexOrUint16 unmarshals either a bare YAML integer or a "0x"-prefixed hex
// string into a uint16, so vid/pid entries accept both spellings.
type hexOrUint16 uint16

func (h *hexOrUint16) UnmarshalYAML(node *yaml.Node) error {
	var asInt int
	if err := node.Decode(&asInt); err == nil {
		if asInt < 0 || asInt > 0xFFFF {
			return fmt.Errorf("profile: value %d out of range for u16", asInt)
		}
		*h = hexOrUint16(asInt)
		return nil
	}

	var asStr string
	if err := node.Decode(&asStr); err != nil {
		return fmt.Errorf("profile: expected u16 or hex string, got %q", node.Value)
	}
	s := strings.TrimSpace(asStr)
	base := 10
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return fmt.Errorf("profile: invalid vid/pid %q: %w", asStr, err)
	}
	*h = hexOrUint16(v)
	return nil
}

type rawProfile struct {
	Version     int                    `yaml:"version"`
	Shell       string                 `yaml:"shell"`
	Controllers []rawController        `yaml:"controllers"`
	Blacklist   []string               `yaml:"blacklist"`
	Groups      map[string][]string    `yaml:"groups"`
	Rules       map[string]rawAppRules `yaml:"rules"`
}

type rawController struct {
	VID   hexOrUint16       `yaml:"vid"`
	PID   hexOrUint16       `yaml:"pid"`
	Remap map[string]string `yaml:"remap"`
}

type rawAppRules struct {
	Buttons map[string]rawButtonRule `yaml:"buttons"`
	Sticks  map[string]rawStickMode  `yaml:"sticks"`
}

type rawButtonRule struct {
	Keystroke string   `yaml:"keystroke"`
	Macros    []string `yaml:"macros"`
	Shell     string   `yaml:"shell"`
	Vibrate   *uint16  `yaml:"vibrate"`
}

type rawStickMode struct {
	Mode             string  `yaml:"mode"`
	Deadzone         float32 `yaml:"deadzone"`
	RepeatDelayMs    uint32  `yaml:"repeat_delay_ms"`
	RepeatIntervalMs uint32  `yaml:"repeat_interval_ms"`
	InvertX          *bool   `yaml:"invert_x"`
	InvertY          *bool   `yaml:"invert_y"`
	Axis             string  `yaml:"axis"`
	MinIntervalMs    uint32  `yaml:"min_interval_ms"`
	MaxIntervalMs    uint32  `yaml:"max_interval_ms"`
	Invert           *bool   `yaml:"invert"`
	MaxSpeedPxS      float32 `yaml:"max_speed_px_s"`
	Gamma            float32 `yaml:"gamma"`
	SpeedLinesS      float32 `yaml:"speed_lines_s"`
	Horizontal       *bool   `yaml:"horizontal"`
}

const reservedCommonSelector = "common"

const supportedVersion = 1

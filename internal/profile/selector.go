package profile

import (
	"fmt"
	"strings"
)

// expandSelector splits a '|'-separated selector into bundle IDs, expanding
// any '$group' term against groups. Returns an error for malformed shapes:
// leading/trailing/double '|', or an unknown group reference.
func expandSelector(selector string, groups map[string][]string) ([]string, error) {
	if selector == "" {
		return nil, fmt.Errorf("profile: empty selector")
	}
	if strings.HasPrefix(selector, "|") || strings.HasSuffix(selector, "|") {
		return nil, fmt.Errorf("profile: malformed selector %q: leading or trailing '|'", selector)
	}

	terms := strings.Split(selector, "|")
	var bundles []string
	for _, term := range terms {
		if term == "" {
			return nil, fmt.Errorf("profile: malformed selector %q: empty term between '|'", selector)
		}
		if strings.HasPrefix(term, "$") {
			name := term[1:]
			members, ok := groups[name]
			if !ok {
				return nil, fmt.Errorf("profile: selector %q references unknown group %q", selector, name)
			}
			bundles = append(bundles, members...)
			continue
		}
		bundles = append(bundles, term)
	}
	return bundles, nil
}

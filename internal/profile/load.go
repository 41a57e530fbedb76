package profile

import (
	"os"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// Load reads and parses the profile file at path.
func Load(path string) (*gamacros.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

package component

import (
	"encoding/json"
	"io"
	"os"

	"golang.org/x/xerrors"
)

// LoadFile reads a JSON array of components from path
func LoadFile(path string) ([]Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open components: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a JSON array of components. Entries are cleaned and the ones
// without a name are dropped.
func Load(r io.Reader) ([]Component, error) {
	var raw []Component
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, xerrors.Errorf("failed to decode components: %w", err)
	}
	components := make([]Component, 0, len(raw))
	for _, c := range raw {
		c = c.Clean()
		if len(c.Name) == 0 {
			continue
		}
		components = append(components, c)
	}
	return components, nil
}

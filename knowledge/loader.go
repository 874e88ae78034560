package knowledge

import (
	"io"
	"os"

	"golang.org/x/exp/slices"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Load reads knowledge tables from a YAML or JSON file
func Load(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open knowledge tables: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes knowledge tables from r. When the document sets merge: true its
// entries are laid over DefaultConfig, otherwise it replaces the defaults.
func Read(r io.Reader) (*Tables, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return nil, xerrors.Errorf("failed to decode knowledge tables: %w", err)
	}
	if cfg.Merge {
		cfg = mergeConfig(DefaultConfig(), cfg)
	}
	t, err := New(cfg)
	if err != nil {
		return nil, xerrors.Errorf("knowledge tables: %w", err)
	}
	return t, nil
}

func mergeConfig(base, overlay Config) Config {
	for k, v := range overlay.AliasTable {
		base.AliasTable[k] = v
	}
	for k, v := range overlay.DomainKeywords {
		base.DomainKeywords[k] = v
	}
	for k, v := range overlay.KnownCVEMap {
		base.KnownCVEMap[k] = v
	}
	for _, w := range overlay.Stopwords {
		if !slices.Contains(base.Stopwords, w) {
			base.Stopwords = append(base.Stopwords, w)
		}
	}
	for _, n := range overlay.CommonNames {
		if !slices.Contains(base.CommonNames, n) {
			base.CommonNames = append(base.CommonNames, n)
		}
	}
	return base
}

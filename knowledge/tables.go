package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrInvalidTables wraps every validation failure of a Config
var ErrInvalidTables = errors.New("invalid knowledge tables")

// Config is the externally loadable form of the knowledge tables
type Config struct {
	// Merge overlays the file on top of DefaultConfig instead of replacing it
	Merge          bool                `yaml:"merge" json:"merge"`
	AliasTable     map[string][]string `yaml:"alias_table" json:"alias_table"`
	DomainKeywords map[string][]string `yaml:"domain_keywords" json:"domain_keywords"`
	KnownCVEMap    map[string][]string `yaml:"known_cve_map" json:"known_cve_map"`
	Stopwords      []string            `yaml:"stopwords" json:"stopwords"`
	CommonNames    []string            `yaml:"common_names" json:"common_names"`
}

// Tables holds the read-only lookup data used by extraction and scoring.
// Every accessor returns a copy, so a Tables never changes after New.
type Tables struct {
	aliases     map[string][]string
	keywords    map[string][]string
	knownCVEs   map[string][]string
	stopwords   map[string]struct{}
	commonNames []string
}

// Default returns tables built from DefaultConfig
func Default() *Tables {
	t, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return t
}

// New validates cfg and builds the tables from a private copy of it
func New(cfg Config) (*Tables, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tables{
		aliases:     copyTable(cfg.AliasTable, strings.ToLower),
		keywords:    copyTable(cfg.DomainKeywords, strings.ToLower),
		knownCVEs:   copyTable(cfg.KnownCVEMap, strings.ToUpper),
		stopwords:   make(map[string]struct{}, len(cfg.Stopwords)),
		commonNames: make([]string, 0, len(cfg.CommonNames)),
	}
	for _, w := range cfg.Stopwords {
		t.stopwords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	seen := make(map[string]struct{})
	for _, n := range cfg.CommonNames {
		n = strings.ToLower(strings.TrimSpace(n))
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		t.commonNames = append(t.commonNames, n)
	}
	return t, nil
}

// Validate reports every problem found in the config at once
func (c Config) Validate() error {
	var result error
	result = validateTable(result, "alias_table", c.AliasTable)
	result = validateTable(result, "domain_keywords", c.DomainKeywords)
	result = validateTable(result, "known_cve_map", c.KnownCVEMap)
	for i, w := range c.Stopwords {
		if len(strings.TrimSpace(w)) == 0 {
			result = multierror.Append(result, fmt.Errorf("%w: stopwords[%d] is empty", ErrInvalidTables, i))
		}
	}
	for i, n := range c.CommonNames {
		if len(strings.TrimSpace(n)) == 0 {
			result = multierror.Append(result, fmt.Errorf("%w: common_names[%d] is empty", ErrInvalidTables, i))
		}
	}
	return result
}

func validateTable(result error, table string, m map[string][]string) error {
	for _, key := range sortedKeys(m) {
		values := m[key]
		if len(strings.TrimSpace(key)) == 0 {
			result = multierror.Append(result, fmt.Errorf("%w: %s has an empty key", ErrInvalidTables, table))
		}
		if len(values) == 0 {
			result = multierror.Append(result, fmt.Errorf("%w: %s[%q] has no entries", ErrInvalidTables, table, key))
		}
		for i, v := range values {
			if len(strings.TrimSpace(v)) == 0 {
				result = multierror.Append(result, fmt.Errorf("%w: %s[%q][%d] is empty", ErrInvalidTables, table, key, i))
			}
		}
	}
	return result
}

// Aliases returns the alias list of a canonical package name
func (t *Tables) Aliases(name string) ([]string, bool) {
	v, ok := t.aliases[strings.ToLower(name)]
	return slices.Clone(v), ok
}

// Keywords returns the domain keywords curated for a package name
func (t *Tables) Keywords(name string) ([]string, bool) {
	v, ok := t.keywords[strings.ToLower(name)]
	return slices.Clone(v), ok
}

// KnownPackages returns the identifiers known to be affected by a vulnerability id
func (t *Tables) KnownPackages(id string) []string {
	return slices.Clone(t.knownCVEs[strings.ToUpper(strings.TrimSpace(id))])
}

func (t *Tables) IsStopword(word string) bool {
	_, ok := t.stopwords[strings.ToLower(word)]
	return ok
}

// CommonNames returns the well known product names searched for in advisory text
func (t *Tables) CommonNames() []string {
	return slices.Clone(t.commonNames)
}

// AliasKeys returns the canonical names of every alias group, sorted
func (t *Tables) AliasKeys() []string {
	return sortedKeys(t.aliases)
}

// Config returns a copy of the tables in their loadable form
func (t *Tables) Config() Config {
	stopwords := maps.Keys(t.stopwords)
	slices.Sort(stopwords)
	return Config{
		AliasTable:     copyTable(t.aliases, nil),
		DomainKeywords: copyTable(t.keywords, nil),
		KnownCVEMap:    copyTable(t.knownCVEs, nil),
		Stopwords:      stopwords,
		CommonNames:    slices.Clone(t.commonNames),
	}
}

func copyTable(m map[string][]string, normalize func(string) string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		k = strings.TrimSpace(k)
		if normalize != nil {
			k = normalize(k)
		}
		out[k] = slices.Clone(v)
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

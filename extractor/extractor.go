package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/aquasecurity/vuln-correlator/knowledge"
	"github.com/aquasecurity/vuln-correlator/utils"
)

const (
	structuredConfidence = 0.8
	knownConfidence      = 1.0
	commonConfidence     = 0.6
	idBonus              = 0.2
	minNameLen           = 2
)

var (
	// org.apache.logging.log4j:log4j-core
	groupArtifact = regexp.MustCompile(`(?i)([a-z0-9]+(?:\.[a-z0-9]+)*):([a-z0-9\-]+)`)
	// @babel/core
	scopedPackage = regexp.MustCompile(`(?i)@([a-z0-9\-]+)/([a-z0-9\-]+)`)
)

// Mention is a package identifier found in advisory text
type Mention struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type commonName struct {
	name    string
	pattern *regexp.Regexp
}

// Extractor finds package identifiers in free text. It holds only read-only
// state and may be shared between goroutines.
type Extractor struct {
	tables *knowledge.Tables
	common []commonName
}

func New(tables *knowledge.Tables) *Extractor {
	e := &Extractor{tables: tables}
	for _, n := range tables.CommonNames() {
		e.common = append(e.common, commonName{name: n, pattern: utils.WholeWord(n)})
	}
	return e
}

// candidates accumulates name -> confidence keeping the order names were first seen
type candidates struct {
	order []string
	conf  map[string]float64
}

func (c *candidates) put(name string, confidence float64, force bool) {
	name = strings.ToLower(name)
	prev, ok := c.conf[name]
	if !ok {
		c.order = append(c.order, name)
	}
	if force || !ok || confidence > prev {
		c.conf[name] = confidence
	}
}

// Extract returns the identifiers mentioned in text, highest confidence
// first. vulnID selects the known affected packages and raises the
// confidence of common product names.
func (e *Extractor) Extract(text, vulnID string) []Mention {
	found := &candidates{conf: make(map[string]float64)}

	for _, m := range groupArtifact.FindAllStringSubmatch(text, -1) {
		found.put(m[1]+":"+m[2], structuredConfidence, false)
	}
	for _, m := range scopedPackage.FindAllStringSubmatch(text, -1) {
		found.put("@"+m[1]+"/"+m[2], structuredConfidence, false)
	}

	for _, pkg := range e.tables.KnownPackages(vulnID) {
		found.put(pkg, knownConfidence, true)
	}

	lower := strings.ToLower(text)
	confidence := commonConfidence
	if vulnID != "" {
		confidence += idBonus
	}
	for _, c := range e.common {
		if c.pattern.MatchString(lower) {
			found.put(c.name, confidence, false)
		}
	}

	mentions := make([]Mention, 0, len(found.order))
	for _, name := range found.order {
		if len(name) <= minNameLen || e.tables.IsStopword(name) {
			continue
		}
		mentions = append(mentions, Mention{Name: name, Confidence: min(found.conf[name], 1.0)})
	}
	slices.SortStableFunc(mentions, func(a, b Mention) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return mentions
}

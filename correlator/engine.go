package correlator

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/aquasecurity/vuln-correlator/advisory"
	"github.com/aquasecurity/vuln-correlator/component"
	"github.com/aquasecurity/vuln-correlator/extractor"
	"github.com/aquasecurity/vuln-correlator/knowledge"
	"github.com/aquasecurity/vuln-correlator/scorer"
)

const (
	namedEntitySimilarity = 0.95
	namedEntityReasoning  = "identifier recognized from advisory text"
	defaultThreshold      = 0.5
	defaultHighBand       = 0.75
)

// Engine ranks the components plausibly affected by an advisory
type Engine struct {
	*options
	extractor *extractor.Extractor
	scorer    *scorer.Scorer
}

type options struct {
	threshold float64
	highBand  float64
}

type option func(*options)

// WithThreshold sets the score a similarity based result has to exceed
func WithThreshold(threshold float64) option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithHighBand sets the score above which a similarity based result is banded high
func WithHighBand(highBand float64) option {
	return func(o *options) {
		o.highBand = highBand
	}
}

// New returns an engine backed by tables
func New(tables *knowledge.Tables, opts ...option) *Engine {
	o := &options{
		threshold: defaultThreshold,
		highBand:  defaultHighBand,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Engine{
		options:   o,
		extractor: extractor.New(tables),
		scorer:    scorer.New(tables),
	}
}

// Match correlates every component with r. The result is sorted by
// similarity, highest first, keeping discovery order on ties. A component
// can appear twice, once per match type.
func (e *Engine) Match(components []component.Component, r advisory.Record) []Result {
	mentions := e.extractor.Extract(r.Description, r.ID)

	results := make([]Result, 0)
	for _, c := range components {
		name := c.NormalizedName()
		if mentioned(name, mentions) {
			results = append(results, Result{
				ComponentName:   c.Name,
				VulnerabilityID: r.ID,
				Similarity:      namedEntitySimilarity,
				MatchType:       NamedEntity,
				Reasoning:       namedEntityReasoning,
			})
		}

		similarity, reasoning := e.scorer.Score(c, r)
		if similarity <= e.threshold {
			continue
		}
		band := BandMedium
		if similarity > e.highBand {
			band = BandHigh
		}
		results = append(results, Result{
			ComponentName:   c.Name,
			VulnerabilityID: r.ID,
			Similarity:      similarity,
			MatchType:       SimilarityBased,
			Reasoning:       reasoning,
			ConfidenceBand:  band,
		})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return 0
	})
	return results
}

func mentioned(name string, mentions []extractor.Mention) bool {
	if name == "" {
		return false
	}
	for _, m := range mentions {
		if strings.HasPrefix(m.Name, name) || strings.HasPrefix(name, m.Name) {
			return true
		}
	}
	return false
}

package scorer

import (
	"fmt"
	"strings"

	"github.com/aquasecurity/vuln-correlator/advisory"
	"github.com/aquasecurity/vuln-correlator/component"
	"github.com/aquasecurity/vuln-correlator/knowledge"
	"github.com/aquasecurity/vuln-correlator/utils"
)

// NoMatch is the reasoning reported when no signal contributes
const NoMatch = "no match"

const (
	ExactMatch     = "exact_match"
	PartialMatch   = "partial_match"
	VersionMatch   = "version_match"
	DomainKeywords = "domain_keywords"
	AliasMatch     = "alias_match"
)

const (
	exactWeight   = 0.4
	partialWeight = 0.3
	versionWeight = 0.2
	keywordWeight = 0.2
	aliasWeight   = 0.15

	versionScore  = 0.7
	aliasScore    = 0.6
	minTokenLen   = 2
	reasonJoinSep = "; "
)

// Signal is one piece of evidence contributing to a similarity score.
// Reason is empty when the signal contributes without having found anything,
// e.g. a partial-token signal where no token occurs in the text.
type Signal struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason,omitempty"`
}

// Scorer computes the similarity between a component and an advisory
type Scorer struct {
	tables *knowledge.Tables
}

func New(tables *knowledge.Tables) *Scorer {
	return &Scorer{tables: tables}
}

// Signals returns the contributing signals in evaluation order
func (s *Scorer) Signals(c component.Component, r advisory.Record) []Signal {
	name := c.NormalizedName()
	description := strings.ToLower(r.Description)
	full := strings.ToLower(r.Title) + " " + description

	signals := make([]Signal, 0, 5)

	if name != "" && strings.Contains(full, name) {
		signals = append(signals, Signal{
			Name:   ExactMatch,
			Score:  1.0,
			Weight: exactWeight,
			Reason: fmt.Sprintf("exact package name '%s' found", name),
		})
	}

	if tokens := utils.SignificantTokens(name, minTokenLen); len(tokens) > 0 {
		matched := countContained(full, tokens)
		sig := Signal{Name: PartialMatch, Score: float64(matched) / float64(len(tokens)), Weight: partialWeight}
		if matched > 0 {
			sig.Reason = fmt.Sprintf("partial match: %d/%d name tokens", matched, len(tokens))
		}
		signals = append(signals, sig)
	}

	// only the description is searched for the version, never the title
	if c.Version != "" && strings.Contains(description, strings.ToLower(c.Version)) {
		signals = append(signals, Signal{
			Name:   VersionMatch,
			Score:  versionScore,
			Weight: versionWeight,
			Reason: fmt.Sprintf("version '%s' found in description", c.Version),
		})
	}

	if keywords, ok := s.tables.Keywords(name); ok && len(keywords) > 0 {
		matched := countContained(full, keywords)
		sig := Signal{Name: DomainKeywords, Score: float64(matched) / float64(len(keywords)), Weight: keywordWeight}
		if matched > 0 {
			sig.Reason = fmt.Sprintf("domain keywords matched: %d", matched)
		}
		signals = append(signals, sig)
	}

	if aliases, ok := s.tables.Aliases(name); ok {
		for _, alias := range aliases {
			if strings.Contains(full, strings.ToLower(alias)) {
				signals = append(signals, Signal{
					Name:   AliasMatch,
					Score:  aliasScore,
					Weight: aliasWeight,
					Reason: fmt.Sprintf("alias '%s' matched", alias),
				})
				break
			}
		}
	}
	return signals
}

// Score returns the weighted similarity in [0, 1] and a trace of the signals that fired
func (s *Scorer) Score(c component.Component, r advisory.Record) (float64, string) {
	signals := s.Signals(c, r)
	if len(signals) == 0 {
		return 0, NoMatch
	}

	var weighted, total float64
	var reasons []string
	for _, sig := range signals {
		weighted += sig.Score * sig.Weight
		total += sig.Weight
		if sig.Reason != "" {
			reasons = append(reasons, sig.Reason)
		}
	}

	var score float64
	if total > 0 {
		score = max(0, min(weighted/total, 1))
	}
	if len(reasons) == 0 {
		return score, NoMatch
	}
	return score, strings.Join(reasons, reasonJoinSep)
}

func countContained(text string, words []string) int {
	var n int
	for _, w := range words {
		if strings.Contains(text, strings.ToLower(w)) {
			n++
		}
	}
	return n
}

package correlator

// MatchType tells which path produced a Result
type MatchType string

const (
	// NamedEntity results come from identifiers recognized in the advisory text
	NamedEntity MatchType = "named_entity_extracted"
	// SimilarityBased results come from the weighted evidence score
	SimilarityBased MatchType = "similarity_based"
)

type ConfidenceBand string

const (
	BandHigh   ConfidenceBand = "high"
	BandMedium ConfidenceBand = "medium"
)

// Result is one candidate pairing of a component with an advisory.
// ConfidenceBand is only set on similarity based results.
type Result struct {
	ComponentName   string         `json:"component_name"`
	VulnerabilityID string         `json:"vulnerability_id"`
	Similarity      float64        `json:"similarity"`
	MatchType       MatchType      `json:"match_type"`
	Reasoning       string         `json:"reasoning"`
	ConfidenceBand  ConfidenceBand `json:"confidence_band,omitempty"`
}

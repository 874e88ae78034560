package advisory

// Record is one vulnerability advisory. The correlator only reads ID, Title
// and Description; the remaining fields travel with the record for reporting.
type Record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CVSSVector  string   `json:"cvss_vector,omitempty"`
	Severity    string   `json:"severity,omitempty"`
	Score       float64  `json:"score,omitempty"`
	URLs        []string `json:"references,omitempty"`
	Published   string   `json:"published,omitempty"`
}

package advisory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/vuln-correlator/utils"
)

type feed struct {
	Items []feedItem `json:"items"`
}

// feedItem accepts both the JSON feed layout (summary, content_text, url,
// external_url) and plain records (title, description, references).
type feedItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	Description   string   `json:"description"`
	Details       string   `json:"details"`
	ContentText   string   `json:"content_text"`
	CVSSVector    string   `json:"cvss_vector"`
	URL           string   `json:"url"`
	ExternalURL   string   `json:"external_url"`
	References    []string `json:"references"`
	Aliases       []string `json:"aliases"`
	DatePublished string   `json:"date_published"`
	Published     string   `json:"published"`
}

// LoadFile reads an advisory feed from path
func LoadFile(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to read advisories: %w", err)
	}
	return ParseFeed(b)
}

// ParseFeed decodes either a JSON array of advisories or a JSON feed object
// with an items array. Entries listing several ids become one record per id.
func ParseFeed(data []byte) ([]Record, error) {
	var items []feedItem
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, xerrors.Errorf("failed to decode advisories: %w", err)
		}
	} else {
		var f feed
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, xerrors.Errorf("failed to decode advisory feed: %w", err)
		}
		items = f.Items
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.records()...)
	}
	return records, nil
}

func (i feedItem) records() []Record {
	title := firstNonEmpty(i.Title, i.Summary)
	description := PlainText(firstNonEmpty(i.Description, i.Details, i.ContentText))
	severity, score := CvssVectorToScore(i.CVSSVector)
	urls := make([]string, 0, len(i.References)+2)
	for _, u := range append([]string{i.URL, i.ExternalURL}, i.References...) {
		if len(strings.TrimSpace(u)) > 0 {
			urls = append(urls, u)
		}
	}

	ids := normalizeIDs(utils.GetMultiIDs(i.ID))
	if len(ids) == 0 {
		// fall back to the first CVE/GHSA alias of an otherwise unnamed entry
		ids = normalizeIDs(i.Aliases)
		if len(ids) > 1 {
			ids = ids[:1]
		}
	}
	if len(ids) == 0 {
		ids = []string{""}
	}

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, Record{
			ID:          id,
			Title:       strings.TrimSpace(title),
			Description: description,
			CVSSVector:  i.CVSSVector,
			Severity:    severity,
			Score:       score,
			URLs:        urls,
			Published:   firstNonEmpty(i.DatePublished, i.Published),
		})
	}
	return records
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := NormalizeID(id); len(n) > 0 {
			out = append(out, n)
		}
	}
	return out
}

// Validate reports every record that cannot be correlated at all
func Validate(records []Record) error {
	var result error
	for i, r := range records {
		if len(strings.TrimSpace(r.Title)) == 0 && len(strings.TrimSpace(r.Description)) == 0 {
			result = multierror.Append(result, fmt.Errorf("advisory #%d %q has neither title nor description", i, r.ID))
		}
		if len(r.CVSSVector) > 0 && len(r.Severity) == 0 {
			result = multierror.Append(result, fmt.Errorf("advisory #%d %q has an invalid cvss vector %q", i, r.ID, r.CVSSVector))
		}
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if len(strings.TrimSpace(v)) > 0 {
			return v
		}
	}
	return ""
}

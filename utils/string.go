package utils

import (
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[:\-/_.]`)

// TrimString removes every trim value from s and trims surrounding whitespace
func TrimString(s string, trimValues []string) string {
	for _, v := range trimValues {
		s = strings.ReplaceAll(s, v, "")
	}
	return strings.TrimSpace(s)
}

// SignificantTokens splits a package name on ecosystem separators (: - / _ .)
// and keeps the tokens longer than minLen.
func SignificantTokens(name string, minLen int) []string {
	tokens := make([]string, 0)
	for _, p := range separators.Split(name, -1) {
		if len(p) > minLen {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// GetMultiIDs splits a comma separated advisory id field into its CVE/GHSA ids
func GetMultiIDs(id string) []string {
	if !strings.Contains(id, ",") {
		return []string{strings.TrimSpace(id)}
	}
	var idsList []string
	for _, p := range strings.Split(id, ",") {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "CVE-") || strings.HasPrefix(p, "GHSA-") {
			idsList = append(idsList, p)
		}
	}
	return idsList
}

// WholeWord returns a pattern matching word on word boundaries
func WholeWord(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
}

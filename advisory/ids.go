package advisory

import (
	"regexp"
	"strings"
)

type IDKind string

const (
	KindCVE     IDKind = "cve"
	KindGHSA    IDKind = "ghsa"
	KindUnknown IDKind = "unknown"
)

var (
	cveID  = regexp.MustCompile(`(?i)^CVE-\d{4}-\d{4,}$`)
	ghsaID = regexp.MustCompile(`(?i)^GHSA(-[a-z0-9]{4}){3}$`)
)

// Kind classifies an advisory id
func Kind(id string) IDKind {
	id = strings.TrimSpace(id)
	switch {
	case cveID.MatchString(id):
		return KindCVE
	case ghsaID.MatchString(id):
		return KindGHSA
	default:
		return KindUnknown
	}
}

// NormalizeID returns the canonical spelling of a CVE or GHSA id, or an empty
// string for anything else.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	switch Kind(id) {
	case KindCVE:
		return strings.ToUpper(id)
	case KindGHSA:
		return "GHSA" + strings.ToLower(id[len("GHSA"):])
	default:
		return ""
	}
}

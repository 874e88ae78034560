package advisory

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		want       IDKind
		normalized string
	}{
		{name: "cve", id: "CVE-2021-44228", want: KindCVE, normalized: "CVE-2021-44228"},
		{name: "lower cve", id: "cve-2021-44228", want: KindCVE, normalized: "CVE-2021-44228"},
		{name: "long sequence", id: "CVE-2023-1234567", want: KindCVE, normalized: "CVE-2023-1234567"},
		{name: "ghsa", id: "GHSA-J8R2-6X86-Q33Q", want: KindGHSA, normalized: "GHSA-j8r2-6x86-q33q"},
		{name: "osv", id: "PYSEC-2023-74", want: KindUnknown, normalized: ""},
		{name: "empty", id: "", want: KindUnknown, normalized: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.id))
			assert.Equal(t, tt.normalized, NormalizeID(tt.id))
		})
	}
}

func TestCvssVectorToScore(t *testing.T) {
	severity, score := CvssVectorToScore("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H")
	assert.Equal(t, "critical", severity)
	assert.Equal(t, 10.0, score)

	severity, score = CvssVectorToScore("not a vector")
	assert.Empty(t, severity)
	assert.Zero(t, score)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "emphasis and code", doc: "Apache **Log4j2** `JNDI` features", want: "Apache Log4j2 JNDI features"},
		{name: "heading and list", doc: "# Log4Shell\n\n- item one\n- item two\n", want: "Log4Shell item one item two"},
		{name: "fenced code", doc: "Example:\n\n```\nlog4j-core 2.14.1\n```\n", want: "Example: log4j-core 2.14.1"},
		{name: "link", doc: "See [the advisory](https://example.com) now", want: "See the advisory now"},
		{name: "plain", doc: "log4j2 versions before 2.16.0", want: "log4j2 versions before 2.16.0"},
		{name: "html paragraph", doc: "<p>Apache log4j2 versions before 2.16.0 allow JNDI lookups</p>", want: "Apache log4j2 versions before 2.16.0 allow JNDI lookups"},
		{name: "html details", doc: "<details>\n<summary>Impact</summary>\nlog4j2 &amp; log4j-core RCE\n</details>\n\nUpgrade now.", want: "Impact log4j2 & log4j-core RCE Upgrade now."},
		{name: "dunder name", doc: "Unsafe call to __init__ in x", want: "Unsafe call to __init__ in x"},
		{name: "underscore emphasis", doc: "an _unsafe_ default", want: "an _unsafe_ default"},
		{name: "star emphasis", doc: "an *unsafe* default", want: "an unsafe default"},
		{name: "empty", doc: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.doc))
		})
	}
}

func TestParseFeed(t *testing.T) {
	records, err := LoadFile("testdata/feed.json")
	require.NoError(t, err)
	require.Len(t, records, 4)

	log4shell := records[0]
	assert.Equal(t, "CVE-2021-44228", log4shell.ID)
	assert.Equal(t, "Apache Log4j2 RCE", log4shell.Title)
	assert.Equal(t, "A critical vulnerability in Apache log4j2 versions before 2.16.0 allows remote code execution through JNDI injection.", log4shell.Description)
	assert.Equal(t, "critical", log4shell.Severity)
	assert.Equal(t, 10.0, log4shell.Score)
	assert.Equal(t, []string{"https://logging.apache.org/log4j/2.x/security.html", "https://www.cve.org/CVERecord?id=CVE-2021-44228"}, log4shell.URLs)
	assert.Equal(t, "2021-12-10T00:00:00Z", log4shell.Published)

	assert.Equal(t, "CVE-2021-45046", records[1].ID)
	assert.Equal(t, "CVE-2021-45105", records[2].ID)
	assert.Equal(t, records[1].Description, records[2].Description)
	assert.Len(t, records[1].URLs, 1)

	assert.Equal(t, "GHSA-j8r2-6x86-q33q", records[3].ID)

	assert.NoError(t, Validate(records))
}

func TestParseFeedArray(t *testing.T) {
	records, err := ParseFeed([]byte(`[{"id":"","title":"untitled","description":"something"},{"id":"CVE-2020-0001","title":"","description":""}]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[0].ID)

	err = Validate(records)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 1)

	records, err = ParseFeed([]byte(`[{"id":"CVE-2021-44228","description":"<p>Apache log4j2 versions before 2.16.0 allow JNDI lookups</p>"}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Apache log4j2 versions before 2.16.0 allow JNDI lookups", records[0].Description)

	_, err = ParseFeed([]byte(`{"items": [`))
	assert.Error(t, err)
}

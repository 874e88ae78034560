package knowledge

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables := Default()

	known := tables.KnownPackages("CVE-2021-44228")
	assert.Equal(t, []string{"log4j", "log4j2", "apache:logging-log4j"}, known)
	assert.Equal(t, known, tables.KnownPackages("cve-2021-44228"))
	assert.Empty(t, tables.KnownPackages(""))

	aliases, ok := tables.Aliases("Log4j2")
	assert.True(t, ok)
	assert.Equal(t, []string{"log4j", "apache-log4j"}, aliases)

	_, ok = tables.Keywords("requests")
	assert.True(t, ok)
	_, ok = tables.Keywords("left-pad")
	assert.False(t, ok)

	for _, w := range []string{"the", "Vulnerability", "remote", "denial", "execution", "cve"} {
		assert.True(t, tables.IsStopword(w), w)
	}
	assert.False(t, tables.IsStopword("log4j"))
	assert.Len(t, tables.CommonNames(), 17)
}

func TestTablesAreImmutable(t *testing.T) {
	cfg := DefaultConfig()
	tables, err := New(cfg)
	require.NoError(t, err)

	cfg.KnownCVEMap["CVE-2021-44228"][0] = "mutated"
	cfg.AliasTable["new"] = []string{"x"}
	assert.Equal(t, "log4j", tables.KnownPackages("CVE-2021-44228")[0])
	_, ok := tables.Aliases("new")
	assert.False(t, ok)

	got := tables.KnownPackages("CVE-2021-44228")
	got[0] = "mutated"
	assert.Equal(t, "log4j", tables.KnownPackages("CVE-2021-44228")[0])

	names := tables.CommonNames()
	names[0] = "mutated"
	assert.Equal(t, "log4j", tables.CommonNames()[0])
}

func TestAliasKeysSorted(t *testing.T) {
	keys := Default().AliasKeys()
	assert.Equal(t, []string{"curl", "lodash", "log4j2", "moment", "openssl", "pillow", "pyyaml", "slf4j", "spring", "sqlite"}, keys)
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := Default().Config()
	tables, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, Default().KnownPackages("CVE-2021-41773"), tables.KnownPackages("CVE-2021-41773"))
	assert.True(t, tables.IsStopword("execution"))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		check    func(t *testing.T, tables *Tables)
		wantErr  bool
		errCount int
	}{
		{
			name: "merge over defaults",
			path: "testdata/merge.yaml",
			check: func(t *testing.T, tables *Tables) {
				assert.Equal(t, []string{"spring-beans", "spring-webmvc"}, tables.KnownPackages("CVE-2022-22965"))
				assert.NotEmpty(t, tables.KnownPackages("CVE-2021-44228"))
				aliases, ok := tables.Aliases("jackson-databind")
				assert.True(t, ok)
				assert.Equal(t, []string{"jackson", "fasterxml"}, aliases)
				assert.Contains(t, tables.CommonNames(), "struts")
				assert.Contains(t, tables.CommonNames(), "log4j")
			},
		},
		{
			name: "replace defaults from json",
			path: "testdata/replace.json",
			check: func(t *testing.T, tables *Tables) {
				assert.Equal(t, []string{"curl", "libcurl"}, tables.KnownPackages("CVE-2023-38545"))
				assert.Empty(t, tables.KnownPackages("CVE-2021-44228"))
				assert.Equal(t, []string{"curl"}, tables.CommonNames())
				assert.False(t, tables.IsStopword("vulnerability"))
			},
		},
		{name: "invalid tables", path: "testdata/invalid.yaml", wantErr: true, errCount: 3},
		{name: "missing file", path: "testdata/missing.yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := Load(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errCount > 0 {
					assert.ErrorIs(t, err, ErrInvalidTables)
					var merr *multierror.Error
					require.True(t, errors.As(err, &merr))
					assert.Len(t, merr.Errors, tt.errCount)
				}
				return
			}
			require.NoError(t, err)
			tt.check(t, tables)
		})
	}
}

func TestReadEmptyDocument(t *testing.T) {
	tables, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tables.CommonNames())
	assert.Empty(t, tables.KnownPackages("CVE-2021-44228"))
}

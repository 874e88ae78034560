package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		version    string
		ecosystem  string
		want       bool
	}{
		{name: "java inside", constraint: ">=2.0.0,<2.16.0", version: "2.14.0", ecosystem: "java", want: true},
		{name: "java upper bound", constraint: ">=2.0.0,<2.16.0", version: "2.16.0", ecosystem: "java", want: false},
		{name: "python inside", constraint: ">=2.0.0,<2.16.0", version: "2.14.0", ecosystem: "python", want: true},
		{name: "npm inside", constraint: ">=2.0.0,<2.16.0", version: "2.14.0", ecosystem: "npm", want: true},
		{name: "numeric ordering", constraint: "<1.10", version: "1.9", ecosystem: "go", want: true},
		{name: "maven interval", constraint: "[1.0,2.0)", version: "1.5", ecosystem: "maven", want: true},
		{name: "maven interval exclusive", constraint: "[1.0,2.0)", version: "2.0", ecosystem: "maven", want: false},
		{name: "npm caret", constraint: "^1.2.0", version: "1.9.0", ecosystem: "npm", want: true},
		{name: "npm caret major", constraint: "^1.2.0", version: "2.0.0", ecosystem: "npm", want: false},
		{name: "npm tilde", constraint: "~1.2.3", version: "1.2.9", ecosystem: "npm", want: true},
		{name: "npm tilde minor", constraint: "~1.2.3", version: "1.3.0", ecosystem: "npm", want: false},
		{name: "python compatible", constraint: "~=1.4.5", version: "1.4.9", ecosystem: "python", want: true},
		{name: "python compatible next minor", constraint: "~=1.4.5", version: "1.5.0", ecosystem: "python", want: false},
		{name: "rust caret zero major", constraint: "^0.2.3", version: "0.3.0", ecosystem: "rust", want: false},
		{name: "not equal", constraint: "!=1.0.0", version: "1.0.1", ecosystem: "ruby", want: true},
		{name: "fallback exact", constraint: "1.0.0", version: "1.0.0", ecosystem: "erlang", want: true},
		{name: "unconstrained", constraint: "unknown", version: "anything", ecosystem: "java", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.constraint).Satisfies(tt.version, tt.ecosystem)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSatisfiesInvalidVersion(t *testing.T) {
	_, err := Parse(">=1.0.0").Satisfies("not a version", "java")
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = Parse("~=1").Satisfies("1.0", "python")
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestUpperBound(t *testing.T) {
	tests := []struct {
		name string
		c    Constraint
		want string
	}{
		{name: "compatible three segments", c: Constraint{COMPATIBLE, "1.4.5"}, want: "1.5"},
		{name: "compatible two segments", c: Constraint{COMPATIBLE, "2.2"}, want: "3"},
		{name: "tilde", c: Constraint{TILDE, "1.2.3"}, want: "1.3.0"},
		{name: "tilde major only", c: Constraint{TILDE, "1"}, want: "2"},
		{name: "caret", c: Constraint{CARET, "1.2.3"}, want: "2.0.0"},
		{name: "caret zero major", c: Constraint{CARET, "0.2.3"}, want: "0.3.0"},
		{name: "caret zero minor", c: Constraint{CARET, "0.0.3"}, want: "0.0.4"},
		{name: "v prefix", c: Constraint{CARET, "v1.2.3"}, want: "2.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := upperBound(tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

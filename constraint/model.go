package constraint

import (
	"encoding/json"
	"strings"
)

// Operator is the canonical comparison operator of a version constraint
type Operator int

const (
	EQ Operator = iota
	GE
	GT
	LE
	LT
	NE
	COMPATIBLE
	CARET
	TILDE
)

var operatorNames = map[Operator]string{
	EQ:         "EQ",
	GE:         "GE",
	GT:         "GT",
	LE:         "LE",
	LT:         "LT",
	NE:         "NE",
	COMPATIBLE: "COMPATIBLE",
	CARET:      "CARET",
	TILDE:      "TILDE",
}

var operatorTokens = map[Operator]string{
	EQ:         "==",
	GE:         ">=",
	GT:         ">",
	LE:         "<=",
	LT:         "<",
	NE:         "!=",
	COMPATIBLE: "~=",
	CARET:      "^",
	TILDE:      "~",
}

// Name returns the enum name of the operator (EQ, GE, ...)
func (o Operator) Name() string {
	if n, ok := operatorNames[o]; ok {
		return n
	}
	return "UNKNOWN"
}

// String returns the canonical token of the operator (==, >=, ...)
func (o Operator) String() string {
	return operatorTokens[o]
}

func (o Operator) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Name())
}

// Constraint is a single operator and version pair
type Constraint struct {
	Operator Operator `json:"operator"`
	Version  string   `json:"version"`
}

func (c Constraint) String() string {
	return c.Operator.String() + c.Version
}

// Range is a conjunction of constraints. No constraints means any version matches.
type Range struct {
	Constraints []Constraint `json:"constraints"`
	Original    string       `json:"original"`
}

func (r Range) String() string {
	parts := make([]string, 0, len(r.Constraints))
	for _, c := range r.Constraints {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

func (r Range) IsUnconstrained() bool {
	return len(r.Constraints) == 0
}

// MinVersion returns the version of the first GE or GT constraint
func (r Range) MinVersion() (string, bool) {
	c, ok := r.first(GE, GT)
	return c.Version, ok
}

// MaxVersion returns the version of the first LE or LT constraint
func (r Range) MaxVersion() (string, bool) {
	c, ok := r.first(LE, LT)
	return c.Version, ok
}

// ExactVersion returns the version of the first EQ constraint
func (r Range) ExactVersion() (string, bool) {
	c, ok := r.first(EQ)
	return c.Version, ok
}

// MinInclusive reports whether the lower bound, if any, includes its version
func (r Range) MinInclusive() bool {
	c, ok := r.first(GE, GT)
	return ok && c.Operator == GE
}

// MaxInclusive reports whether the upper bound, if any, includes its version
func (r Range) MaxInclusive() bool {
	c, ok := r.first(LE, LT)
	return ok && c.Operator == LE
}

func (r Range) first(ops ...Operator) (Constraint, bool) {
	for _, c := range r.Constraints {
		for _, op := range ops {
			if c.Operator == op {
				return c, true
			}
		}
	}
	return Constraint{}, false
}

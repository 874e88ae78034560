package constraint

import (
	"regexp"
	"strings"
)

var (
	interval     = regexp.MustCompile(`^[\[(](.*?)[,\s]+(.*?)[\])]`)
	dependencyRe = regexp.MustCompile(`^([A-Za-z0-9_.-]+)(?:\[([^\]]+)\])?(.*)$`)

	defaultParser = NewParser(DefaultOperators)
)

// Parser turns constraint expressions into ranges. A Parser is immutable and
// safe for concurrent use.
type Parser struct {
	operators map[string]Operator
}

// NewParser returns a parser using the given operator token table
func NewParser(operators map[string]Operator) *Parser {
	ops := make(map[string]Operator, len(operators))
	for token, op := range operators {
		ops[token] = op
	}
	return &Parser{operators: ops}
}

// Parse parses s with the default operator table
func Parse(s string) Range {
	return defaultParser.Parse(s)
}

// ParseExtras splits a "name[extra1,extra2]<constraint>" dependency string
func ParseExtras(s string) (string, []string, string) {
	return defaultParser.ParseExtras(s)
}

// Parse normalizes a version constraint expression into a Range. Expressions
// it does not understand yield an unconstrained range, never an error.
func (p *Parser) Parse(s string) Range {
	if len(strings.TrimSpace(s)) == 0 || strings.EqualFold(strings.TrimSpace(s), "unknown") {
		return Range{Original: s}
	}
	s = strings.TrimSpace(s)

	if m := interval.FindStringSubmatch(s); m != nil {
		return parseInterval(m, s)
	}

	if strings.Contains(s, ",") {
		constraints := make([]Constraint, 0)
		for _, part := range strings.Split(s, ",") {
			constraints = append(constraints, p.single(part)...)
		}
		return Range{Constraints: constraints, Original: s}
	}

	return Range{Constraints: p.single(s), Original: s}
}

// parseInterval handles maven style [lo,hi) notation. The opening and closing
// characters decide inclusivity; an empty bound emits no constraint.
func parseInterval(m []string, original string) Range {
	constraints := make([]Constraint, 0, 2)
	lower := strings.TrimSpace(m[1])
	upper := strings.TrimSpace(m[2])
	if len(lower) > 0 {
		op := GT
		if strings.HasPrefix(original, "[") {
			op = GE
		}
		constraints = append(constraints, Constraint{Operator: op, Version: lower})
	}
	if len(upper) > 0 {
		op := LT
		if strings.HasSuffix(original, "]") {
			op = LE
		}
		constraints = append(constraints, Constraint{Operator: op, Version: upper})
	}
	return Range{Constraints: constraints, Original: original}
}

func (p *Parser) ParseExtras(s string) (string, []string, string) {
	m := dependencyRe.FindStringSubmatch(s)
	if m == nil {
		return s, []string{}, ""
	}
	extras := make([]string, 0)
	for _, e := range strings.Split(m[2], ",") {
		if e = strings.TrimSpace(e); len(e) > 0 {
			extras = append(extras, e)
		}
	}
	return m[1], extras, strings.TrimSpace(m[3])
}

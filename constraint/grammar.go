package constraint

import (
	"regexp"
	"strings"
)

var (
	operatorVersion = regexp.MustCompile(`^([=~><!^]+)(.+)$`)
	simpleVersion   = regexp.MustCompile(`^\d+(\.\d+)*(-[a-zA-Z0-9]+)?(\+.*)?$`)
)

// DefaultOperators maps every recognized operator token to its canonical operator
var DefaultOperators = map[string]Operator{
	"==": EQ,
	"=":  EQ,
	">=": GE,
	">":  GT,
	"<=": LE,
	"<":  LT,
	"!=": NE,
	"~=": COMPATIBLE,
	"~":  TILDE,
	"^":  CARET,
}

// normalize maps an operator token to its operator. Unknown runs of operator
// characters fall back to EQ.
func (p *Parser) normalize(token string) Operator {
	if op, ok := p.operators[strings.TrimSpace(token)]; ok {
		return op
	}
	return EQ
}

// single parses one constraint token such as ">=1.0.0", "~1.2" or "1.0.0"
func (p *Parser) single(s string) []Constraint {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil
	}
	if parts := operatorVersion.FindStringSubmatch(s); parts != nil {
		return []Constraint{{Operator: p.normalize(parts[1]), Version: strings.TrimSpace(parts[2])}}
	}
	if simpleVersion.MatchString(s) {
		return []Constraint{{Operator: EQ, Version: s}}
	}
	return nil
}

package constraint

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
	pep440 "github.com/aquasecurity/go-pep440-version"
	aquaversion "github.com/aquasecurity/go-version/pkg/version"
	goversion "github.com/hashicorp/go-version"
	"golang.org/x/xerrors"
)

// ErrInvalidVersion is returned when a version cannot be read by the
// comparator of its ecosystem.
var ErrInvalidVersion = errors.New("invalid version")

var releasePrefix = regexp.MustCompile(`^[vV]?(\d+(?:\.\d+)*)`)

type compareFunc func(a, b string) (int, error)

type checker func(version string, c Constraint) (bool, error)

// Satisfies reports whether version lies inside the range, ordering versions
// the way the given ecosystem does. An unconstrained range matches anything.
func (r Range) Satisfies(version, ecosystem string) (bool, error) {
	if r.IsUnconstrained() {
		return true, nil
	}
	check := checkerFor(ecosystem)
	for _, c := range r.Constraints {
		ok, err := check(version, c)
		if err != nil {
			return false, xerrors.Errorf("%s against %s: %w", version, c, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func checkerFor(ecosystem string) checker {
	switch strings.ToLower(strings.TrimSpace(ecosystem)) {
	case "python", "pypi", "pip":
		return compareChecker(pep440Compare)
	case "javascript", "typescript", "npm", "node", "yarn":
		return semverCheck
	case "java", "maven", "gradle", "go", "golang", "rust", "cargo", "ruby", "gem", "php", "composer":
		return compareChecker(hashicorpCompare)
	default:
		return compareChecker(aquaCompare)
	}
}

func compareChecker(cmp compareFunc) checker {
	return func(version string, c Constraint) (bool, error) {
		switch c.Operator {
		case COMPATIBLE, TILDE, CARET:
			upper, err := upperBound(c)
			if err != nil {
				return false, err
			}
			lo, err := cmp(version, c.Version)
			if err != nil {
				return false, err
			}
			hi, err := cmp(version, upper)
			if err != nil {
				return false, err
			}
			return lo >= 0 && hi < 0, nil
		}
		res, err := cmp(version, c.Version)
		if err != nil {
			return false, err
		}
		switch c.Operator {
		case GE:
			return res >= 0, nil
		case GT:
			return res > 0, nil
		case LE:
			return res <= 0, nil
		case LT:
			return res < 0, nil
		case NE:
			return res != 0, nil
		default:
			return res == 0, nil
		}
	}
}

// upperBound returns the exclusive upper bound implied by ~=, ~ and ^
func upperBound(c Constraint) (string, error) {
	m := releasePrefix.FindStringSubmatch(strings.TrimSpace(c.Version))
	if m == nil {
		return "", xerrors.Errorf("%q: %w", c.Version, ErrInvalidVersion)
	}
	segments := make([]int, 0)
	for _, s := range strings.Split(m[1], ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", xerrors.Errorf("%q: %w", c.Version, ErrInvalidVersion)
		}
		segments = append(segments, n)
	}

	var bump int
	switch c.Operator {
	case COMPATIBLE:
		// ~=1.4.5 means >=1.4.5, ==1.4.*
		if len(segments) < 2 {
			return "", xerrors.Errorf("compatible release needs two segments %q: %w", c.Version, ErrInvalidVersion)
		}
		segments = segments[:len(segments)-1]
		bump = len(segments) - 1
	case TILDE:
		if len(segments) > 1 {
			bump = 1
		}
	case CARET:
		bump = len(segments) - 1
		for i, s := range segments {
			if s != 0 {
				bump = i
				break
			}
		}
	}

	upper := make([]string, len(segments))
	for i := range segments {
		switch {
		case i < bump:
			upper[i] = strconv.Itoa(segments[i])
		case i == bump:
			upper[i] = strconv.Itoa(segments[i] + 1)
		default:
			upper[i] = "0"
		}
	}
	return strings.Join(upper, "."), nil
}

func hashicorpCompare(a, b string) (int, error) {
	v1, err := goversion.NewVersion(a)
	if err != nil {
		return 0, xerrors.Errorf("%q: %w", a, ErrInvalidVersion)
	}
	v2, err := goversion.NewVersion(b)
	if err != nil {
		return 0, xerrors.Errorf("%q: %w", b, ErrInvalidVersion)
	}
	return v1.Compare(v2), nil
}

func pep440Compare(a, b string) (int, error) {
	v1, err := pep440.Parse(a)
	if err != nil {
		return 0, xerrors.Errorf("%q: %w", a, ErrInvalidVersion)
	}
	v2, err := pep440.Parse(b)
	if err != nil {
		return 0, xerrors.Errorf("%q: %w", b, ErrInvalidVersion)
	}
	return v1.Compare(v2), nil
}

func aquaCompare(a, b string) (int, error) {
	v1, err := aquaversion.Parse(a)
	if err != nil {
		return 0, xerrors.Errorf("%q: %w", a, ErrInvalidVersion)
	}
	v2, err := aquaversion.Parse(b)
	if err != nil {
		return 0, xerrors.Errorf("%q: %w", b, ErrInvalidVersion)
	}
	return v1.Compare(v2), nil
}

// semverCheck evaluates npm style constraints, where ^ and ~ are native
func semverCheck(version string, c Constraint) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, xerrors.Errorf("%q: %w", version, ErrInvalidVersion)
	}
	op := c.Operator.String()
	switch c.Operator {
	case EQ:
		op = "="
	case COMPATIBLE:
		op = "~"
	}
	cs, err := semver.NewConstraint(op + c.Version)
	if err != nil {
		return false, xerrors.Errorf("%q: %w", c.Version, ErrInvalidVersion)
	}
	return cs.Check(v), nil
}

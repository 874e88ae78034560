package component

import (
	"strings"

	"github.com/aquasecurity/vuln-correlator/utils"
)

// rangeDecorations are stripped from supplied versions so that only a bare
// version string reaches the correlator.
var rangeDecorations = []string{">=", "<=", "==", "~=", "!=", "^", "~", ">", "<", "="}

// Component is one installed software package
type Component struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Language string `json:"language"`
}

// NormalizedName is the lower-cased, trimmed name used for every comparison
func (c Component) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}

// Clean returns c with surrounding whitespace removed and range decorations
// stripped from the version.
func (c Component) Clean() Component {
	return Component{
		Name:     strings.TrimSpace(c.Name),
		Version:  utils.TrimString(c.Version, rangeDecorations),
		Language: strings.ToLower(strings.TrimSpace(c.Language)),
	}
}

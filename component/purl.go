package component

import (
	"strings"

	"github.com/package-url/packageurl-go"
	"golang.org/x/xerrors"
)

var purlLanguages = map[string]string{
	packageurl.TypeMaven:    "java",
	packageurl.TypeNPM:      "javascript",
	packageurl.TypePyPi:     "python",
	packageurl.TypeGolang:   "go",
	packageurl.TypeCargo:    "rust",
	packageurl.TypeGem:      "ruby",
	packageurl.TypeComposer: "php",
	packageurl.TypeHex:      "erlang",
	packageurl.TypeNuget:    "csharp",
}

// FromPURL builds a component from a package URL, rendering the name the way
// the package's own ecosystem writes it (group:artifact, @scope/name, ...).
func FromPURL(purl string) (Component, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return Component{}, xerrors.Errorf("invalid purl %q: %w", purl, err)
	}

	name := p.Name
	switch p.Type {
	case packageurl.TypeMaven:
		if len(p.Namespace) > 0 {
			name = p.Namespace + ":" + p.Name
		}
	case packageurl.TypeNPM:
		if len(p.Namespace) > 0 {
			name = "@" + strings.TrimPrefix(p.Namespace, "@") + "/" + p.Name
		}
	case packageurl.TypePyPi:
		name = strings.ReplaceAll(strings.ToLower(p.Name), "_", "-")
	default:
		if len(p.Namespace) > 0 {
			name = p.Namespace + "/" + p.Name
		}
	}

	language, ok := purlLanguages[p.Type]
	if !ok {
		language = p.Type
	}
	return Component{Name: name, Version: p.Version, Language: language}, nil
}

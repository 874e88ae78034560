package component

import (
	"github.com/aquasecurity/vuln-correlator/constraint"
)

// Requirement is a declared dependency: a name, optional extras and the
// version range the manifest allows.
type Requirement struct {
	Name   string           `json:"name"`
	Extras []string         `json:"extras"`
	Range  constraint.Range `json:"range"`
}

// ParseRequirement reads a "name[extra1,extra2]<constraint>" dependency string
func ParseRequirement(s string) Requirement {
	name, extras, rest := constraint.ParseExtras(s)
	return Requirement{
		Name:   name,
		Extras: extras,
		Range:  constraint.Parse(rest),
	}
}

// Component converts the requirement into a component. The version is the
// pinned version when there is one, otherwise the lower bound, otherwise empty.
func (r Requirement) Component(language string) Component {
	version, ok := r.Range.ExactVersion()
	if !ok {
		version, _ = r.Range.MinVersion()
	}
	return Component{Name: r.Name, Version: version, Language: language}
}

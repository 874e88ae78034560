package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/aquasecurity/vuln-correlator/component"
	"github.com/aquasecurity/vuln-correlator/constraint"
)

// rangeinfo prints the parsed form of every argument. Arguments starting
// with a package name are read as requirements, anything else as a bare
// constraint expression.
func main() {
	if len(os.Args[1:]) == 0 {
		fmt.Println("constraint expression param is missing")
		os.Exit(1)
	}
	data, err := json.Marshal(describe(os.Args[1:]))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func describe(args []string) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		if req, ok := requirement(arg); ok {
			out = append(out, req)
			continue
		}
		out = append(out, constraint.Parse(arg))
	}
	return out
}

// requirement reads arg as "name[extras]<constraint>". Names start with a
// letter and are followed by extras or an operator, so "1.0,2.0" stays a range.
func requirement(arg string) (component.Requirement, bool) {
	arg = strings.TrimSpace(arg)
	req := component.ParseRequirement(arg)
	if req.Name == "" || !unicode.IsLetter(rune(req.Name[0])) {
		return component.Requirement{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(arg, req.Name))
	if rest == "" || !strings.ContainsRune("[=~><!^", rune(rest[0])) {
		return component.Requirement{}, false
	}
	return req, true
}

// Package resolv parses entry point target strings of the form
//
//	module[:object][ [extra1,extra2,...]]
//
// into their module, object and extras coordinates.
package resolv

import (
	"fmt"
	"regexp"
	"strings"
)

const ident = `[\p{L}\p{N}_]+(?:\.[\p{L}\p{N}_]+)*`

var (
	identRe  = regexp.MustCompile(`^` + ident + `$`)
	targetRe = regexp.MustCompile(`(?s)^(` + ident + `)(?:\s*:\s*(` + ident + `))?\s*(?:\[(.*)\])?$`)
)

// Target holds the coordinates of a parsed target string.  An empty Object
// means the target is the module itself; nil Extras means no extras were
// given.
type Target struct {
	Module string
	Object string
	Extras []string
}

// ParseTarget parses a target string.  Surrounding whitespace is ignored.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	if strings.Count(s, "[") != strings.Count(s, "]") {
		return Target{}, fmt.Errorf("unmatched bracket")
	}

	m := targetRe.FindStringSubmatch(s)
	if m == nil {
		return Target{}, fmt.Errorf("not of the form module[:object][ [extras]]")
	}

	t := Target{Module: m[1], Object: m[2]}

	// The extras group only participates when the bracket is present
	if strings.HasSuffix(s, "]") {
		extras, err := parseExtras(m[3])
		if err != nil {
			return Target{}, err
		}
		t.Extras = extras
	}

	return t, nil
}

func parseExtras(list string) ([]string, error) {
	var extras []string
	for _, e := range strings.Split(list, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			return nil, fmt.Errorf("empty extra in [%s]", list)
		}
		if strings.ContainsAny(e, "[]") {
			return nil, fmt.Errorf("nested bracket in extras [%s]", list)
		}
		extras = append(extras, e)
	}
	return extras, nil
}

// ValidIdent reports whether s is a non-empty, dotted identifier chain
func ValidIdent(s string) bool {
	return identRe.MatchString(s)
}

// String renders a target in its canonical form
func (t Target) String() string {
	var b strings.Builder
	b.WriteString(t.Module)
	if t.Object != "" {
		b.WriteString(":")
		b.WriteString(t.Object)
	}
	if t.Extras != nil {
		b.WriteString(" [")
		b.WriteString(strings.Join(t.Extras, ","))
		b.WriteString("]")
	}
	return b.String()
}

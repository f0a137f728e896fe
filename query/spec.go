package query

import (
	"fmt"
	"strings"
)

// Spec is a parsed query specifier: "name" counts matches, while
// "name@a,b" counts the captures @a and @b, in that order.
type Spec struct {
	Name string

	// Captures lists the requested capture names. A nil slice selects
	// match counting.
	Captures []string
}

// InvalidSpecError reports a malformed query specifier.
type InvalidSpecError struct {
	Specifier string
	Reason    string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid query specifier %q: %s", e.Specifier, e.Reason)
}

// ParseSpec splits a specifier on its first '@'. Capture names are trimmed
// and de-duplicated, keeping the first occurrence.
func ParseSpec(specifier string) (Spec, error) {
	name, caps, hasCaps := strings.Cut(specifier, "@")
	name = strings.TrimSpace(name)
	if name == "" {
		return Spec{}, &InvalidSpecError{Specifier: specifier, Reason: "empty query name"}
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return Spec{}, &InvalidSpecError{Specifier: specifier, Reason: "query name must not be a path"}
	}

	spec := Spec{Name: name}
	if !hasCaps {
		return spec, nil
	}

	seen := make(map[string]struct{})
	spec.Captures = []string{}
	for _, c := range strings.Split(caps, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			return Spec{}, &InvalidSpecError{Specifier: specifier, Reason: "empty capture name"}
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		spec.Captures = append(spec.Captures, c)
	}
	return spec, nil
}

// IsMatch reports whether the spec counts whole matches.
func (s Spec) IsMatch() bool {
	return s.Captures == nil
}

// Width is the number of counter slots the spec occupies.
func (s Spec) Width() int {
	if s.IsMatch() {
		return 1
	}
	return len(s.Captures)
}

// Labels returns one column label per slot: Query(name) or Query(name@cap).
func (s Spec) Labels() []string {
	if s.IsMatch() {
		return []string{fmt.Sprintf("Query(%s)", s.Name)}
	}
	labels := make([]string, len(s.Captures))
	for i, c := range s.Captures {
		labels[i] = fmt.Sprintf("Query(%s@%s)", s.Name, c)
	}
	return labels
}

func (s Spec) String() string {
	if s.IsMatch() {
		return s.Name
	}
	return s.Name + "@" + strings.Join(s.Captures, ",")
}

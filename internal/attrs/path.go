package attrs

import (
	"fmt"
	"strings"
)

// Path addresses a value in a store as a sequence of segments. The dotted
// rendering "shell.env.RUST_LOG" is the form manifests and error messages use.
type Path []string

// ParsePath splits a dotted string into a Path. Every segment must be
// non-empty and free of dots and whitespace; anything else is rejected here
// so later lookups never have to second-guess their input.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty attribute path")
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if err := checkSegment(seg); err != nil {
			return nil, fmt.Errorf("invalid attribute path %q: %w", s, err)
		}
	}
	return Path(segs), nil
}

// MustPath is ParsePath for paths known at compile time. It panics on
// invalid input.
func MustPath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(fmt.Sprintf("attrs: %v", err))
	}
	return p
}

func checkSegment(seg string) error {
	if seg == "" {
		return fmt.Errorf("empty segment")
	}
	for _, r := range seg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return fmt.Errorf("segment %q contains %q", seg, r)
		}
	}
	return nil
}

// String renders the dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child appends a segment, returning a new Path. The receiver is not
// modified.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Equal reports whether two paths have identical segments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

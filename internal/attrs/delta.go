package attrs

// Delta is an ordered batch of puts produced by a single module contribution.
// Order matters: puts to the same list path append in the order they were
// recorded, and Apply replays the whole batch atomically.
type Delta struct {
	ops []putOp
}

type putOp struct {
	path Path
	val  Value
}

// NewDelta returns an empty delta.
func NewDelta() *Delta {
	return &Delta{}
}

// Put records a value at a path. Putting a zero Value is a programmer error
// and panics.
func (d *Delta) Put(p Path, v Value) *Delta {
	if len(p) == 0 {
		panic("attrs: Put with empty path")
	}
	if v.Kind() == KindInvalid {
		panic("attrs: Put with invalid value at " + p.String())
	}
	d.ops = append(d.ops, putOp{path: p, val: v})
	return d
}

// Set is Put with a dotted path known at compile time. It panics on an
// invalid path; use ParsePath for paths built from user input.
func (d *Delta) Set(dotted string, v Value) *Delta {
	return d.Put(MustPath(dotted), v)
}

// Len reports the number of recorded puts.
func (d *Delta) Len() int {
	if d == nil {
		return 0
	}
	return len(d.ops)
}

// ValidateSegment checks that a manifest-supplied string is usable as a
// single path segment, for keys like environment variable names.
func ValidateSegment(seg string) error {
	return checkSegment(seg)
}

// FirstDuplicate reports the first repeated item of a list. Modules use it
// to reject duplicates inside their own contribution; duplicates across
// modules are legitimate and survive list concatenation.
func FirstDuplicate(items []string) (string, bool) {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			return item, true
		}
		seen[item] = true
	}
	return "", false
}

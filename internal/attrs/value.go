package attrs

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Kind discriminates the variants a Value can hold.
type Kind int

const (
	KindInvalid Kind = iota
	KindScalar
	KindList
	KindStore
	KindArtifact
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindStore:
		return "store"
	case KindArtifact:
		return "artifact"
	default:
		return "invalid"
	}
}

// Artifact roles name what an output handle is for. Selectors filter on
// these when a caller asks for "the" shell or formatter of a platform.
const (
	RolePackage   = "package"
	RoleShell     = "shell"
	RoleFormatter = "formatter"
	RoleCheck     = "check"
)

// ArtifactRef points at a realizable output. It carries no recipe itself;
// the realizer seam maps role and name to an action.
type ArtifactRef struct {
	// Role is one of the Role* constants.
	Role string
	// Name distinguishes artifacts of the same role, e.g. the check name.
	Name string
}

func (r ArtifactRef) String() string {
	return r.Role + ":" + r.Name
}

// Value is a tagged variant: exactly one of scalar, list, store or artifact,
// as reported by Kind. The zero Value is invalid and rejected by Apply.
type Value struct {
	kind     Kind
	scalar   cty.Value
	list     []Value
	store    *Store
	artifact ArtifactRef
}

// Scalar wraps a cty scalar. Strings, numbers and bools are the expected
// types; the store never inspects beyond equality.
func Scalar(v cty.Value) Value {
	return Value{kind: KindScalar, scalar: v}
}

// StringVal is shorthand for Scalar(cty.StringVal(s)).
func StringVal(s string) Value {
	return Scalar(cty.StringVal(s))
}

// BoolVal is shorthand for Scalar(cty.BoolVal(b)).
func BoolVal(b bool) Value {
	return Scalar(cty.BoolVal(b))
}

// IntVal is shorthand for Scalar(cty.NumberIntVal(n)).
func IntVal(n int64) Value {
	return Scalar(cty.NumberIntVal(n))
}

// ListVal builds an ordered list value. The slice is copied.
func ListVal(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindList, list: out}
}

// StringsVal builds a list of string scalars, preserving order.
func StringsVal(items ...string) Value {
	out := make([]Value, len(items))
	for i, s := range items {
		out[i] = StringVal(s)
	}
	return Value{kind: KindList, list: out}
}

// StoreVal wraps a nested store.
func StoreVal(s *Store) Value {
	return Value{kind: KindStore, store: s}
}

// Artifact wraps an artifact reference.
func Artifact(ref ArtifactRef) Value {
	return Value{kind: KindArtifact, artifact: ref}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Scalar returns the underlying cty value. It panics unless Kind is
// KindScalar; callers switch on Kind first.
func (v Value) Scalar() cty.Value {
	v.mustBe(KindScalar)
	return v.scalar
}

// List returns a copy of the list items. It panics unless Kind is KindList.
func (v Value) List() []Value {
	v.mustBe(KindList)
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out
}

// Store returns the nested store. It panics unless Kind is KindStore.
func (v Value) Store() *Store {
	v.mustBe(KindStore)
	return v.store
}

// Artifact returns the artifact reference. It panics unless Kind is
// KindArtifact.
func (v Value) Artifact() ArtifactRef {
	v.mustBe(KindArtifact)
	return v.artifact
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("attrs: value is %s, not %s", v.kind, k))
	}
}

// AsString extracts a string scalar, reporting false for any other shape.
func (v Value) AsString() (string, bool) {
	if v.kind != KindScalar || v.scalar.Type() != cty.String || v.scalar.IsNull() {
		return "", false
	}
	return v.scalar.AsString(), true
}

// AsStrings extracts a list whose items are all string scalars.
func (v Value) AsStrings() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]string, len(v.list))
	for i, item := range v.list {
		s, ok := item.AsString()
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

// Equal reports structural equality. Scalars compare with cty's RawEquals,
// lists element-wise in order, stores entry-wise, artifacts field-wise.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar.RawEquals(o.scalar)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindStore:
		return v.store.Equal(o.store)
	case KindArtifact:
		return v.artifact == o.artifact
	default:
		return true
	}
}

// String renders a value for error messages and the eval view. Strings are
// quoted; composites are summarized rather than dumped.
func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return renderScalar(v.scalar)
	case KindList:
		items := make([]byte, 0, 32)
		items = append(items, '[')
		for i, item := range v.list {
			if i > 0 {
				items = append(items, ", "...)
			}
			items = append(items, item.String()...)
		}
		return string(append(items, ']'))
	case KindStore:
		return fmt.Sprintf("{%d attributes}", v.store.Len())
	case KindArtifact:
		return v.artifact.String()
	default:
		return "<invalid>"
	}
}

func renderScalar(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	switch v.Type() {
	case cty.String:
		return strconv.Quote(v.AsString())
	case cty.Bool:
		return strconv.FormatBool(v.True())
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	default:
		return v.GoString()
	}
}

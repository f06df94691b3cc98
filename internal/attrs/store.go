package attrs

// entry is one slot in a store: the value plus the modules that shaped it,
// in first-contribution order.
type entry struct {
	val     Value
	writers []string
}

// Store is an immutable hierarchy of attributes. The zero entry count store
// comes from Empty; every Apply returns a fresh store and never mutates the
// receiver, so a store handed to a module is safe to retain across merges.
type Store struct {
	entries map[string]entry
	// order holds keys in first-contribution order so iteration and the
	// flattened view are deterministic.
	order []string
}

// Empty returns a store with no attributes.
func Empty() *Store {
	return &Store{}
}

// Len reports the number of top-level keys.
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns the top-level keys in first-contribution order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.order...)
}

// Get resolves a path to its value. Missing paths and paths that descend
// through a non-store value report false rather than an error.
func (s *Store) Get(p Path) (Value, bool) {
	e, ok := s.lookup(p)
	if !ok {
		return Value{}, false
	}
	return e.val, true
}

// GetString resolves a path to a string scalar.
func (s *Store) GetString(p Path) (string, bool) {
	v, ok := s.Get(p)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetStrings resolves a path to a list of string scalars.
func (s *Store) GetStrings(p Path) ([]string, bool) {
	v, ok := s.Get(p)
	if !ok {
		return nil, false
	}
	return v.AsStrings()
}

// Sub resolves a path to a nested store.
func (s *Store) Sub(p Path) (*Store, bool) {
	v, ok := s.Get(p)
	if !ok || v.Kind() != KindStore {
		return nil, false
	}
	return v.store, true
}

// WritersOf reports which modules contributed the value at a path, in first
// contribution order.
func (s *Store) WritersOf(p Path) ([]string, bool) {
	e, ok := s.lookup(p)
	if !ok {
		return nil, false
	}
	return append([]string(nil), e.writers...), true
}

func (s *Store) lookup(p Path) (entry, bool) {
	if len(p) == 0 {
		return entry{}, false
	}
	cur := s
	for i, seg := range p {
		e, ok := cur.entries[seg]
		if !ok {
			return entry{}, false
		}
		if i == len(p)-1 {
			return e, true
		}
		if e.val.Kind() != KindStore {
			return entry{}, false
		}
		cur = e.val.store
	}
	return entry{}, false
}

// Apply merges a delta contributed by the named module and returns the
// resulting store. A delta lands atomically: on conflict, Apply returns nil
// and the error, and the receiver remains the authoritative state.
func (s *Store) Apply(d *Delta, by string) (*Store, error) {
	if d.Len() == 0 {
		return s, nil
	}
	work := s.clone()
	for _, op := range d.ops {
		if err := work.put(nil, op.path, op.val, by); err != nil {
			return nil, err
		}
	}
	return work, nil
}

// put descends along rest, cloning each level it touches so shared subtrees
// of older stores stay intact.
func (s *Store) put(at Path, rest Path, v Value, by string) error {
	seg := rest[0]
	here := at.Child(seg)
	if len(rest) == 1 {
		return s.combine(here, seg, v, by)
	}
	e, ok := s.entries[seg]
	if !ok {
		child := &Store{}
		if err := child.put(here, rest[1:], v, by); err != nil {
			return err
		}
		s.insert(seg, entry{val: StoreVal(child), writers: []string{by}})
		return nil
	}
	if e.val.Kind() != KindStore {
		return &ConflictError{
			Path:     here,
			Existing: Contribution{Module: writerName(e.writers), Value: e.val},
			Incoming: Contribution{Module: by, Value: nest(rest[1:], v)},
		}
	}
	child := e.val.store.clone()
	if err := child.put(here, rest[1:], v, by); err != nil {
		return err
	}
	s.entries[seg] = entry{val: StoreVal(child), writers: addWriter(e.writers, by)}
	return nil
}

// combine merges a value into the leaf slot seg: set-once for scalars and
// artifact refs, concatenation for lists, recursive merge for stores.
func (s *Store) combine(here Path, seg string, v Value, by string) error {
	e, ok := s.entries[seg]
	if !ok {
		s.insert(seg, entry{val: v, writers: []string{by}})
		return nil
	}
	conflict := func() error {
		return &ConflictError{
			Path:     here,
			Existing: Contribution{Module: writerName(e.writers), Value: e.val},
			Incoming: Contribution{Module: by, Value: v},
		}
	}
	if e.val.Kind() != v.Kind() {
		return conflict()
	}
	switch v.Kind() {
	case KindScalar:
		// An identical rewrite is tolerated; the first writer stands.
		if e.val.scalar.RawEquals(v.scalar) {
			return nil
		}
		return conflict()
	case KindArtifact:
		if e.val.artifact == v.artifact {
			return nil
		}
		return conflict()
	case KindList:
		if len(v.list) == 0 {
			return nil
		}
		merged := make([]Value, 0, len(e.val.list)+len(v.list))
		merged = append(merged, e.val.list...)
		merged = append(merged, v.list...)
		s.entries[seg] = entry{val: Value{kind: KindList, list: merged}, writers: addWriter(e.writers, by)}
		return nil
	case KindStore:
		child := e.val.store.clone()
		if err := child.mergeFrom(here, v.store, by); err != nil {
			return err
		}
		s.entries[seg] = entry{val: StoreVal(child), writers: addWriter(e.writers, by)}
		return nil
	default:
		return conflict()
	}
}

// mergeFrom folds every entry of src into s, attributing new material to by.
func (s *Store) mergeFrom(at Path, src *Store, by string) error {
	for _, k := range src.order {
		if err := s.combine(at.Child(k), k, src.entries[k].val, by); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insert(seg string, e entry) {
	if s.entries == nil {
		s.entries = make(map[string]entry)
	}
	if _, ok := s.entries[seg]; !ok {
		s.order = append(s.order, seg)
	}
	s.entries[seg] = e
}

// clone copies the top level only. Entry values are shared until a descent
// clones them in turn.
func (s *Store) clone() *Store {
	out := &Store{
		entries: make(map[string]entry, len(s.entries)),
		order:   append([]string(nil), s.order...),
	}
	for k, e := range s.entries {
		out.entries[k] = e
	}
	return out
}

// Equal reports whether two stores hold equal values at the same keys.
// Contribution order and provenance do not participate.
func (s *Store) Equal(o *Store) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k, e := range s.entries {
		oe, ok := o.entries[k]
		if !ok || !e.val.Equal(oe.val) {
			return false
		}
	}
	return true
}

// Binding is one leaf of a flattened store.
type Binding struct {
	Path    Path
	Value   Value
	Writers []string
}

// Flatten returns every leaf binding depth-first in contribution order.
// Nested stores appear through their leaves, not as bindings themselves.
func (s *Store) Flatten() []Binding {
	var out []Binding
	s.flattenInto(nil, &out)
	return out
}

func (s *Store) flattenInto(prefix Path, out *[]Binding) {
	for _, k := range s.order {
		e := s.entries[k]
		p := prefix.Child(k)
		if e.val.Kind() == KindStore {
			e.val.store.flattenInto(p, out)
			continue
		}
		*out = append(*out, Binding{Path: p, Value: e.val, Writers: append([]string(nil), e.writers...)})
	}
}

func addWriter(ws []string, by string) []string {
	for _, w := range ws {
		if w == by {
			return ws
		}
	}
	return append(append([]string(nil), ws...), by)
}

func writerName(ws []string) string {
	if len(ws) == 0 {
		return "unknown"
	}
	return ws[0]
}

// nest wraps a value in single-entry stores for each remaining segment, used
// to render the incoming side of a conflict that failed mid-descent.
func nest(rest Path, v Value) Value {
	for i := len(rest) - 1; i >= 0; i-- {
		child := &Store{}
		child.insert(rest[i], entry{val: v})
		v = StoreVal(child)
	}
	return v
}

package attrs

import "fmt"

// Contribution pairs a value with the module that wrote it.
type Contribution struct {
	Module string
	Value  Value
}

// ConflictError reports an attempt to overwrite a set-once attribute, or to
// merge values of incompatible shapes at the same path. Apply returns it and
// leaves the store untouched.
type ConflictError struct {
	Path     Path
	Existing Contribution
	Incoming Contribution
}

func (e *ConflictError) Error() string {
	if e.Existing.Value.Kind() != e.Incoming.Value.Kind() {
		return fmt.Sprintf(
			"conflict at %q: module %q wrote a %s, but module %q already wrote a %s (%s)",
			e.Path, e.Incoming.Module, e.Incoming.Value.Kind(),
			e.Existing.Module, e.Existing.Value.Kind(), e.Existing.Value.String(),
		)
	}
	return fmt.Sprintf(
		"conflict at %q: module %q wrote %s, but module %q already wrote %s",
		e.Path, e.Incoming.Module, e.Incoming.Value.String(),
		e.Existing.Module, e.Existing.Value.String(),
	)
}

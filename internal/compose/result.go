package compose

import (
	"errors"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/platform"
)

// Phase is the lifecycle position of one platform's composition.
type Phase int

const (
	PhaseUnresolved Phase = iota
	PhaseOrdering
	PhaseEvaluating
	PhaseMerged
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUnresolved:
		return "unresolved"
	case PhaseOrdering:
		return "ordering"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseMerged:
		return "merged"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the terminal outcome of composing one platform.
type Result struct {
	Platform platform.Platform
	// Phase is PhaseMerged or PhaseFailed once Compose returns.
	Phase Phase
	// Order is the module evaluation order that was used.
	Order []string
	// Store holds the merged attributes; nil unless Phase is PhaseMerged.
	Store *attrs.Store
	// Err is the terminal failure; nil unless Phase is PhaseFailed.
	Err error
}

func (r *Result) fail(err error) {
	r.Phase = PhaseFailed
	r.Store = nil
	r.Err = &EvalError{Platform: r.Platform, Err: err}
}

// ResultSet collects the per-platform results of one Compose call, in the
// order the platforms were requested.
type ResultSet struct {
	order   []platform.Platform
	results map[string]*Result
}

func newResultSet(targets []platform.Platform, results []*Result) *ResultSet {
	rs := &ResultSet{
		order:   append([]platform.Platform(nil), targets...),
		results: make(map[string]*Result, len(results)),
	}
	for _, r := range results {
		rs.results[r.Platform.String()] = r
	}
	return rs
}

// For returns the result for one platform.
func (rs *ResultSet) For(p platform.Platform) (*Result, bool) {
	r, ok := rs.results[p.String()]
	return r, ok
}

// All returns every result in requested-platform order.
func (rs *ResultSet) All() []*Result {
	out := make([]*Result, 0, len(rs.order))
	for _, p := range rs.order {
		out = append(out, rs.results[p.String()])
	}
	return out
}

// Err joins the failures of every failed platform, or returns nil when all
// platforms merged.
func (rs *ResultSet) Err() error {
	var errs []error
	for _, r := range rs.All() {
		if r.Phase == PhaseFailed {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

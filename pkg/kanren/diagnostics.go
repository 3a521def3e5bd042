package kanren

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Diagnostics accumulates the reasons a conjunction's conjuncts failed,
// for interactive debugging of goals built from many conjuncts where
// plain boolean failure doesn't say which one gave out. It is the
// opt-in counterpart to All/Both, which intentionally discard that
// information on the hot path (§4.F: a failed conjunct short-circuits
// the rest without recording why).
//
// A Diagnostics value is not safe for concurrent use; search in this
// package is single-threaded, so this is never a practical restriction.
type Diagnostics struct {
	errs *multierror.Error
}

// WithDiagnostics starts an empty diagnostics collector.
func WithDiagnostics() *Diagnostics { return &Diagnostics{} }

// record appends a failure reason naming label to the collector.
func (d *Diagnostics) record(label string) {
	d.errs = multierror.Append(d.errs, fmt.Errorf("kanren: conjunct %q failed", label))
}

// Err returns the aggregated failure reasons, or nil if every recorded
// conjunct so far succeeded.
func (d *Diagnostics) Err() error {
	if d == nil {
		return nil
	}
	return d.errs.ErrorOrNil()
}

// LabeledGoal pairs a goal with the name AllDiag reports it under if it
// is the one that fails.
type LabeledGoal[D Domain] struct {
	Label string
	Goal  Goal[D]
}

// L builds a LabeledGoal, for terser call sites: AllDiag(d, L("x=1", g1), ...).
func L[D Domain](label string, g Goal[D]) LabeledGoal[D] {
	return LabeledGoal[D]{Label: label, Goal: g}
}

// AllDiag is All with failure reporting: the label of the first conjunct
// to fail is recorded into diag before the conjunction short-circuits. A
// nil diag makes AllDiag behave exactly like All, so a goal built with
// AllDiag can be reused outside a diagnostics session at no cost.
func AllDiag[D Domain](diag *Diagnostics, goals ...LabeledGoal[D]) Goal[D] {
	return func(s *State[D]) (*State[D], bool) {
		var ok bool
		for _, lg := range goals {
			s, ok = lg.Goal(s)
			if !ok {
				if diag != nil {
					diag.record(lg.Label)
				}
				return s, false
			}
		}
		return s, true
	}
}

package validator

import (
	"github.com/regdir/gradval/internal/diag"
	"github.com/regdir/gradval/internal/grammar"
)

// constraintCategory is the outcome bucket the optional-constrained
// consistency rule groups entries into: present with a value, present
// but empty, or omitted entirely.
type constraintCategory int

const (
	catPresentNonEmpty constraintCategory = iota
	catPresentEmpty
	catOmitted
)

// constraintTracker enforces that, within one enclosing sequence, every
// optional-constrained entry lands in the same category — all present-
// nonempty, all present-empty, or all omitted. It is scoped to a single
// call to dispatchSequence rather than held as global state, per the
// design note in §9.
type constraintTracker struct {
	seen     map[constraintCategory]bool
	reported bool
}

func newConstraintTracker() *constraintTracker {
	return &constraintTracker{seen: make(map[constraintCategory]bool)}
}

// recordConstrained classifies a single optional-constrained attempt and
// feeds it to the tracker, emitting a diagnostic the first time an
// outcome conflicts with a category already observed in this sequence.
func (e *engine) recordConstrained(entry grammar.Entry, tracker *constraintTracker, res attemptResult) {
	var category constraintCategory
	line := res.line

	switch res.outcome {
	case oMatched:
		category = catPresentNonEmpty
	case oEmptyField:
		category = catPresentEmpty
	case oDeclined:
		category = catOmitted // line is already the position the omission was expected at
	}
	// A sub-rule entry (dispatchChoice via attemptSubRule) only ever
	// reports oMatched/oDeclined, never oEmptyField, so an
	// OptionalConstrained entry wrapping a choice section can't land in
	// catPresentEmpty even when the chosen branch silently accepted an
	// empty value. Narrower than this tracker's general scope.

	if !tracker.seen[category] && len(tracker.seen) > 0 && !tracker.reported {
		e.sink.Add(diag.Structural, line,
			"inconsistent optional fields: %q does not match the presence/emptiness of earlier constrained fields", entry.Name)
		tracker.reported = true
	}
	tracker.seen[category] = true
}

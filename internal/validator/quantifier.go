package validator

import (
	"github.com/regdir/gradval/internal/diag"
	"github.com/regdir/gradval/internal/grammar"
)

// applyQuantifier drives one or more attempts at entry's subject
// according to its occurrence policy (§4.3). tracker is the
// optional-constrained consistency tracker for the enclosing sequence;
// it is only consulted by the OptionalConstrained branch.
func (e *engine) applyQuantifier(entry grammar.Entry, tracker *constraintTracker) {
	switch entry.Quantifier.Kind {
	case grammar.ExactlyOnce:
		e.finalizeSingle(entry, e.attemptEntry(entry), true)

	case grammar.OptionalFree:
		// Declined, matched or empty-field are all accepted silently;
		// lexer/type diagnostics from a present match were already
		// forwarded by the attempt itself.
		e.attemptEntry(entry)

	case grammar.OptionalConstrained:
		e.recordConstrained(entry, tracker, e.attemptEntry(entry))

	case grammar.Repeatable, grammar.RepeatableMax, grammar.OptionalRepeatable:
		min, max := entry.Quantifier.Bounds()
		e.applyRepeating(entry, min, max)
	}
}

// finalizeSingle reports the outcome of a single (non-repeating)
// required attempt. requireMissing controls whether a decline is
// reported (it always is for ExactlyOnce; the repeating path has its
// own loop-aware reporting and does not call this).
func (e *engine) finalizeSingle(entry grammar.Entry, res attemptResult, requireMissing bool) {
	switch res.outcome {
	case oMatched:
	case oEmptyField:
		e.sink.Add(diag.Structural, res.line, "field %q must not be empty", entry.Name)
	case oDeclined:
		if requireMissing && !res.selfReported {
			e.reportMissing(entry, res.line)
		}
	}
}

// reportMissing emits the generic "expected X" structural diagnostic for
// a required subject that declined to match.
func (e *engine) reportMissing(entry grammar.Entry, line int) {
	switch {
	case entry.IsTerminal() && entry.Line == grammar.LineField:
		e.sink.Add(diag.Structural, line, "expected field %q at line %d", entry.Name, line)
	case entry.IsTerminal() && entry.Line == grammar.LineAny:
		e.sink.Add(diag.Structural, line, "expected any line at line %d", line)
	case entry.IsTerminal() && entry.Line == grammar.LineEOF:
		e.sink.Add(diag.Structural, line, "expected EOF at line %d", line)
	default:
		e.sink.Add(diag.Structural, line, "expected %q at line %d", entry.Name, line)
	}
}

// applyRepeating drives the repeatable / repeatable-max / optional-
// repeatable quantifiers: attempt until declined, then check min, and
// enforce max by performing one extra attempt once max successes have
// been reached (§4.3).
func (e *engine) applyRepeating(entry grammar.Entry, min, max int) {
	count := 0
	declineLine := e.lex.LineNo()

	for {
		res := e.attemptEntry(entry)
		if res.outcome == oDeclined {
			declineLine = res.line
			break
		}
		if res.outcome == oEmptyField {
			e.sink.Add(diag.Structural, res.line, "field %q must not be empty", entry.Name)
		}
		count++

		if max >= 0 && count == max {
			extra := e.attemptEntry(entry)
			if extra.outcome == oDeclined {
				declineLine = extra.line
				break
			}
			e.sink.Add(diag.Structural, extra.line, "too many repetitions of %q", entry.Name)
			if extra.outcome == oEmptyField {
				e.sink.Add(diag.Structural, extra.line, "field %q must not be empty", entry.Name)
			}
			count++
		}
	}

	if count < min {
		e.reportMissing(entry, declineLine)
	}
}

package validator

import (
	"github.com/regdir/gradval/internal/diag"
	"github.com/regdir/gradval/internal/grammar"
	"github.com/regdir/gradval/internal/token"
)

// attemptOutcome is the result of one quantifier-engine attempt, per
// §4.3: matched (tokens consumed, possibly with diagnostics), emptyField
// (a field token with the expected name but an absent value), or
// declined (no tokens consumed).
type attemptOutcome int

const (
	oDeclined attemptOutcome = iota
	oMatched
	oEmptyField
)

// attemptResult carries the outcome plus the line it is anchored to.
// selfReported is set when the terminal already emitted its own
// diagnostic on decline (EOF only), so the quantifier engine must not
// add a second, generic "missing" diagnostic for the same violation.
type attemptResult struct {
	outcome      attemptOutcome
	line         int
	selfReported bool
}

// attemptEntry dispatches a single attempt at entry's subject, whether
// it is a terminal expectation or a reference to another rule.
func (e *engine) attemptEntry(entry grammar.Entry) attemptResult {
	if !entry.IsTerminal() {
		return e.attemptSubRule(entry)
	}
	switch entry.Line {
	case grammar.LineField:
		return e.attemptField(entry)
	case grammar.LineAny:
		return e.attemptAny()
	case grammar.LineEOF:
		return e.attemptEOF()
	default:
		panic(&grammar.ProgrammerError{Message: "entry has no recognized line kind"})
	}
}

// attemptField implements §4.2's `field` case.
func (e *engine) attemptField(entry grammar.Entry) attemptResult {
	tok := e.lex.PeekLine()
	if tok.Kind != token.Field || tok.Field.Name != entry.Name {
		return attemptResult{outcome: oDeclined, line: e.lex.LineNo()}
	}

	e.sink.Forward(diag.Lexer, tok.Line, tok.Diagnostics)

	var outcome attemptOutcome
	if tok.Field.Value == nil {
		outcome = oEmptyField
	} else {
		if entry.Type != "" {
			e.validateType(entry.Type, *tok.Field.Value, tok.Line)
		}
		outcome = oMatched
	}
	e.advance()
	return attemptResult{outcome: outcome, line: tok.Line}
}

// attemptAny implements §4.2's `any line` case: matches any token kind
// except EOF, with no type checking.
func (e *engine) attemptAny() attemptResult {
	tok := e.lex.PeekLine()
	if tok.Kind == token.EOF {
		return attemptResult{outcome: oDeclined, line: tok.Line}
	}
	e.sink.Forward(diag.Lexer, tok.Line, tok.Diagnostics)
	e.advance()
	return attemptResult{outcome: oMatched, line: tok.Line}
}

// attemptEOF implements §4.2's `EOF` case. Unlike `field`, a non-match is
// always a hard failure regardless of the surrounding quantifier, so the
// diagnostic is emitted here rather than deferred to the quantifier
// engine's generic "missing" reporting.
func (e *engine) attemptEOF() attemptResult {
	tok := e.lex.PeekLine()
	if tok.Kind != token.EOF {
		e.sink.Add(diag.Structural, tok.Line, "expected EOF at line %d", tok.Line)
		return attemptResult{outcome: oDeclined, line: tok.Line, selfReported: true}
	}
	e.sink.Forward(diag.Lexer, tok.Line, tok.Diagnostics)
	e.advance()
	return attemptResult{outcome: oMatched, line: tok.Line}
}

// attemptSubRule implements §4.4: a sub-rule invocation commits the
// moment it consumes any token. There is no empty-field outcome for
// sub-rules.
func (e *engine) attemptSubRule(entry grammar.Entry) attemptResult {
	line := e.lex.LineNo()
	startConsumed := e.consumed
	startDiags := len(e.sink.Diagnostics())

	min, _ := entry.Quantifier.Bounds()
	e.dispatch(entry.Name, min == 0)

	consumed := e.consumed != startConsumed
	producedDiagnostics := len(e.sink.Diagnostics()) != startDiags
	if !consumed && !producedDiagnostics {
		return attemptResult{outcome: oDeclined, line: line}
	}
	return attemptResult{outcome: oMatched, line: line}
}

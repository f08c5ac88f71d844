package validator

import (
	"fmt"

	"github.com/regdir/gradval/internal/diag"
	"github.com/regdir/gradval/internal/grammar"
	"github.com/regdir/gradval/internal/token"
)

// dispatch resolves name in the grammar and delegates to the sequence
// walk or the choice-section matcher. allowEmptyField is only consulted
// when the resolved rule is a choice section: it tells the choice
// matcher whether the referring entry's quantifier tolerates an
// empty-valued field (see §4.5 and the quantifier engine's commit rule
// for sub-rules in §4.4).
func (e *engine) dispatch(name string, allowEmptyField bool) {
	body := e.gram.Resolve(name) // panics with *grammar.ProgrammerError if unknown
	if body.IsChoice() {
		e.dispatchChoice(body, allowEmptyField)
		return
	}
	e.dispatchSequence(body)
}

// dispatchSequence walks a sequence's entries in order. Each entry gets
// its own quantifier-engine attempt; the sequence itself owns a single
// optional-constrained consistency tracker, per the design note that the
// constraint group is scoped to "the enclosing sequence" rather than
// kept as global state.
func (e *engine) dispatchSequence(body grammar.RuleBody) {
	tracker := newConstraintTracker()
	for _, entry := range body.Sequence {
		e.applyQuantifier(entry, tracker)
	}
}

// dispatchChoice matches the next token against exactly one alternative
// of a choice section. It either advances by exactly one token or
// declines without consuming anything; it never partially consumes.
func (e *engine) dispatchChoice(body grammar.RuleBody, allowEmptyField bool) {
	tok := e.lex.PeekLine()
	if tok.Kind != token.Field {
		return
	}
	alt, ok := body.Choice[tok.Field.Name]
	if !ok {
		return
	}

	e.sink.Forward(diag.Lexer, tok.Line, tok.Diagnostics)

	if tok.Field.Value == nil {
		if !allowEmptyField {
			e.sink.Add(diag.Structural, tok.Line, "field %q must not be empty", tok.Field.Name)
		}
		e.advance()
		return
	}

	if alt.Type != "" {
		e.validateType(alt.Type, *tok.Field.Value, tok.Line)
	}
	e.advance()
}

func (e *engine) validateType(name, value string, line int) {
	if !e.types.HasType(name) {
		panic(&grammar.ProgrammerError{Message: fmt.Sprintf("unknown type %q", name)})
	}
	e.sink.Forward(diag.Type, line, e.types.ValidateType(name, value))
}

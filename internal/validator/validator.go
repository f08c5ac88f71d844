// Package validator is the grammar-driven validation engine: a
// recursive-descent interpreter over a grammar.Grammar that reconciles
// grammar expectations against a token.Lexer's stream with one-token
// look-ahead, producing ordered, line-anchored diagnostics.
package validator

import (
	"github.com/regdir/gradval/internal/diag"
	"github.com/regdir/gradval/internal/grammar"
	"github.com/regdir/gradval/internal/token"
	"github.com/regdir/gradval/internal/types"
)

// engine holds the transient state of a single Validate call: no state
// persists across calls, so distinct engines over distinct lexers may
// run concurrently as long as the grammar and type registry are shared
// read-only, per the concurrency model.
type engine struct {
	lex      token.Lexer
	gram     grammar.Grammar
	types    types.Registry
	sink     *diag.Sink
	consumed int
}

func (e *engine) advance() {
	e.lex.NextLine()
	e.consumed++
}

// Validate resolves rule in grammar and walks it against lexer, consulting
// registry for scalar field types, and returns the ordered diagnostics
// produced. An empty result means the input conforms. Validate never
// short-circuits on the first violation: it accumulates diagnostics and
// tries to make progress so independent violations are all reported from
// one run.
//
// An unknown rule name, an unknown type name, or a malformed grammar
// entry is a programmer error. It is outside the diagnostic channel and
// is reported by panicking with a *grammar.ProgrammerError rather than
// being folded into the returned diagnostics.
func Validate(rule string, lex token.Lexer, gram grammar.Grammar, registry types.Registry) []string {
	return ValidateDiagnostics(rule, lex, gram, registry).Strings()
}

// ValidateDiagnostics behaves like Validate but returns the full,
// kind-tagged diag.Diagnostic values rather than flattened strings — for
// callers, such as the CLI's diagfmt rendering, that want to
// distinguish lexer-sourced, type-sourced, and structural violations.
func ValidateDiagnostics(rule string, lex token.Lexer, gram grammar.Grammar, registry types.Registry) *diag.Sink {
	e := &engine{lex: lex, gram: gram, types: registry, sink: diag.NewSink()}
	e.dispatch(rule, false)
	return e.sink
}

// Package token defines the contract the validator expects from an
// upstream lexer: a stream of typed tokens consumed through peek/advance
// with one-token look-ahead, plus whatever diagnostics the lexer itself
// attached to a token.
package token

// Kind classifies a token the way the lexer classifies a source line.
type Kind string

const (
	// Field is a "name: value" style line.
	Field Kind = "field"
	// EmptyLine is a blank line.
	EmptyLine Kind = "empty line"
	// NonEmptyLine is an unclassified line carrying text.
	NonEmptyLine Kind = "non-empty line"
	// AnyLine matches any line the lexer did not otherwise classify.
	AnyLine Kind = "any line"
	// RoidLine is a registry object identifier line.
	RoidLine Kind = "roid line"
	// EOF is the sentinel returned once the stream is exhausted.
	EOF Kind = "EOF"
)

// Field is the payload of a Field-kind token: a field name, its optional
// language translations, and its value. Value is nil for an empty field
// (the field name was present but no value followed it).
type Field struct {
	Name         string
	Translations []string
	Value        *string
}

// Token is one unit handed to the validator by the lexer: a line-kind, a
// kind-specific payload, and any diagnostics the lexer attached to this
// particular line.
type Token struct {
	Kind        Kind
	Line        int
	Field       *Field // set iff Kind == Field
	Payload     any    // opaque payload for other kinds (e.g. roid text)
	Diagnostics []string
}

// Lexer is the capability set the validator consumes. Implementations are
// pull-based and synchronous from the validator's point of view: peeking
// never advances, and advancing past the last token is a no-op.
type Lexer interface {
	// PeekLine returns the token at the head of the stream without
	// consuming it. May be called repeatedly with no side effects.
	PeekLine() Token

	// NextLine advances the cursor by one token.
	NextLine()

	// LineNo returns the 1-based line number of the token currently at
	// the head of the stream.
	LineNo() int
}

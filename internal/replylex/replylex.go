// Package replylex is a reference implementation of the token.Lexer
// contract over plain-text directory-service replies (WHOIS/RDAP-style
// "Name: Value" records). It is not part of the validator's core — per
// the core's scope, the lexer is an external collaborator — but every
// grammar-driven validator needs at least one lexer to exercise it
// end-to-end, the way the teacher ships cmd/drun alongside its pure
// parser/AST core.
//
// The line scanning itself follows the teacher's approach in
// internal/lexer: a single up-front scan that tracks line numbers as it
// goes, rather than a byte-at-a-time state machine.
package replylex

import (
	"regexp"
	"strings"

	"github.com/regdir/gradval/internal/token"
)

// fieldLine matches "Name: Value", "Name:" (empty value) and
// "Name (lang): Value" (a translated field name).
var fieldLine = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 /'-]*?)(?:\s*\(([^)]+)\))?:\s*(.*)$`)

// roidLine matches the ">>> ... <<<" footer banner commonly seen at the
// end of a WHOIS reply.
var roidLine = regexp.MustCompile(`^>>>.*<<<\s*$`)

// Lexer scans a directory-service reply into a stream of tokens. It
// tokenizes the whole input up front; PeekLine/NextLine then walk that
// pre-scanned slice, which keeps the peek/advance contract trivially
// pure regardless of how the scan itself is implemented.
type Lexer struct {
	tokens []token.Token
	pos    int
}

// New scans source into a Lexer ready to be handed to the validator.
func New(source string) *Lexer {
	rawLines := strings.Split(source, "\n")
	if len(rawLines) > 1 && rawLines[len(rawLines)-1] == "" {
		// A final newline terminates the last line; it does not start a new one.
		rawLines = rawLines[:len(rawLines)-1]
	}
	tokens := make([]token.Token, 0, len(rawLines)+1)

	for i, raw := range rawLines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")

		switch {
		case strings.TrimSpace(line) == "":
			tokens = append(tokens, token.Token{Kind: token.EmptyLine, Line: lineNo})
		case roidLine.MatchString(line):
			tokens = append(tokens, token.Token{Kind: token.RoidLine, Line: lineNo, Payload: line})
		default:
			if m := fieldLine.FindStringSubmatch(line); m != nil {
				tokens = append(tokens, fieldToken(lineNo, m))
				continue
			}
			tokens = append(tokens, token.Token{Kind: token.NonEmptyLine, Line: lineNo, Payload: line})
		}
	}

	tokens = append(tokens, token.Token{Kind: token.EOF, Line: len(rawLines) + 1})
	return &Lexer{tokens: tokens}
}

func fieldToken(lineNo int, m []string) token.Token {
	name := strings.TrimSpace(m[1])
	var translations []string
	if m[2] != "" {
		for _, t := range strings.Split(m[2], ",") {
			translations = append(translations, strings.TrimSpace(t))
		}
	}

	var value *string
	if v := strings.TrimSpace(m[3]); v != "" {
		value = &v
	}

	return token.Token{
		Kind: token.Field,
		Line: lineNo,
		Field: &token.Field{
			Name:         name,
			Translations: translations,
			Value:        value,
		},
	}
}

// PeekLine returns the token at the head of the stream without advancing.
func (l *Lexer) PeekLine() token.Token {
	if l.pos >= len(l.tokens) {
		return token.Token{Kind: token.EOF, Line: l.tokens[len(l.tokens)-1].Line}
	}
	return l.tokens[l.pos]
}

// NextLine advances past the head token; a no-op once exhausted.
func (l *Lexer) NextLine() {
	if l.pos < len(l.tokens)-1 {
		l.pos++
	}
}

// LineNo returns the line number of the token at the head of the stream.
func (l *Lexer) LineNo() int {
	return l.PeekLine().Line
}

package token

import (
	"strings"

	"texmath/internal/source"
)

// Token represents a single source token with its location.
// Expanded tokens inherit the span of the macro invocation that produced
// them (widened over consumed argument tokens), so downstream consumers can
// treat Span uniformly as "the source text this token stands for".
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsCommand reports whether the token is a control word or control symbol.
func (t Token) IsCommand() bool {
	return t.Kind == ControlWord || t.Kind == ControlSymbol
}

// Name returns the command name without the leading backslash.
// For non-command tokens it returns Text unchanged.
func (t Token) Name() string {
	if t.IsCommand() {
		return strings.TrimPrefix(t.Text, "\\")
	}
	return t.Text
}

// IsEOF reports whether the token marks end of input.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// Loc returns the token's span as an optional location.
func (t Token) Loc() source.Loc { return source.At(t.Span) }

package macro

import (
	"texmath/internal/diag"
	"texmath/internal/lexer"
	"texmath/internal/source"
	"texmath/internal/token"
)

// DefaultMaxExpansionSteps bounds macro rewriting so self-referential
// definitions fail deterministically instead of looping.
const DefaultMaxExpansionSteps = 1000

type Options struct {
	// Macros are user definitions; they shadow builtins by name.
	Macros map[string]Definition
	// MaxExpansionSteps caps the number of expansion events per stream.
	// Zero means DefaultMaxExpansionSteps.
	MaxExpansionSteps int
	// Reporter может быть nil
	Reporter diag.Reporter
}

// Expander presents the lexer's pull interface while lazily substituting
// macro invocations. Expansion is one token of lookahead at most: body
// tokens are materialized only when the stream is actually consumed.
//
// Every produced token is stamped with the union of the invocation token's
// span and the spans of all raw tokens consumed for that expansion, so a
// fully expanded construct still reports the character range of the call.
type Expander struct {
	lx       *lexer.Lexer
	macros   map[string]Definition
	pending  []token.Token // уже расширенные токены; pending[0] — следующий
	look     *token.Token
	steps    int
	maxSteps int
	reporter diag.Reporter
	failed   bool
}

func New(lx *lexer.Lexer, opts Options) *Expander {
	macros := Builtins()
	for name, def := range opts.Macros {
		macros[name] = def
	}
	maxSteps := opts.MaxExpansionSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxExpansionSteps
	}
	return &Expander{
		lx:       lx,
		macros:   macros,
		maxSteps: maxSteps,
		reporter: opts.Reporter,
	}
}

// File returns the underlying source.
func (e *Expander) File() *source.File { return e.lx.File() }

// EmptySpan returns a zero-length span at the lexer's current position.
func (e *Expander) EmptySpan() source.Span { return e.lx.EmptySpan() }

// Failed reports whether the expansion budget was exceeded.
func (e *Expander) Failed() bool { return e.failed }

// Next returns the next fully expanded token.
func (e *Expander) Next() token.Token {
	if e.look != nil {
		tok := *e.look
		e.look = nil
		return tok
	}
	for {
		if e.failed {
			return token.Token{Kind: token.EOF, Span: e.lx.EmptySpan()}
		}
		tok := e.rawNext()
		if tok.Kind == token.ControlWord {
			if def, ok := e.macros[tok.Name()]; ok {
				if !e.expand(tok, def) {
					// бюджет исчерпан: отдать невалидный токен с локацией вызова
					return token.Token{Kind: token.Invalid, Span: tok.Span, Text: tok.Text}
				}
				continue
			}
		}
		return tok
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (e *Expander) Peek() token.Token {
	t := e.Next()
	e.look = &t
	return t
}

// rawNext pulls one token without triggering expansion: pending output
// first, then the lexer. Used both by Next and by argument capture (macro
// arguments are captured unexpanded, per TeX's lazy rule).
func (e *Expander) rawNext() token.Token {
	if len(e.pending) > 0 {
		tok := e.pending[0]
		e.pending = e.pending[1:]
		return tok
	}
	return e.lx.Next()
}

// expand substitutes one invocation. Returns false when the step budget is
// exceeded.
func (e *Expander) expand(call token.Token, def Definition) bool {
	e.steps++
	if e.steps > e.maxSteps {
		e.failed = true
		if e.reporter != nil {
			diag.ReportError(e.reporter, diag.MacRecursionLimit, call.Span,
				"macro expansion budget exceeded; is \\"+def.Name+" self-referential?").Emit()
		}
		return false
	}

	callSpan := call.Span
	args := make([][]token.Token, def.NumArgs)
	for i := 0; i < def.NumArgs; i++ {
		arg, consumed, ok := e.captureArg(call)
		for _, t := range consumed {
			callSpan = callSpan.Cover(t.Span)
		}
		if !ok {
			if e.reporter != nil {
				diag.ReportError(e.reporter, diag.MacMissingArgument, callSpan,
					"missing argument for macro \\"+def.Name).Emit()
			}
			arg = nil
		}
		args[i] = arg
	}

	out := make([]token.Token, 0, len(def.Body))
	for _, piece := range def.Body {
		if piece.Param == 0 {
			tok := piece.Tok
			tok.Span = callSpan
			out = append(out, tok)
			continue
		}
		for _, argTok := range args[piece.Param-1] {
			argTok.Span = callSpan
			out = append(out, argTok)
		}
	}
	e.pending = append(out, e.pending...)
	return true
}

// captureArg reads one raw macro argument: a braced balanced token list or a
// single token. Leading spaces are consumed and folded into the call span.
// consumed lists every raw token eaten, braces and spaces included.
func (e *Expander) captureArg(call token.Token) (arg, consumed []token.Token, ok bool) {
	tok := e.rawNext()
	for tok.Kind == token.Space {
		consumed = append(consumed, tok)
		tok = e.rawNext()
	}
	consumed = append(consumed, tok)

	switch tok.Kind {
	case token.EOF, token.Invalid:
		return nil, consumed, false
	case token.LBrace:
		depth := 1
		for {
			inner := e.rawNext()
			if inner.Kind == token.EOF || inner.Kind == token.Invalid {
				consumed = append(consumed, inner)
				return nil, consumed, false
			}
			consumed = append(consumed, inner)
			switch inner.Kind {
			case token.LBrace:
				depth++
			case token.RBrace:
				depth--
				if depth == 0 {
					return arg, consumed, true
				}
			}
			if inner.Kind != token.RBrace || depth > 0 {
				arg = append(arg, inner)
			}
		}
	default:
		return []token.Token{tok}, consumed, true
	}
}

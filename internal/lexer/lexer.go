package lexer

import (
	"texmath/internal/diag"
	"texmath/internal/source"
	"texmath/internal/token"
)

// Lexer is a pull tokenizer for math markup. Every returned token's span is
// exactly the source range it consumed.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1-элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
	}
}

// File returns the source the lexer reads.
func (lx *Lexer) File() *source.File { return lx.file }

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	// 1) Если есть look — вернуть его и очистить
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	// 2) Если EOF → вернуть EOF
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Text: "",
		}
	}

	// 3) Посмотреть текущий байт и выбрать сканер
	ch := lx.cursor.Peek()

	switch {
	case ch == '\\':
		return lx.scanControlSequence()
	case isSpaceByte(ch):
		return lx.scanSpaceRun()
	default:
		return lx.scanSingle()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// scanControlSequence сканирует `\` + буквы (control word) либо
// `\` + один небуквенный символ (control symbol).
func (lx *Lexer) scanControlSequence() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'

	if lx.cursor.EOF() {
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadControlSeq, sp, "backslash at end of input")
		return token.Token{Kind: token.Invalid, Span: sp, Text: "\\"}
	}

	if isLetterByte(lx.cursor.Peek()) {
		for !lx.cursor.EOF() && isLetterByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.ControlWord, Span: sp, Text: sp.Text(lx.file.Content)}
	}

	// control symbol: ровно одна руна после backslash
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.ControlSymbol, Span: sp, Text: sp.Text(lx.file.Content)}
}

// scanSpaceRun коалесцирует подряд идущие пробельные символы в один токен.
func (lx *Lexer) scanSpaceRun() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isSpaceByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Space, Span: sp, Text: " "}
}

// scanSingle выдаёт односимвольный токен (одна руна).
func (lx *Lexer) scanSingle() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	var kind token.Kind
	switch ch {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '$':
		kind = token.MathShift
	case '^':
		kind = token.Superscript
	case '_':
		kind = token.Subscript
	case '\'':
		kind = token.Prime
	default:
		kind = token.Char
	}

	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: sp.Text(lx.file.Content)}
}

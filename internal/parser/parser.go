package parser

import (
	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/macro"
	"texmath/internal/source"
	"texmath/internal/token"
)

type Options struct {
	// Reporter получает все диагностики; может быть nil.
	Reporter diag.Reporter
	// ColorIsTextColor makes \color take its body as a second argument,
	// LaTeX's \textcolor behavior, instead of switching the rest of the
	// group.
	ColorIsTextColor bool
	// MaxErrors stops recovery after this many errors; 0 = unlimited.
	MaxErrors     uint
	CurrentErrors uint
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Nodes []*ast.Node
	Bag   *diag.Bag
}

// Parser — состояние разбора одной исходной строки.
type Parser struct {
	ex       *macro.Expander // поток токенов после расширения макросов
	file     *source.File
	opts     Options
	mode     ast.Mode
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// Parse is the entry point for one source string. Requires an already
// constructed expander (built over a lexer on a source.File).
func Parse(ex *macro.Expander, opts Options) Result {
	p := Parser{
		ex:       ex,
		file:     ex.File(),
		opts:     opts,
		mode:     ast.MathMode,
		lastSpan: ex.EmptySpan(),
	}

	nodes := p.parseExpression(nil)
	// Остаток после стоп-условия верхнего уровня — это лишние '}'.
	for !p.at(token.EOF) {
		tok := p.advance()
		p.err(diag.SynUnexpectedToken, tok.Span, "unexpected '"+tok.Text+"'")
		nodes = append(nodes, p.errorNode(tok.Span, "unexpected '"+tok.Text+"'"))
	}

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{Nodes: nodes, Bag: bag}
}

func (p *Parser) at(k token.Kind) bool {
	return p.ex.Peek().Kind == k
}

func (p *Parser) peek() token.Token {
	return p.ex.Peek()
}

func (p *Parser) advance() token.Token {
	tok := p.ex.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// skipSpaces ест пробельные токены и возвращает покрывающий их span.
// ok=false, если пробелов не было.
func (p *Parser) skipSpaces() (source.Span, bool) {
	var sp source.Span
	seen := false
	for p.at(token.Space) {
		tok := p.advance()
		if !seen {
			sp = tok.Span
			seen = true
		} else {
			sp = sp.Cover(tok.Span)
		}
	}
	return sp, seen
}

func (p *Parser) err(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
	}
}

// errorNode is the marker leaf substituted at a failure point when the
// caller keeps parsing (ThrowOnError=false policy is applied by the driver).
func (p *Parser) errorNode(sp source.Span, msg string) *ast.Node {
	return &ast.Node{
		Kind: ast.KindError,
		Mode: p.mode,
		Loc:  source.At(sp),
		Text: msg,
	}
}

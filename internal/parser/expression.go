package parser

import (
	"unicode"
	"unicode/utf8"

	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/source"
	"texmath/internal/symbols"
	"texmath/internal/token"
)

// stopFn is a caller-supplied terminator: parseExpression returns before
// consuming a token it reports true for. EOF and '}' always terminate.
type stopFn func(tok token.Token) bool

// parseExpression repeatedly parses one atom and greedily attaches any
// following script markers to it, until the stop condition.
func (p *Parser) parseExpression(stop stopFn) []*ast.Node {
	var nodes []*ast.Node
	for {
		tok := p.peek()
		if tok.Kind == token.EOF || tok.Kind == token.RBrace {
			break
		}
		if stop != nil && stop(tok) {
			break
		}
		if tok.Kind == token.Space {
			p.advance()
			if p.mode == ast.TextMode {
				nodes = append(nodes, &ast.Node{
					Kind: ast.KindSpace,
					Mode: ast.TextMode,
					Text: " ",
					Loc:  source.At(tok.Span),
				})
			}
			continue
		}

		atom := p.parseAtom()
		if atom == nil {
			continue
		}
		atom = p.parseScripts(atom)
		nodes = append(nodes, atom)

		if p.opts.Enough() {
			break
		}
	}
	return nodes
}

// parseAtom parses one syntactic unit: a leaf symbol, a group, or a command
// with its arguments.
func (p *Parser) parseAtom() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseGroup(p.mode)

	case token.ControlWord, token.ControlSymbol:
		return p.parseCommand(p.advance(), -1)

	case token.MathShift:
		if p.mode == ast.TextMode {
			return p.parseInlineMath()
		}
		p.advance()
		p.err(diag.SynUnexpectedToken, tok.Span, "'$' inside math mode")
		return p.errorNode(tok.Span, "'$' inside math mode")

	case token.Superscript, token.Subscript:
		p.advance()
		p.err(diag.SynUnexpectedToken, tok.Span, "script marker '"+tok.Text+"' with no base")
		return p.errorNode(tok.Span, "script marker with no base")

	case token.Invalid:
		p.advance()
		return p.errorNode(tok.Span, "malformed input")

	default:
		return p.parseSymbol(p.advance())
	}
}

// parseSymbol turns one character token into a leaf node.
func (p *Parser) parseSymbol(tok token.Token) *ast.Node {
	if entry, ok := symbols.Get().Lookup(p.mode, tok.Text); ok {
		return &ast.Node{
			Kind:  ast.KindAtom,
			Mode:  p.mode,
			Text:  tok.Text,
			Class: entry.Class,
			Loc:   source.At(tok.Span),
		}
	}

	r, _ := utf8.DecodeRuneInString(tok.Text)
	switch {
	case r >= '0' && r <= '9':
		return p.parseNumber(tok)
	case unicode.IsLetter(r):
		return ast.NewLeaf(ast.KindIdentifier, p.mode, tok.Text, source.At(tok.Span))
	case p.mode == ast.TextMode:
		// текстовый режим пропускает почти всё как ord
		return &ast.Node{
			Kind:  ast.KindAtom,
			Mode:  p.mode,
			Text:  tok.Text,
			Class: ast.ClassOrd,
			Loc:   source.At(tok.Span),
		}
	default:
		p.err(diag.LexUnexpectedChar, tok.Span, "unexpected character '"+tok.Text+"'")
		return p.errorNode(tok.Span, "unexpected character '"+tok.Text+"'")
	}
}

// parseNumber coalesces consecutive digit tokens (and an embedded decimal
// point) into one Number leaf.
func (p *Parser) parseNumber(first token.Token) *ast.Node {
	text := first.Text
	span := first.Span
	for {
		tok := p.peek()
		if tok.Kind != token.Char {
			break
		}
		isDigit := len(tok.Text) == 1 && tok.Text[0] >= '0' && tok.Text[0] <= '9'
		isPoint := tok.Text == "."
		if !isDigit && !isPoint {
			break
		}
		p.advance()
		text += tok.Text
		span = span.Cover(tok.Span)
	}
	return ast.NewLeaf(ast.KindNumber, p.mode, text, source.At(span))
}

// parseCommand resolves a command token against the function registry and
// the symbol table. outerGreediness < 0 means the command appears in atom
// position and is always permitted.
func (p *Parser) parseCommand(cmd token.Token, outerGreediness int) *ast.Node {
	if spec, ok := LookupFunction(cmd.Name()); ok {
		if outerGreediness >= 0 && spec.Greediness <= outerGreediness {
			p.err(diag.SynUnexpectedToken, cmd.Span,
				"\\"+cmd.Name()+" must be grouped to appear as an argument")
			return p.errorNode(cmd.Span, "\\"+cmd.Name()+" must be grouped here")
		}
		if p.mode == ast.TextMode && !spec.AllowedInText {
			p.err(diag.SynMathOnly, cmd.Span, "\\"+cmd.Name()+" is math-only")
			return p.errorNode(cmd.Span, "\\"+cmd.Name()+" is math-only")
		}
		return p.applyCommand(cmd, spec)
	}

	if entry, ok := symbols.Get().Lookup(p.mode, cmd.Text); ok {
		return &ast.Node{
			Kind:  ast.KindAtom,
			Mode:  p.mode,
			Text:  cmd.Text,
			Class: entry.Class,
			Loc:   source.At(cmd.Span),
		}
	}

	p.err(diag.SynUnknownCommand, cmd.Span, "unknown command "+cmd.Text)
	return p.errorNode(cmd.Span, "unknown command "+cmd.Text)
}

// applyCommand consumes the command's arguments and invokes its handler.
// The produced node's location is the union of the introducing token's span
// (widened over whitespace skipped while fetching arguments) and every
// argument's location.
func (p *Parser) applyCommand(cmd token.Token, spec Spec) *ast.Node {
	call := Call{Cmd: cmd, Intro: cmd.Span}

	argIndex := 0
	if spec.ColorFirstArg {
		color, ok := p.parseColorArgument(&call.Intro)
		if !ok {
			return p.errorNode(call.Intro, "bad color argument for \\"+cmd.Name())
		}
		call.Color = color
		call.Args = append(call.Args, nil) // позиция цвета, узла нет
		argIndex = 1
	}

	for ; argIndex < spec.NumArgs; argIndex++ {
		mode := p.mode
		if spec.ArgModes != nil && spec.ArgModes[argIndex] == ast.TextMode {
			mode = ast.TextMode
		}
		arg := p.parseArgument(mode, spec.Greediness, &call.Intro)
		if arg == nil {
			sp := call.Intro
			p.err(diag.SynUnexpectedEOF, sp, "missing argument for \\"+cmd.Name())
			return p.errorNode(sp, "missing argument for \\"+cmd.Name())
		}
		call.Args = append(call.Args, arg)
	}

	node := spec.Handle(p, call)
	if node == nil {
		return nil
	}
	if !node.Loc.OK {
		loc := source.At(call.Intro)
		for _, arg := range call.Args {
			if arg != nil && arg.Loc.OK {
				loc = loc.Cover(arg.Loc)
			}
		}
		node.Loc = loc
	}
	return node
}

// parseArgument fetches one required argument in the given mode: a braced
// group, a single symbol, or a brace-less command when its greediness beats
// the outer command's. Whitespace skipped on the way widens *intro.
func (p *Parser) parseArgument(mode ast.Mode, outerGreediness int, intro *source.Span) *ast.Node {
	if sp, ok := p.skipSpaces(); ok {
		*intro = intro.Cover(sp)
	}

	tok := p.peek()
	switch tok.Kind {
	case token.EOF:
		return nil
	case token.LBrace:
		return p.parseGroup(mode)
	case token.ControlWord, token.ControlSymbol:
		return p.withMode(mode, func() *ast.Node {
			return p.parseCommand(p.advance(), outerGreediness)
		})
	case token.RBrace:
		return nil
	case token.Invalid:
		p.advance()
		return p.errorNode(tok.Span, "malformed input")
	default:
		return p.withMode(mode, func() *ast.Node {
			return p.parseSymbol(p.advance())
		})
	}
}

// parseColorArgument reads a raw braced color like {red} or {#a0a0a0}.
func (p *Parser) parseColorArgument(intro *source.Span) (string, bool) {
	if sp, ok := p.skipSpaces(); ok {
		*intro = intro.Cover(sp)
	}
	open := p.peek()
	if open.Kind != token.LBrace {
		p.err(diag.SynBadColor, open.Span, "expected '{' before color")
		return "", false
	}
	p.advance()
	*intro = intro.Cover(open.Span)

	color := ""
	for {
		tok := p.advance()
		switch tok.Kind {
		case token.RBrace:
			*intro = intro.Cover(tok.Span)
			if color == "" {
				p.err(diag.SynBadColor, tok.Span, "empty color")
				return "", false
			}
			return color, true
		case token.EOF, token.Invalid:
			p.err(diag.SynUnclosedGroup, open.Span.Cover(p.lastSpan), "unterminated color group")
			return "", false
		default:
			color += tok.Text
			*intro = intro.Cover(tok.Span)
		}
	}
}

// parseGroup consumes a braced group. The группа's location spans both
// braces. On missing '}' the error marker's location starts at the opening
// brace.
func (p *Parser) parseGroup(mode ast.Mode) *ast.Node {
	open := p.advance() // '{'

	var body []*ast.Node
	p.withModeVoid(mode, func() {
		body = p.parseExpression(nil)
	})

	if p.at(token.RBrace) {
		closing := p.advance()
		return &ast.Node{
			Kind: ast.KindOrdGroup,
			Mode: mode,
			Body: body,
			Loc:  source.At(open.Span.Cover(closing.Span)),
		}
	}

	sp := open.Span.Cover(p.lastSpan)
	p.err(diag.SynUnclosedGroup, sp, "unterminated group")
	return p.errorNode(sp, "unterminated group")
}

// parseInlineMath parses `$...$` inside text mode.
func (p *Parser) parseInlineMath() *ast.Node {
	open := p.advance() // '$'

	var body []*ast.Node
	p.withModeVoid(ast.MathMode, func() {
		body = p.parseExpression(func(tok token.Token) bool {
			return tok.Kind == token.MathShift
		})
	})

	if p.at(token.MathShift) {
		closing := p.advance()
		return &ast.Node{
			Kind: ast.KindOrdGroup,
			Mode: ast.MathMode,
			Body: body,
			Loc:  source.At(open.Span.Cover(closing.Span)),
		}
	}

	sp := open.Span.Cover(p.lastSpan)
	p.err(diag.SynUnexpectedEOF, sp, "unterminated math shift")
	return p.errorNode(sp, "unterminated math shift")
}

func (p *Parser) withMode(mode ast.Mode, fn func() *ast.Node) *ast.Node {
	saved := p.mode
	p.mode = mode
	defer func() { p.mode = saved }()
	return fn()
}

func (p *Parser) withModeVoid(mode ast.Mode, fn func()) {
	saved := p.mode
	p.mode = mode
	defer func() { p.mode = saved }()
	fn()
}

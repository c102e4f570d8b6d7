package parser

import (
	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/source"
	"texmath/internal/token"
)

// parseScripts greedily consumes any '^', '_' or prime markers immediately
// following an atom and attaches them to it. The composition node's location
// is the union of the base, the markers, and the script arguments.
func (p *Parser) parseScripts(base *ast.Node) *ast.Node {
	if p.mode != ast.MathMode {
		return base
	}

	var node *ast.Node // lazily created SupSub over base

	ensure := func(markerSpan source.Span) *ast.Node {
		if node == nil {
			node = &ast.Node{
				Kind: ast.KindSupSub,
				Mode: ast.MathMode,
				Base: base,
				Loc:  base.Loc.Cover(source.At(markerSpan)).Or(source.At(markerSpan)),
			}
		} else {
			node.Loc = node.Loc.Cover(source.At(markerSpan))
		}
		return node
	}

	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Superscript:
			p.advance()
			sup := ensure(tok.Span)
			if sup.Sup != nil {
				p.err(diag.SynDoubleScript, tok.Span, "double superscript")
			}
			arg := p.parseScriptArgument(tok, "superscript")
			sup.Sup = arg
			if arg.Loc.OK {
				sup.Loc = sup.Loc.Cover(arg.Loc).Or(arg.Loc)
			}

		case token.Subscript:
			p.advance()
			sub := ensure(tok.Span)
			if sub.Sub != nil {
				p.err(diag.SynDoubleScript, tok.Span, "double subscript")
			}
			arg := p.parseScriptArgument(tok, "subscript")
			sub.Sub = arg
			if arg.Loc.OK {
				sub.Loc = sub.Loc.Cover(arg.Loc).Or(arg.Loc)
			}

		case token.Prime:
			p.advance()
			n := ensure(tok.Span)
			prime := &ast.Node{
				Kind:  ast.KindAtom,
				Mode:  ast.MathMode,
				Text:  "\\prime",
				Class: ast.ClassOrd,
				Loc:   source.At(tok.Span),
			}
			// повторные примы копятся в группу
			switch {
			case n.Sup == nil:
				n.Sup = prime
			case n.Sup.Kind == ast.KindOrdGroup:
				n.Sup.Body = append(n.Sup.Body, prime)
				n.Sup.Loc = n.Sup.Loc.Cover(prime.Loc)
			default:
				n.Sup = &ast.Node{
					Kind: ast.KindOrdGroup,
					Mode: ast.MathMode,
					Body: []*ast.Node{n.Sup, prime},
					Loc:  n.Sup.Loc.Cover(prime.Loc),
				}
			}

		default:
			if node != nil {
				return node
			}
			return base
		}
	}
}

// parseScriptArgument fetches the single argument of a script marker.
func (p *Parser) parseScriptArgument(marker token.Token, what string) *ast.Node {
	intro := marker.Span
	arg := p.parseArgument(ast.MathMode, 1, &intro)
	if arg == nil {
		sp := intro.Cover(p.lastSpan)
		p.err(diag.SynUnexpectedEOF, sp, "missing "+what+" argument")
		return p.errorNode(sp, "missing "+what+" argument")
	}
	return arg
}

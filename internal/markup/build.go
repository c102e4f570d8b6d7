package markup

import (
	"fmt"
	"strings"
	"sync"

	"texmath/internal/annotate"
	"texmath/internal/ast"
	"texmath/internal/source"
	"texmath/internal/style"
	"texmath/internal/symbols"
)

// buildFn converts one syntax node under a Context into a markup node.
type buildFn func(b *Builder, n *ast.Node, ctx style.Context) *Node

// builders is the closed dispatch table; a kind without an entry is a
// programming error and panics in Build. Заполняется лениво: часть
// строителей рекурсивно зовёт build через buildList.
var (
	buildersOnce sync.Once
	builders     map[ast.Kind]buildFn
)

func dispatch(k ast.Kind) (buildFn, bool) {
	buildersOnce.Do(func() {
		builders = map[ast.Kind]buildFn{
			ast.KindIdentifier: buildIdentifier,
			ast.KindNumber:     buildNumber,
			ast.KindAtom:       buildAtom,
			ast.KindOp:         buildOp,
			ast.KindOrdGroup:   buildOrdGroup,
			ast.KindFont:       buildFont,
			ast.KindText:       buildText,
			ast.KindAccent:     buildAccent,
			ast.KindSupSub:     buildSupSub,
			ast.KindClass:      buildClass,
			ast.KindColor:      buildColor,
			ast.KindSpace:      buildSpace,
			ast.KindError:      buildError,
		}
	})
	fn, ok := builders[k]
	return fn, ok
}

// Builder is one semantic build pass. It owns the index counter; the output
// tree belongs solely to the caller.
type Builder struct {
	ann *annotate.Annotator
}

// Build converts a parsed expression into a markup tree under the initial
// Context. A single-node expression is returned bare; longer ones get an
// mrow container.
func Build(nodes []*ast.Node, ctx style.Context) *Node {
	b := &Builder{ann: annotate.New()}
	out := b.buildList(nodes, ctx)
	if len(out) == 1 {
		return out[0]
	}
	row := NewNode("mrow", out...)
	b.ann.Number(row)
	return row
}

func (b *Builder) buildList(nodes []*ast.Node, ctx style.Context) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, b.build(n, ctx))
	}
	return out
}

func (b *Builder) build(n *ast.Node, ctx style.Context) *Node {
	fn, ok := dispatch(n.Kind)
	if !ok {
		panic(fmt.Sprintf("markup: no builder registered for node kind %s", n.Kind))
	}
	return fn(b, n, ctx)
}

// leaf finalizes a simple leaf: content span, font commands, index.
func (b *Builder) leaf(n *ast.Node, ctx style.Context, tag, text string) *Node {
	out := NewLeaf(tag, text)
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

func buildIdentifier(b *Builder, n *ast.Node, ctx style.Context) *Node {
	return b.leaf(n, ctx, "mi", n.Text)
}

func buildNumber(b *Builder, n *ast.Node, ctx style.Context) *Node {
	return b.leaf(n, ctx, "mn", n.Text)
}

func buildAtom(b *Builder, n *ast.Node, ctx style.Context) *Node {
	return b.leaf(n, ctx, "mo", replacementText(n))
}

func buildOp(b *Builder, n *ast.Node, ctx style.Context) *Node {
	out := b.leaf(n, ctx, "mo", n.Text)
	annotate.MarkOperator(out)
	return out
}

// buildOrdGroup flattens a group: a single child is returned directly with
// its content span widened to cover the braces; longer bodies become an
// mrow carrying the group's own span.
func buildOrdGroup(b *Builder, n *ast.Node, ctx style.Context) *Node {
	children := b.buildList(n.Body, ctx)
	if len(children) == 1 {
		annotate.WidenContent(children[0], n.Loc)
		return children[0]
	}
	row := NewNode("mrow", children...)
	annotate.Content(row, n.Loc)
	annotate.Fonts(row, ctx)
	b.ann.Number(row)
	return row
}

// buildFont contributes Context only: the wrapped body's structure passes
// through unchanged, gaining a style span.
func buildFont(b *Builder, n *ast.Node, ctx style.Context) *Node {
	out := b.build(n.Arg, ctx.WithFont(n.Command))
	annotate.StyleWrap(out, n.Loc)
	return out
}

func buildText(b *Builder, n *ast.Node, ctx style.Context) *Node {
	textCtx := deriveTextContext(ctx, n.Command)

	// Соседние простые листья сливаются в один mtext; спаны каждого
	// логического символа разрешаются до слияния.
	var out []*Node
	var run strings.Builder
	runLoc := source.NoLoc
	flush := func() {
		if run.Len() == 0 {
			return
		}
		leaf := NewLeaf("mtext", run.String())
		annotate.Content(leaf, runLoc)
		annotate.Fonts(leaf, textCtx)
		b.ann.Number(leaf)
		out = append(out, leaf)
		run.Reset()
		runLoc = source.NoLoc
	}

	for _, child := range n.Body {
		switch child.Kind {
		case ast.KindIdentifier, ast.KindNumber, ast.KindSpace:
			run.WriteString(child.Text)
			runLoc = mergeRun(runLoc, child.Loc)
		case ast.KindAtom:
			run.WriteString(replacementText(child))
			runLoc = mergeRun(runLoc, child.Loc)
		default:
			flush()
			out = append(out, b.build(child, textCtx))
		}
	}
	flush()

	var result *Node
	if len(out) == 1 {
		result = out[0]
	} else {
		result = NewNode("mrow", out...)
		annotate.Content(result, n.Loc)
		b.ann.Number(result)
	}
	annotate.StyleWrap(result, n.Loc)
	return result
}

// buildAccent emits an mover composition: the accented body (built cramped)
// plus an accent-mark leaf whose span covers the introducing command up to
// the body.
func buildAccent(b *Builder, n *ast.Node, ctx style.Context) *Node {
	body := b.build(n.Arg, ctx.WithCramped())

	mark := NewLeaf("mo", accentGlyph(n.Command))
	annotate.Content(mark, introducerLoc(n))
	annotate.Fonts(mark, ctx)
	b.ann.Number(mark)

	out := NewNode("mover", body, mark)
	out.SetAttr("accent", "true")
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

func buildSupSub(b *Builder, n *ast.Node, ctx style.Context) *Node {
	base := b.build(n.Base, ctx)

	var tag string
	children := []*Node{base}
	switch {
	case n.Sub != nil && n.Sup != nil:
		tag = "msubsup"
		children = append(children,
			b.build(n.Sub, ctx.WithStyle(ctx.Style.Sub()).WithCramped()),
			b.build(n.Sup, ctx.WithStyle(ctx.Style.Sup())))
	case n.Sub != nil:
		tag = "msub"
		children = append(children, b.build(n.Sub, ctx.WithStyle(ctx.Style.Sub()).WithCramped()))
	default:
		tag = "msup"
		children = append(children, b.build(n.Sup, ctx.WithStyle(ctx.Style.Sup())))
	}

	out := NewNode(tag, children...)
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

// buildClass re-tags spacing only; markup structure passes through.
func buildClass(b *Builder, n *ast.Node, ctx style.Context) *Node {
	out := b.build(n.Arg, ctx)
	out.SetAttr("class", n.OutermostClass().String())
	annotate.StyleWrap(out, n.Loc)
	return out
}

func buildColor(b *Builder, n *ast.Node, ctx style.Context) *Node {
	colorCtx := ctx.WithColor(n.Text)
	children := b.buildList(n.Body, colorCtx)

	out := NewNode("mstyle", children...)
	out.SetAttr("mathcolor", n.Text)
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, colorCtx)
	b.ann.Number(out)
	annotate.StyleWrap(out, n.Loc)
	return out
}

func buildSpace(b *Builder, n *ast.Node, ctx style.Context) *Node {
	return b.leaf(n, ctx, "mtext", " ")
}

// buildError is the visually distinct marker leaf for recovered failures.
func buildError(b *Builder, n *ast.Node, ctx style.Context) *Node {
	out := NewLeaf("merror", n.Text)
	out.SetAttr("mathcolor", style.ErrorColor)
	annotate.Content(out, n.Loc)
	b.ann.Number(out)
	return out
}

// replacementText resolves an atom's display character through the symbol
// table, falling back to the source text.
func replacementText(n *ast.Node) string {
	if entry, ok := symbols.Get().Lookup(n.Mode, n.Text); ok && entry.Replace != 0 {
		return string(entry.Replace)
	}
	return strings.TrimPrefix(n.Text, "\\")
}

func accentGlyph(command string) string {
	name := command
	switch command {
	case "overline":
		name = "overlinesegment"
	case "dot":
		name = "dotaccent"
	}
	if r, ok := symbols.GlyphCode(name); ok {
		return string(r)
	}
	return "¯"
}

// introducerLoc is the command's own part of a wrapper's span: from the
// wrapper start up to the argument, covering whitespace skipped while the
// argument was fetched.
func introducerLoc(n *ast.Node) source.Loc {
	if !n.Loc.OK {
		return source.NoLoc
	}
	if n.Arg != nil && n.Arg.Loc.OK &&
		n.Arg.Loc.Span.File == n.Loc.Span.File &&
		n.Arg.Loc.Span.Start > n.Loc.Span.Start &&
		n.Arg.Loc.Span.Start <= n.Loc.Span.End {
		return source.At(source.Span{
			File:  n.Loc.Span.File,
			Start: n.Loc.Span.Start,
			End:   n.Arg.Loc.Span.Start,
		})
	}
	return n.Loc
}

func mergeRun(acc, loc source.Loc) source.Loc {
	if !acc.OK {
		return loc
	}
	return acc.Cover(loc)
}

func deriveTextContext(ctx style.Context, command string) style.Context {
	switch command {
	case "textrm", "textnormal":
		return ctx.WithTextFamily(command)
	case "textsf", "texttt":
		return ctx.WithTextFamily(command)
	case "textbf":
		return ctx.WithTextWeight(command)
	case "textit":
		return ctx.WithTextShape(command)
	default: // \text
		return ctx
	}
}

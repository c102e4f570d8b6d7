package layout

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"texmath/internal/annotate"
	"texmath/internal/ast"
	"texmath/internal/source"
	"texmath/internal/style"
	"texmath/internal/symbols"
)

// Script shifts in ems at text size.
const (
	supShift = 0.45
	subShift = 0.25
)

type buildFn func(b *Builder, n *ast.Node, ctx style.Context) *Box

// Таблица заполняется лениво: часть строителей рекурсивно зовёт build
// через buildList.
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

// Builder is one layout pass; the produced box tree is owned by the caller.
type Builder struct {
	ann     *annotate.Annotator
	metrics *symbols.Metrics
}

// Build converts a parsed expression into a box tree under the initial
// Context, with inter-atom glue inserted between neighbors.
func Build(nodes []*ast.Node, ctx style.Context) *Box {
	b := &Builder{ann: annotate.New(), metrics: symbols.GetMetrics()}
	boxes := b.buildList(nodes, ctx)
	if len(boxes) == 1 {
		return boxes[0]
	}
	out := newHBox(withSpacing(boxes, ctx))
	b.ann.Number(out)
	return out
}

func (b *Builder) buildList(nodes []*ast.Node, ctx style.Context) []*Box {
	out := make([]*Box, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, b.build(n, ctx))
	}
	return out
}

func (b *Builder) build(n *ast.Node, ctx style.Context) *Box {
	fn, ok := dispatch(n.Kind)
	if !ok {
		panic(fmt.Sprintf("layout: no builder registered for node kind %s", n.Kind))
	}
	return fn(b, n, ctx)
}

// glyphBox typesets one character under the Context's font and size.
func (b *Builder) glyphBox(n *ast.Node, ctx style.Context, text string, class ast.AtomClass) *Box {
	font := ctx.Font
	if font == "" {
		font = "main"
	}
	r, _ := utf8.DecodeRuneInString(text)
	met := b.metrics.Lookup(font, r)

	out := &Box{
		Kind:   Glyph,
		Class:  class,
		Text:   text,
		Width:  (met.Width + met.Italic) * ctx.Size,
		Height: met.Height * ctx.Size,
		Depth:  met.Depth * ctx.Size,
	}
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

func buildIdentifier(b *Builder, n *ast.Node, ctx style.Context) *Box {
	// одиночные буквы набираются математическим курсивом
	glyphCtx := ctx
	if glyphCtx.Font == "" {
		glyphCtx = glyphCtx.WithFont("mathit")
	}
	out := b.glyphBox(n, glyphCtx, n.Text, ast.ClassOrd)
	return out
}

func buildNumber(b *Builder, n *ast.Node, ctx style.Context) *Box {
	// числа шире одного глифа складываются в ряд, метрика посимвольно
	if utf8.RuneCountInString(n.Text) == 1 {
		return b.glyphBox(n, ctx, n.Text, ast.ClassOrd)
	}
	font := ctx.Font
	if font == "" {
		font = "main"
	}
	out := &Box{Kind: TextRun, Class: ast.ClassOrd, Text: n.Text}
	for _, r := range n.Text {
		met := b.metrics.Lookup(font, r)
		out.Width += met.Width * ctx.Size
		if h := met.Height * ctx.Size; h > out.Height {
			out.Height = h
		}
		if d := met.Depth * ctx.Size; d > out.Depth {
			out.Depth = d
		}
	}
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

func buildAtom(b *Builder, n *ast.Node, ctx style.Context) *Box {
	return b.glyphBox(n, ctx, replacementText(n), n.Class)
}

func buildOp(b *Builder, n *ast.Node, ctx style.Context) *Box {
	// именованные функции набираются прямым шрифтом как один ран
	out := &Box{Kind: TextRun, Class: ast.ClassOp, Text: n.Text}
	for _, r := range n.Text {
		met := b.metrics.Lookup("main", r)
		out.Width += met.Width * ctx.Size
		if h := met.Height * ctx.Size; h > out.Height {
			out.Height = h
		}
		if d := met.Depth * ctx.Size; d > out.Depth {
			out.Depth = d
		}
	}
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	annotate.MarkOperator(out)
	b.ann.Number(out)
	return out
}

func buildOrdGroup(b *Builder, n *ast.Node, ctx style.Context) *Box {
	children := b.buildList(n.Body, ctx)
	if len(children) == 1 {
		annotate.WidenContent(children[0], n.Loc)
		return children[0]
	}
	out := newHBox(withSpacing(children, ctx))
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

// buildFont contributes Context only: no extra boxes.
func buildFont(b *Builder, n *ast.Node, ctx style.Context) *Box {
	out := b.build(n.Arg, ctx.WithFont(n.Command))
	annotate.StyleWrap(out, n.Loc)
	return out
}

// buildText lays out an inline text run. Adjacent character leaves coalesce
// into one TextRun; each logical character's span is resolved first, so the
// run's content span is their union even though per-glyph boundaries are
// discarded for geometry.
func buildText(b *Builder, n *ast.Node, ctx style.Context) *Box {
	textCtx := deriveTextContext(ctx, n.Command)

	var parts []*Box
	run := &Box{Kind: TextRun, Class: ast.ClassOrd}
	var runText strings.Builder
	runLoc := source.NoLoc

	flush := func() {
		if runText.Len() == 0 {
			return
		}
		run.Text = runText.String()
		annotate.Content(run, runLoc)
		annotate.Fonts(run, textCtx)
		b.ann.Number(run)
		parts = append(parts, run)
		run = &Box{Kind: TextRun, Class: ast.ClassOrd}
		runText.Reset()
		runLoc = source.NoLoc
	}

	addChar := func(child *ast.Node, text string) {
		for _, r := range text {
			met := b.metrics.Lookup("main", r)
			run.Width += met.Width * textCtx.Size
			if h := met.Height * textCtx.Size; h > run.Height {
				run.Height = h
			}
			if d := met.Depth * textCtx.Size; d > run.Depth {
				run.Depth = d
			}
		}
		runText.WriteString(text)
		if !runLoc.OK {
			runLoc = child.Loc
		} else {
			runLoc = runLoc.Cover(child.Loc)
		}
	}

	for _, child := range n.Body {
		switch child.Kind {
		case ast.KindIdentifier, ast.KindNumber, ast.KindSpace:
			addChar(child, child.Text)
		case ast.KindAtom:
			addChar(child, replacementText(child))
		default:
			flush()
			parts = append(parts, b.build(child, textCtx))
		}
	}
	flush()

	var out *Box
	if len(parts) == 1 {
		out = parts[0]
	} else {
		out = newHBox(parts)
		annotate.Content(out, n.Loc)
		b.ann.Number(out)
	}
	annotate.StyleWrap(out, n.Loc)
	return out
}

// buildAccent stacks body, kern, rule, kern into a vertical list per the
// classic over-line recipe: the accented body is set cramped, the rule sits
// 3θ above it with θ clearance on top, θ being the rule thickness.
func buildAccent(b *Builder, n *ast.Node, ctx style.Context) *Box {
	body := b.build(n.Arg, ctx.WithCramped())

	theta := symbols.DefaultRuleThickness * ctx.Size
	rule := newRule(body.Width, theta)

	out := newVBox([]*Box{
		body,
		newVKern(3 * theta),
		rule,
		newVKern(theta),
	})
	out.Class = ast.ClassOrd
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

func buildSupSub(b *Builder, n *ast.Node, ctx style.Context) *Box {
	base := b.build(n.Base, ctx)
	parts := []*Box{base}

	if n.Sub != nil {
		sub := b.build(n.Sub, ctx.WithStyle(ctx.Style.Sub()).WithCramped())
		sub.Depth += subShift * ctx.Size
		parts = append(parts, sub)
	}
	if n.Sup != nil {
		sup := b.build(n.Sup, ctx.WithStyle(ctx.Style.Sup()))
		sup.Height += supShift * ctx.Size
		parts = append(parts, sup)
	}

	out := newHBox(parts)
	out.Class = base.Class
	annotate.Content(out, n.Loc)
	annotate.Fonts(out, ctx)
	b.ann.Number(out)
	return out
}

// buildClass re-tags the produced box so spacing rules treat it as an
// un-wrapped atom of the body's (or the forced) class.
func buildClass(b *Builder, n *ast.Node, ctx style.Context) *Box {
	out := b.build(n.Arg, ctx)
	out.Class = n.OutermostClass()
	annotate.StyleWrap(out, n.Loc)
	return out
}

func buildColor(b *Builder, n *ast.Node, ctx style.Context) *Box {
	colorCtx := ctx.WithColor(n.Text)
	children := b.buildList(n.Body, colorCtx)

	var out *Box
	if len(children) == 1 {
		out = children[0]
	} else {
		out = newHBox(withSpacing(children, colorCtx))
		annotate.Content(out, n.Loc)
		b.ann.Number(out)
	}
	out.SetAttr(annotate.AttrColor, n.Text)
	annotate.StyleWrap(out, n.Loc)
	return out
}

func buildSpace(b *Builder, n *ast.Node, ctx style.Context) *Box {
	out := newHKern(b.metrics.Lookup("main", ' ').Width * ctx.Size)
	annotate.Content(out, n.Loc)
	return out
}

// buildError renders the recovery marker as a visually distinct run.
func buildError(b *Builder, n *ast.Node, ctx style.Context) *Box {
	out := &Box{Kind: TextRun, Class: ast.ClassOrd, Text: n.Text}
	for _, r := range n.Text {
		met := b.metrics.Lookup("main", r)
		out.Width += met.Width * ctx.Size
		if h := met.Height * ctx.Size; h > out.Height {
			out.Height = h
		}
	}
	out.SetAttr(annotate.AttrColor, style.ErrorColor)
	annotate.Content(out, n.Loc)
	b.ann.Number(out)
	return out
}

func replacementText(n *ast.Node) string {
	if entry, ok := symbols.Get().Lookup(n.Mode, n.Text); ok && entry.Replace != 0 {
		return string(entry.Replace)
	}
	return strings.TrimPrefix(n.Text, "\\")
}

func deriveTextContext(ctx style.Context, command string) style.Context {
	switch command {
	case "textrm", "textnormal", "textsf", "texttt":
		return ctx.WithTextFamily(command)
	case "textbf":
		return ctx.WithTextWeight(command)
	case "textit":
		return ctx.WithTextShape(command)
	default:
		return ctx
	}
}

package layout

import (
	"texmath/internal/ast"
)

// Box is one geometry output node. Dimensions are in ems at text size;
// Class drives inter-atom spacing when the box sits in a horizontal list.
type Box struct {
	Kind     BoxKind
	Class    ast.AtomClass
	Children []*Box

	Width  float64
	Height float64 // extent above the baseline
	Depth  float64 // extent below the baseline

	// Text is the content of Glyph and TextRun boxes.
	Text string

	Attrs map[string]string
}

// SetAttr implements annotate.Target.
func (b *Box) SetAttr(name, value string) {
	if b.Attrs == nil {
		b.Attrs = make(map[string]string, 8)
	}
	b.Attrs[name] = value
}

// Attr implements annotate.Target.
func (b *Box) Attr(name string) (string, bool) {
	v, ok := b.Attrs[name]
	return v, ok
}

// Walk visits the box and its descendants depth-first.
func (b *Box) Walk(visit func(*Box)) {
	visit(b)
	for _, child := range b.Children {
		child.Walk(visit)
	}
}

// newHBox composes children horizontally: widths add, height and depth are
// the maxima over the baseline-aligned children.
func newHBox(children []*Box) *Box {
	out := &Box{Kind: HBox, Children: children}
	for _, child := range children {
		out.Width += child.Width
		if child.Kind == Kern {
			continue
		}
		if child.Height > out.Height {
			out.Height = child.Height
		}
		if child.Depth > out.Depth {
			out.Depth = child.Depth
		}
	}
	return out
}

// newVBox stacks children bottom-up over the bottom child's baseline: the
// composite keeps that child's depth, and everything above adds height.
func newVBox(children []*Box) *Box {
	out := &Box{Kind: VBox, Children: children}
	for i, child := range children {
		if child.Width > out.Width {
			out.Width = child.Width
		}
		if i == 0 {
			out.Height = child.Height
			out.Depth = child.Depth
			continue
		}
		switch child.Kind {
		case Kern:
			out.Height += child.Height
		default:
			out.Height += child.Height + child.Depth
		}
	}
	return out
}

func newHKern(width float64) *Box {
	return &Box{Kind: Kern, Width: width}
}

func newVKern(height float64) *Box {
	return &Box{Kind: Kern, Height: height}
}

func newRule(width, thickness float64) *Box {
	return &Box{Kind: Rule, Width: width, Height: thickness}
}

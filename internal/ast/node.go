package ast

import (
	"texmath/internal/source"
)

// Node is one syntax tree node. The payload fields used depend on Kind;
// unused fields stay zero. Trees are immutable once the parse returns.
//
// Wrapper invariant: when a wrapper node carries a location, it covers its
// introducing token and every argument's location.
type Node struct {
	Kind Kind
	Mode Mode
	Loc  source.Loc

	// Text holds the literal for leaves (Identifier/Number/Atom/Op/Space),
	// the failure message for Error nodes, and the color value for Color.
	Text string

	// Command is the introducing command name (without backslash) for
	// Font/Text/Accent/Class wrappers: "mathcal", "text", "bar".
	Command string

	// Class is set on Atom leaves and explicit Class wrappers.
	Class AtomClass
	// InferClass marks Class wrappers that take their body's outermost
	// class instead of a fixed one (\boldsymbol).
	InferClass bool

	// Arg is the single wrapped argument of Font/Accent/Class wrappers.
	Arg *Node
	// Body is the ordered child list of OrdGroup/Text/Color nodes.
	Body []*Node

	// Base/Sup/Sub are the SupSub composition children. Sup and Sub may be
	// nil independently; Base is never nil.
	Base *Node
	Sup  *Node
	Sub  *Node
}

// NewLeaf builds a leaf node of the given kind.
func NewLeaf(kind Kind, mode Mode, text string, loc source.Loc) *Node {
	return &Node{Kind: kind, Mode: mode, Text: text, Loc: loc}
}

// Children returns the node's direct children in order, whatever the
// variant. Использовать только для обходов; билдеры работают с типизированными
// полями.
func (n *Node) Children() []*Node {
	switch {
	case n.Arg != nil:
		return []*Node{n.Arg}
	case n.Kind == KindSupSub:
		out := make([]*Node, 0, 3)
		if n.Base != nil {
			out = append(out, n.Base)
		}
		if n.Sup != nil {
			out = append(out, n.Sup)
		}
		if n.Sub != nil {
			out = append(out, n.Sub)
		}
		return out
	default:
		return n.Body
	}
}

// OutermostClass reports the atom class of the node as spacing rules see it.
// Wrappers defer to what they wrap.
func (n *Node) OutermostClass() AtomClass {
	switch n.Kind {
	case KindAtom:
		return n.Class
	case KindOp:
		return ClassOp
	case KindClass:
		if n.InferClass && n.Arg != nil {
			return n.Arg.OutermostClass()
		}
		return n.Class
	case KindFont, KindColor:
		if n.Arg != nil {
			return n.Arg.OutermostClass()
		}
		if len(n.Body) == 1 {
			return n.Body[0].OutermostClass()
		}
		return ClassOrd
	case KindOrdGroup:
		if len(n.Body) == 1 {
			return n.Body[0].OutermostClass()
		}
		return ClassOrd
	case KindSupSub:
		if n.Base != nil {
			return n.Base.OutermostClass()
		}
		return ClassOrd
	default:
		return ClassOrd
	}
}

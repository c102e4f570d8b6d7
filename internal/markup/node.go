package markup

// Node is one presentation-markup element. Leaves carry Text; containers
// carry Children. Attrs hold both presentation attributes and the s2:
// provenance attributes.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// NewNode creates an element with the given tag.
func NewNode(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// NewLeaf creates a text-bearing element.
func NewLeaf(tag, text string) *Node {
	return &Node{Tag: tag, Text: text}
}

// SetAttr implements annotate.Target.
func (n *Node) SetAttr(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string, 8)
	}
	n.Attrs[name] = value
}

// Attr implements annotate.Target.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Walk visits the node and its descendants depth-first.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

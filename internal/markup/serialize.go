package markup

import (
	"sort"
	"strings"
)

// Serialize renders the tree as markup text. Attributes are emitted in
// sorted order so output is deterministic and diffable.
func Serialize(n *Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escape(n.Attrs[k]))
		sb.WriteByte('"')
	}

	if len(n.Children) == 0 && n.Text == "" {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	if n.Text != "" {
		sb.WriteString(escape(n.Text))
	}
	for _, child := range n.Children {
		writeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}

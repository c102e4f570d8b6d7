package layout

import (
	"fmt"
	"sort"
	"strings"
)

// Serialize renders the box tree as markup with positioning attributes.
// Deterministic: dimensions first, then remaining attributes sorted.
func Serialize(b *Box) string {
	var sb strings.Builder
	writeBox(&sb, b)
	return sb.String()
}

func writeBox(sb *strings.Builder, b *Box) {
	sb.WriteByte('<')
	sb.WriteString(b.Kind.String())
	fmt.Fprintf(sb, ` class="%s" width="%s" height="%s" depth="%s"`,
		b.Class, formatEm(b.Width), formatEm(b.Height), formatEm(b.Depth))

	keys := make([]string, 0, len(b.Attrs))
	for k := range b.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, ` %s="%s"`, k, escape(b.Attrs[k]))
	}

	if len(b.Children) == 0 && b.Text == "" {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	if b.Text != "" {
		sb.WriteString(escape(b.Text))
	}
	for _, child := range b.Children {
		writeBox(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(b.Kind.String())
	sb.WriteByte('>')
}

// formatEm prints an em dimension with stable precision.
func formatEm(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
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

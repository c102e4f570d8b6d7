package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"texmath/internal/ast"
	"texmath/internal/source"
)

// ASTNodeOutput is the JSON shape of one syntax tree node.
type ASTNodeOutput struct {
	Kind     string           `json:"kind"`
	Mode     string           `json:"mode"`
	Text     string           `json:"text,omitempty"`
	Command  string           `json:"command,omitempty"`
	Class    string           `json:"class,omitempty"`
	Span     *source.Span     `json:"span,omitempty"`
	Children []*ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty печатает дерево с отступами, по узлу на строку:
// Kind "text" [start-end]
func FormatASTPretty(w io.Writer, nodes []*ast.Node, fs *source.FileSet) error {
	for _, n := range nodes {
		if err := writeASTNode(w, n, fs, 0); err != nil {
			return err
		}
	}
	return nil
}

func writeASTNode(w io.Writer, n *ast.Node, fs *source.FileSet, depth int) error {
	indent := strings.Repeat("  ", depth)
	line := indent + n.Kind.String()
	if n.Command != "" {
		line += " \\" + n.Command
	}
	if n.Text != "" {
		line += fmt.Sprintf(" %q", n.Text)
	}
	if n.Kind == ast.KindAtom || n.Kind == ast.KindClass {
		line += " <" + n.Class.String() + ">"
	}
	if n.Loc.OK {
		start, end := fs.Resolve(n.Loc.Span)
		line += fmt.Sprintf(" [%d:%d-%d:%d]", start.Line, start.Col, end.Line, end.Col)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range n.Children() {
		if err := writeASTNode(w, child, fs, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// BuildASTJSON converts a parsed node list into the JSON output shape.
func BuildASTJSON(nodes []*ast.Node) []*ASTNodeOutput {
	out := make([]*ASTNodeOutput, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, buildASTNode(n))
	}
	return out
}

func buildASTNode(n *ast.Node) *ASTNodeOutput {
	o := &ASTNodeOutput{
		Kind:    n.Kind.String(),
		Mode:    n.Mode.String(),
		Text:    n.Text,
		Command: n.Command,
	}
	if n.Kind == ast.KindAtom || n.Kind == ast.KindClass {
		o.Class = n.Class.String()
	}
	if n.Loc.OK {
		span := n.Loc.Span
		o.Span = &span
	}
	for _, child := range n.Children() {
		o.Children = append(o.Children, buildASTNode(child))
	}
	return o
}

// FormatASTJSON выводит дерево разбора в JSON формате
func FormatASTJSON(w io.Writer, nodes []*ast.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildASTJSON(nodes))
}

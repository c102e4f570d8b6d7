package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"texmath/internal/ast"
	"texmath/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) every carried span is non-empty ordered and within file content bounds
// 2) every span points at the parsed file
// 3) a parent's span covers the union of its children's spans
func CheckSpanInvariants(nodes []*ast.Node, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	for _, n := range nodes {
		if err := checkNode(n, sf, lenContent); err != nil {
			return err
		}
	}
	return nil
}

func checkNode(n *ast.Node, sf *source.File, lenContent uint32) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if n.Loc.OK {
		sp := n.Loc.Span
		if sp.End < sp.Start {
			return fmt.Errorf("%s: inverted span %v", n.Kind, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s: span file mismatch: got=%d want=%d", n.Kind, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("%s: span end beyond content: %d > %d", n.Kind, sp.End, lenContent)
		}
	}

	union := source.NoLoc
	for _, child := range n.Children() {
		if err := checkNode(child, sf, lenContent); err != nil {
			return err
		}
		if !child.Loc.OK {
			// Синтезированные узлы без локации (примы) не участвуют в объединении.
			continue
		}
		if union.OK {
			union = union.Cover(child.Loc)
		} else {
			union = child.Loc
		}
	}

	// 3) parent covers union of children
	if n.Loc.OK && union.OK {
		if union.Span.Start < n.Loc.Span.Start || union.Span.End > n.Loc.Span.End {
			return fmt.Errorf("%s: span %v does not cover children union %v", n.Kind, n.Loc.Span, union.Span)
		}
	}
	return nil
}

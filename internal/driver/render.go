package driver

import (
	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/layout"
	"texmath/internal/markup"
	"texmath/internal/observ"
	"texmath/internal/source"
	"texmath/internal/style"
)

// RenderResult carries both rendered representations of one source.
type RenderResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Nodes   []*ast.Node
	Markup  *markup.Node
	Layout  *layout.Box
	Bag     *diag.Bag
	Timing  *observ.Report
}

// BuildMarkup is the semantic build entry point: syntax tree + initial
// Context → presentation markup tree.
func BuildMarkup(nodes []*ast.Node, ctx style.Context) *markup.Node {
	return markup.Build(nodes, ctx)
}

// BuildLayout is the geometry build entry point: syntax tree + initial
// Context → box tree.
func BuildLayout(nodes []*ast.Node, ctx style.Context) *layout.Box {
	return layout.Build(nodes, ctx)
}

// Render parses a file and runs both builder passes.
func Render(path string, settings Settings) (*RenderResult, error) {
	timer := observ.NewTimer()
	done := timer.Begin(observ.PhaseParse)
	parsed, err := Parse(path, settings)
	done("")
	if err != nil {
		return nil, err
	}
	return render(parsed, timer), nil
}

// RenderSource renders an in-memory source string.
func RenderSource(name string, src []byte, settings Settings) (*RenderResult, error) {
	timer := observ.NewTimer()
	done := timer.Begin(observ.PhaseParse)
	parsed, err := ParseSource(name, src, settings)
	done("")
	if err != nil {
		return nil, err
	}
	return render(parsed, timer), nil
}

func render(parsed *ParseResult, timer *observ.Timer) *RenderResult {
	ctx := style.Default()

	done := timer.Begin(observ.PhaseMarkup)
	markupTree := BuildMarkup(parsed.Nodes, ctx)
	done("")

	done = timer.Begin(observ.PhaseLayout)
	layoutTree := BuildLayout(parsed.Nodes, ctx)
	done("")

	report := timer.Report()
	return &RenderResult{
		FileSet: parsed.FileSet,
		FileID:  parsed.FileID,
		Nodes:   parsed.Nodes,
		Markup:  markupTree,
		Layout:  layoutTree,
		Bag:     parsed.Bag,
		Timing:  &report,
	}
}

package parser_test

import (
	"testing"

	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/lexer"
	"texmath/internal/macro"
	"texmath/internal/parser"
	"texmath/internal/source"
	"texmath/internal/testkit"
)

// testReporter собирает диагностики от всех фаз разбора
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) hasCode(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (r *testReporter) errorCount() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

// parseString прогоняет вход через лексер, экспандер и парсер
func parseString(t *testing.T, input string) ([]*ast.Node, *testReporter, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tex", []byte(input))
	file := fs.Get(id)

	reporter := &testReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	ex := macro.New(lx, macro.Options{Reporter: reporter})
	res := parser.Parse(ex, parser.Options{Reporter: reporter})

	if err := testkit.CheckSpanInvariants(res.Nodes, file); err != nil {
		t.Fatalf("span invariants violated: %v", err)
	}
	return res.Nodes, reporter, file
}

// expectLoc проверяет байтовый диапазон локации узла
func expectLoc(t *testing.T, n *ast.Node, start, end uint32) {
	t.Helper()
	if !n.Loc.OK {
		t.Fatalf("%v node has no location", n.Kind)
	}
	if n.Loc.Span.Start != start || n.Loc.Span.End != end {
		t.Errorf("%v loc = %d-%d, want %d-%d",
			n.Kind, n.Loc.Span.Start, n.Loc.Span.End, start, end)
	}
}

func TestIdentifier(t *testing.T) {
	nodes, reporter, _ := parseString(t, "x")
	if len(nodes) != 1 || reporter.errorCount() != 0 {
		t.Fatalf("nodes = %v, errors = %v", nodes, reporter.diagnostics)
	}
	n := nodes[0]
	if n.Kind != ast.KindIdentifier || n.Text != "x" {
		t.Fatalf("node = %v %q", n.Kind, n.Text)
	}
	expectLoc(t, n, 0, 1)
}

func TestNumber_Coalesced(t *testing.T) {
	nodes, _, _ := parseString(t, "3.14")
	if len(nodes) != 1 {
		t.Fatalf("nodes = %v", nodes)
	}
	n := nodes[0]
	if n.Kind != ast.KindNumber || n.Text != "3.14" {
		t.Fatalf("node = %v %q", n.Kind, n.Text)
	}
	expectLoc(t, n, 0, 4)
}

func TestSubscript(t *testing.T) {
	nodes, reporter, _ := parseString(t, "x_i")
	if len(nodes) != 1 || reporter.errorCount() != 0 {
		t.Fatalf("nodes = %v, errors = %v", nodes, reporter.diagnostics)
	}
	n := nodes[0]
	if n.Kind != ast.KindSupSub {
		t.Fatalf("kind = %v", n.Kind)
	}
	// композиция покрывает базу, маркер и аргумент
	expectLoc(t, n, 0, 3)
	expectLoc(t, n.Base, 0, 1)
	if n.Sup != nil {
		t.Error("unexpected superscript")
	}
	expectLoc(t, n.Sub, 2, 3)
}

func TestAccent_SpanCoversWhitespace(t *testing.T) {
	nodes, reporter, _ := parseString(t, `\bar x`)
	if len(nodes) != 1 || reporter.errorCount() != 0 {
		t.Fatalf("nodes = %v, errors = %v", nodes, reporter.diagnostics)
	}
	n := nodes[0]
	if n.Kind != ast.KindAccent || n.Command != "bar" {
		t.Fatalf("node = %v %q", n.Kind, n.Command)
	}
	// акцент покрывает команду, пробел и аргумент
	expectLoc(t, n, 0, 6)
	expectLoc(t, n.Arg, 5, 6)
}

func TestFont_WrapsGroup(t *testing.T) {
	nodes, reporter, _ := parseString(t, `\mathcal{x_i}`)
	if len(nodes) != 1 || reporter.errorCount() != 0 {
		t.Fatalf("nodes = %v, errors = %v", nodes, reporter.diagnostics)
	}
	font := nodes[0]
	if font.Kind != ast.KindFont || font.Command != "mathcal" {
		t.Fatalf("node = %v %q", font.Kind, font.Command)
	}
	expectLoc(t, font, 0, 13)

	group := font.Arg
	if group.Kind != ast.KindOrdGroup || len(group.Body) != 1 {
		t.Fatalf("arg = %v", group)
	}
	// группа покрывает обе скобки
	expectLoc(t, group, 8, 13)
	expectLoc(t, group.Body[0], 9, 12)
}

func TestPrime(t *testing.T) {
	nodes, reporter, _ := parseString(t, "x'")
	if len(nodes) != 1 || reporter.errorCount() != 0 {
		t.Fatalf("nodes = %v, errors = %v", nodes, reporter.diagnostics)
	}
	n := nodes[0]
	if n.Kind != ast.KindSupSub {
		t.Fatalf("kind = %v", n.Kind)
	}
	expectLoc(t, n, 0, 2)
	if n.Sup == nil || n.Sup.Kind != ast.KindAtom || n.Sup.Text != "\\prime" {
		t.Fatalf("sup = %v", n.Sup)
	}
	expectLoc(t, n.Sup, 1, 2)
}

func TestDoublePrime_GroupsSups(t *testing.T) {
	nodes, _, _ := parseString(t, "f''")
	n := nodes[0]
	if n.Kind != ast.KindSupSub {
		t.Fatalf("kind = %v", n.Kind)
	}
	expectLoc(t, n, 0, 3)
	sup := n.Sup
	if sup.Kind != ast.KindOrdGroup || len(sup.Body) != 2 {
		t.Fatalf("sup = %v", sup)
	}
	for _, prime := range sup.Body {
		if prime.Text != "\\prime" {
			t.Errorf("prime text = %q", prime.Text)
		}
	}
}

func TestUnterminatedGroup(t *testing.T) {
	nodes, reporter, _ := parseString(t, `\mathcal{x`)
	if !reporter.hasCode(diag.SynUnclosedGroup) {
		t.Fatal("expected SynUnclosedGroup diagnostic")
	}
	if len(nodes) != 1 {
		t.Fatalf("nodes = %v", nodes)
	}
	font := nodes[0]
	if font.Kind != ast.KindFont {
		t.Fatalf("kind = %v", font.Kind)
	}
	// маркер ошибки начинается на открывающей скобке
	if font.Arg.Kind != ast.KindError {
		t.Fatalf("arg kind = %v", font.Arg.Kind)
	}
	expectLoc(t, font.Arg, 8, 10)
}

func TestUnknownCommand(t *testing.T) {
	nodes, reporter, _ := parseString(t, `\foo`)
	if !reporter.hasCode(diag.SynUnknownCommand) {
		t.Fatal("expected SynUnknownCommand diagnostic")
	}
	if len(nodes) != 1 || nodes[0].Kind != ast.KindError {
		t.Fatalf("nodes = %v", nodes)
	}
	expectLoc(t, nodes[0], 0, 4)
}

func TestDoubleSubscript(t *testing.T) {
	_, reporter, _ := parseString(t, "x_i_j")
	if !reporter.hasCode(diag.SynDoubleScript) {
		t.Fatal("expected SynDoubleScript diagnostic")
	}
}

func TestScriptWithoutBase(t *testing.T) {
	nodes, reporter, _ := parseString(t, "_x")
	if !reporter.hasCode(diag.SynUnexpectedToken) {
		t.Fatal("expected SynUnexpectedToken diagnostic")
	}
	if len(nodes) == 0 || nodes[0].Kind != ast.KindError {
		t.Fatalf("nodes = %v", nodes)
	}
}

func TestStrayCloseBrace(t *testing.T) {
	nodes, reporter, _ := parseString(t, "x}")
	if !reporter.hasCode(diag.SynUnexpectedToken) {
		t.Fatal("expected SynUnexpectedToken diagnostic")
	}
	// идентификатор сохранён, за ним маркер ошибки
	if len(nodes) != 2 || nodes[0].Kind != ast.KindIdentifier || nodes[1].Kind != ast.KindError {
		t.Fatalf("nodes = %v", nodes)
	}
}

func TestNamedOperator(t *testing.T) {
	nodes, _, _ := parseString(t, `\sin x`)
	if len(nodes) != 2 {
		t.Fatalf("nodes = %v", nodes)
	}
	if nodes[0].Kind != ast.KindOp || nodes[0].Text != "sin" {
		t.Fatalf("op = %v %q", nodes[0].Kind, nodes[0].Text)
	}
	expectLoc(t, nodes[0], 0, 4)
}

func TestBinaryAtom(t *testing.T) {
	nodes, _, _ := parseString(t, "a+b")
	if len(nodes) != 3 {
		t.Fatalf("nodes = %v", nodes)
	}
	plus := nodes[1]
	if plus.Kind != ast.KindAtom || plus.Class != ast.ClassBin {
		t.Fatalf("plus = %v class %v", plus.Kind, plus.Class)
	}
	expectLoc(t, plus, 1, 2)
}

func TestTextMode_PreservesSpaces(t *testing.T) {
	nodes, _, _ := parseString(t, `\text{a b}`)
	if len(nodes) != 1 || nodes[0].Kind != ast.KindText {
		t.Fatalf("nodes = %v", nodes)
	}
	body := nodes[0].Body
	if len(body) != 3 {
		t.Fatalf("body = %v", body)
	}
	if body[1].Kind != ast.KindSpace {
		t.Errorf("middle = %v, want Space", body[1].Kind)
	}
}

func TestInlineMathInText(t *testing.T) {
	nodes, reporter, _ := parseString(t, `\text{a $x$}`)
	if reporter.errorCount() != 0 {
		t.Fatalf("errors = %v", reporter.diagnostics)
	}
	body := nodes[0].Body
	last := body[len(body)-1]
	if last.Kind != ast.KindOrdGroup || last.Mode != ast.MathMode {
		t.Fatalf("inline math = %v mode %v", last.Kind, last.Mode)
	}
	// группа покрывает оба символа '$'
	expectLoc(t, last, 8, 11)
}

func TestBracelessFontArgument(t *testing.T) {
	// \mathbb с одиночным аргументом без скобок
	nodes, reporter, _ := parseString(t, `\mathbb R`)
	if reporter.errorCount() != 0 {
		t.Fatalf("errors = %v", reporter.diagnostics)
	}
	n := nodes[0]
	if n.Kind != ast.KindFont || n.Command != "mathbb" {
		t.Fatalf("node = %v %q", n.Kind, n.Command)
	}
	expectLoc(t, n, 0, 9)
}

func TestBracelessArgument_GreedierInnerAllowed(t *testing.T) {
	// \mathcal (жадность 2) жаднее \bar (жадность 1) — скобки не нужны
	nodes, reporter, _ := parseString(t, `\bar\mathcal{x}`)
	if reporter.errorCount() != 0 {
		t.Fatalf("errors = %v", reporter.diagnostics)
	}
	if nodes[0].Kind != ast.KindAccent || nodes[0].Arg.Kind != ast.KindFont {
		t.Fatalf("nodes = %v", nodes)
	}
}

func TestBracelessArgument_LessGreedyRejected(t *testing.T) {
	// \bar (жадность 1) не жаднее \mathcal (жадность 2) — нужна группа
	nodes, reporter, _ := parseString(t, `\mathcal\bar x`)
	if !reporter.hasCode(diag.SynUnexpectedToken) {
		t.Fatal("expected SynUnexpectedToken diagnostic")
	}
	if nodes[0].Kind != ast.KindFont || nodes[0].Arg.Kind != ast.KindError {
		t.Fatalf("nodes = %v", nodes)
	}
}

func TestMathOnlyCommandInText(t *testing.T) {
	_, reporter, _ := parseString(t, `\text{\mathcal{x}}`)
	if !reporter.hasCode(diag.SynMathOnly) {
		t.Fatal("expected SynMathOnly diagnostic")
	}
}

func TestTextColor(t *testing.T) {
	nodes, reporter, _ := parseString(t, `\textcolor{red}{x}`)
	if reporter.errorCount() != 0 {
		t.Fatalf("errors = %v", reporter.diagnostics)
	}
	n := nodes[0]
	if n.Kind != ast.KindColor || n.Text != "red" {
		t.Fatalf("node = %v color %q", n.Kind, n.Text)
	}
	expectLoc(t, n, 0, 18)
}

func TestColor_SwitchesRestOfGroup(t *testing.T) {
	nodes, reporter, _ := parseString(t, `{\color{red}ab}`)
	if reporter.errorCount() != 0 {
		t.Fatalf("errors = %v", reporter.diagnostics)
	}
	group := nodes[0]
	if group.Kind != ast.KindOrdGroup || len(group.Body) != 1 {
		t.Fatalf("group = %v", group)
	}
	colored := group.Body[0]
	if colored.Kind != ast.KindColor || len(colored.Body) != 2 {
		t.Fatalf("colored = %v body %v", colored.Kind, colored.Body)
	}
}

func TestColorIsTextColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tex", []byte(`{\color{red}ab}`))
	file := fs.Get(id)

	reporter := &testReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	ex := macro.New(lx, macro.Options{Reporter: reporter})
	res := parser.Parse(ex, parser.Options{Reporter: reporter, ColorIsTextColor: true})

	group := res.Nodes[0]
	if len(group.Body) != 2 {
		t.Fatalf("body = %v", group.Body)
	}
	// \color взял один аргумент, 'b' остался снаружи
	if group.Body[0].Kind != ast.KindColor || len(group.Body[0].Body) != 1 {
		t.Fatalf("colored = %v", group.Body[0])
	}
	if group.Body[1].Kind != ast.KindIdentifier || group.Body[1].Text != "b" {
		t.Fatalf("tail = %v", group.Body[1])
	}
}

func TestMacroExpansion_StampsCallSite(t *testing.T) {
	nodes, reporter, _ := parseString(t, `\R`)
	if reporter.errorCount() != 0 {
		t.Fatalf("errors = %v", reporter.diagnostics)
	}
	n := nodes[0]
	if n.Kind != ast.KindFont || n.Command != "mathbb" {
		t.Fatalf("node = %v %q", n.Kind, n.Command)
	}
	// всё развёрнутое дерево локализовано в точке вызова
	expectLoc(t, n, 0, 2)
	expectLoc(t, n.Arg, 0, 2)
}

package markup_test

import (
	"strconv"
	"strings"
	"testing"

	"texmath/internal/annotate"
	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/lexer"
	"texmath/internal/macro"
	"texmath/internal/markup"
	"texmath/internal/parser"
	"texmath/internal/source"
	"texmath/internal/style"
)

// buildMarkup прогоняет вход через весь фронтенд и строит семантическое дерево
func buildMarkup(t *testing.T, input string) *markup.Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tex", []byte(input))

	reporter := diag.NewBagReporter(100)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	ex := macro.New(lx, macro.Options{Reporter: reporter})
	res := parser.Parse(ex, parser.Options{Reporter: reporter})
	return markup.Build(res.Nodes, style.Default())
}

// expectAttr проверяет один атрибут узла
func expectAttr(t *testing.T, n *markup.Node, name, want string) {
	t.Helper()
	got, ok := n.Attr(name)
	if !ok {
		t.Errorf("<%s>: attribute %q missing", n.Tag, name)
		return
	}
	if got != want {
		t.Errorf("<%s> %s = %q, want %q", n.Tag, name, got, want)
	}
}

// expectContentSpan проверяет пару s2:start / s2:end
func expectContentSpan(t *testing.T, n *markup.Node, start, end string) {
	t.Helper()
	expectAttr(t, n, annotate.AttrStart, start)
	expectAttr(t, n, annotate.AttrEnd, end)
}

func TestIdentifierLeaf(t *testing.T) {
	n := buildMarkup(t, "x")
	if n.Tag != "mi" || n.Text != "x" {
		t.Fatalf("node = <%s>%q", n.Tag, n.Text)
	}
	expectContentSpan(t, n, "0", "1")
	expectAttr(t, n, annotate.AttrIndex, "0")
}

func TestSubscript(t *testing.T) {
	n := buildMarkup(t, "x_i")
	if n.Tag != "msub" || len(n.Children) != 2 {
		t.Fatalf("node = <%s> with %d children", n.Tag, len(n.Children))
	}
	expectContentSpan(t, n, "0", "3")
	expectContentSpan(t, n.Children[0], "0", "1")
	expectContentSpan(t, n.Children[1], "2", "3")
}

func TestFontWrapper_StyleSpan(t *testing.T) {
	n := buildMarkup(t, `\mathcal{x_i}`)
	// группа с единственным ребёнком схлопнута: остаётся сам msub
	if n.Tag != "msub" {
		t.Fatalf("tag = %s", n.Tag)
	}
	// контент расширен до скобок группы
	expectContentSpan(t, n, "8", "13")
	// стилевой спан покрывает команду целиком
	expectAttr(t, n, annotate.AttrStyleStart, "0")
	expectAttr(t, n, annotate.AttrStyleEnd, "13")
	expectAttr(t, n, annotate.AttrFontMacros, `\mathcal`)

	expectContentSpan(t, n.Children[0], "9", "10")
	expectContentSpan(t, n.Children[1], "11", "12")
}

func TestGroupFlattening_StyleContainsContent(t *testing.T) {
	// схлопывание {\mathcal x}: контент расширяется до скобок, стилевой
	// спан обязан расшириться вместе с ним
	n := buildMarkup(t, `{\mathcal x}`)
	if n.Tag != "mi" {
		t.Fatalf("tag = %s", n.Tag)
	}
	expectContentSpan(t, n, "0", "12")
	expectAttr(t, n, annotate.AttrStyleStart, "0")
	expectAttr(t, n, annotate.AttrStyleEnd, "12")

	n.Walk(func(m *markup.Node) {
		ss, okSS := m.Attr(annotate.AttrStyleStart)
		se, okSE := m.Attr(annotate.AttrStyleEnd)
		cs, okCS := m.Attr(annotate.AttrStart)
		ce, okCE := m.Attr(annotate.AttrEnd)
		if !okSS || !okSE || !okCS || !okCE {
			return
		}
		styleStart, _ := strconv.Atoi(ss)
		styleEnd, _ := strconv.Atoi(se)
		contentStart, _ := strconv.Atoi(cs)
		contentEnd, _ := strconv.Atoi(ce)
		if styleStart > contentStart || contentEnd > styleEnd {
			t.Errorf("<%s>: style [%d,%d) does not contain content [%d,%d)",
				m.Tag, styleStart, styleEnd, contentStart, contentEnd)
		}
	})
}

func TestAccent(t *testing.T) {
	n := buildMarkup(t, `\bar x`)
	if n.Tag != "mover" || len(n.Children) != 2 {
		t.Fatalf("node = <%s> with %d children", n.Tag, len(n.Children))
	}
	expectAttr(t, n, "accent", "true")
	expectContentSpan(t, n, "0", "6")

	body, mark := n.Children[0], n.Children[1]
	if body.Tag != "mi" || body.Text != "x" {
		t.Fatalf("body = <%s>%q", body.Tag, body.Text)
	}
	expectContentSpan(t, body, "5", "6")
	// значок акцента несёт спан команды до аргумента
	if mark.Tag != "mo" {
		t.Fatalf("mark tag = %s", mark.Tag)
	}
	expectContentSpan(t, mark, "0", "5")
}

func TestPrime(t *testing.T) {
	n := buildMarkup(t, "x'")
	if n.Tag != "msup" {
		t.Fatalf("tag = %s", n.Tag)
	}
	expectContentSpan(t, n, "0", "2")
	sup := n.Children[1]
	if sup.Tag != "mo" {
		t.Fatalf("sup tag = %s", sup.Tag)
	}
	expectContentSpan(t, sup, "1", "2")
}

func TestUnterminatedGroup_ErrorMarker(t *testing.T) {
	n := buildMarkup(t, `\mathcal{x`)
	if n.Tag != "merror" {
		t.Fatalf("tag = %s", n.Tag)
	}
	expectAttr(t, n, "mathcolor", style.ErrorColor)
	expectContentSpan(t, n, "8", "10")
}

func TestNamedOperator(t *testing.T) {
	n := buildMarkup(t, `\sin x`)
	if n.Tag != "mrow" {
		t.Fatalf("tag = %s", n.Tag)
	}
	op := n.Children[0]
	if op.Tag != "mo" || op.Text != "sin" {
		t.Fatalf("op = <%s>%q", op.Tag, op.Text)
	}
	expectAttr(t, op, annotate.AttrIsOperator, "true")
}

func TestColor(t *testing.T) {
	n := buildMarkup(t, `\textcolor{red}{x}`)
	if n.Tag != "mstyle" {
		t.Fatalf("tag = %s", n.Tag)
	}
	expectAttr(t, n, "mathcolor", "red")
	expectContentSpan(t, n, "0", "18")
	inner := n.Children[0]
	if inner.Tag != "mi" {
		t.Fatalf("inner tag = %s", inner.Tag)
	}
}

func TestTextRun_Merged(t *testing.T) {
	n := buildMarkup(t, `\text{ab c}`)
	// последовательные листья текста слиты в один mtext
	if n.Tag != "mtext" || n.Text != "ab c" {
		t.Fatalf("node = <%s>%q", n.Tag, n.Text)
	}
	expectContentSpan(t, n, "6", "10")
}

func TestMacroExpanded_CallSiteSpans(t *testing.T) {
	n := buildMarkup(t, `\R`)
	if n.Tag != "mi" || n.Text != "R" {
		t.Fatalf("node = <%s>%q", n.Tag, n.Text)
	}
	// расширенный узел указывает на точку вызова макроса
	expectContentSpan(t, n, "0", "2")
	expectAttr(t, n, annotate.AttrStyleStart, "0")
	expectAttr(t, n, annotate.AttrStyleEnd, "2")
	expectAttr(t, n, annotate.AttrFontMacros, `\mathbb`)
}

func TestIndices_AreStableAndUnique(t *testing.T) {
	n := buildMarkup(t, "a+b")
	seen := map[string]bool{}
	n.Walk(func(node *markup.Node) {
		idx, ok := node.Attr(annotate.AttrIndex)
		if !ok {
			t.Errorf("<%s> has no index", node.Tag)
			return
		}
		if seen[idx] {
			t.Errorf("duplicate index %s", idx)
		}
		seen[idx] = true
	})
	if len(seen) != 4 {
		t.Errorf("got %d indexed nodes, want 4", len(seen))
	}
}

func TestSerialize(t *testing.T) {
	n := markup.NewNode("mrow", markup.NewLeaf("mi", "x"))
	n.SetAttr("b", "2")
	n.SetAttr("a", "1")
	got := markup.Serialize(n)
	want := `<mrow a="1" b="2"><mi>x</mi></mrow>`
	if got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerialize_Escapes(t *testing.T) {
	n := markup.NewLeaf("mtext", `a<b&"c"`)
	got := markup.Serialize(n)
	if !strings.Contains(got, "a&lt;b&amp;&quot;c&quot;") {
		t.Errorf("Serialize = %q", got)
	}
}

func TestEmptyInput(t *testing.T) {
	n := markup.Build(nil, style.Default())
	if n.Tag != "mrow" || len(n.Children) != 0 {
		t.Fatalf("node = <%s> with %d children", n.Tag, len(n.Children))
	}
}

func TestBoldsymbol_KeepsClass(t *testing.T) {
	n := buildMarkup(t, `\boldsymbol{+}`)
	if n.Tag != "mo" {
		t.Fatalf("tag = %s", n.Tag)
	}
	expectAttr(t, n, "class", ast.ClassBin.String())
}

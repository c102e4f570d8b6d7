package layout_test

import (
	"math"
	"strings"
	"testing"

	"texmath/internal/annotate"
	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/layout"
	"texmath/internal/lexer"
	"texmath/internal/macro"
	"texmath/internal/parser"
	"texmath/internal/source"
	"texmath/internal/style"
	"texmath/internal/symbols"
)

const (
	thin  = 3.0 / 18.0
	med   = 4.0 / 18.0
	thick = 5.0 / 18.0
)

// buildLayout прогоняет вход через фронтенд и строит дерево боксов
func buildLayout(t *testing.T, input string) *layout.Box {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tex", []byte(input))

	reporter := diag.NewBagReporter(100)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	ex := macro.New(lx, macro.Options{Reporter: reporter})
	res := parser.Parse(ex, parser.Options{Reporter: reporter})
	return layout.Build(res.Nodes, style.Default())
}

func approx(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

// kerns возвращает ширины всех горизонтальных кернов верхнего уровня
func kerns(b *layout.Box) []float64 {
	var out []float64
	for _, child := range b.Children {
		if child.Kind == layout.Kern {
			out = append(out, child.Width)
		}
	}
	return out
}

func TestSpacing_BinaryOperator(t *testing.T) {
	b := buildLayout(t, "a+b")
	if b.Kind != layout.HBox || len(b.Children) != 5 {
		t.Fatalf("box = %v with %d children", b.Kind, len(b.Children))
	}
	// ord-bin и bin-ord получают средний клей
	ks := kerns(b)
	if len(ks) != 2 {
		t.Fatalf("kern count = %d", len(ks))
	}
	approx(t, "left glue", ks[0], med)
	approx(t, "right glue", ks[1], med)
}

func TestSpacing_Relation(t *testing.T) {
	b := buildLayout(t, "a=b")
	ks := kerns(b)
	if len(ks) != 2 {
		t.Fatalf("kern count = %d", len(ks))
	}
	approx(t, "glue", ks[0], thick)
}

func TestSpacing_NamedOperator(t *testing.T) {
	b := buildLayout(t, `\sin x`)
	if len(b.Children) != 3 {
		t.Fatalf("children = %d", len(b.Children))
	}
	if b.Children[0].Kind != layout.TextRun || b.Children[0].Text != "sin" {
		t.Fatalf("op box = %v %q", b.Children[0].Kind, b.Children[0].Text)
	}
	approx(t, "op-ord glue", b.Children[1].Width, thin)
}

func TestSpacing_SuppressedInScripts(t *testing.T) {
	// в индексном стиле средний и толстый клей исчезают
	b := buildLayout(t, "x_{a+b}")
	if b.Kind != layout.HBox || len(b.Children) != 2 {
		t.Fatalf("box = %v with %d children", b.Kind, len(b.Children))
	}
	sub := b.Children[1]
	if sub.Kind != layout.HBox {
		t.Fatalf("sub kind = %v", sub.Kind)
	}
	if len(sub.Children) != 3 {
		t.Errorf("sub children = %d, want 3 (no kerns)", len(sub.Children))
	}
	for _, child := range sub.Children {
		if child.Kind == layout.Kern {
			t.Error("unexpected kern in script style")
		}
	}
}

func TestAccent_VerticalRecipe(t *testing.T) {
	b := buildLayout(t, `\bar x`)
	if b.Kind != layout.VBox || len(b.Children) != 4 {
		t.Fatalf("box = %v with %d children", b.Kind, len(b.Children))
	}
	body, kern3, rule, kern1 := b.Children[0], b.Children[1], b.Children[2], b.Children[3]

	if body.Kind != layout.Glyph || body.Text != "x" {
		t.Fatalf("body = %v %q", body.Kind, body.Text)
	}
	theta := symbols.DefaultRuleThickness
	approx(t, "clearance below rule", kern3.Height, 3*theta)
	if rule.Kind != layout.Rule {
		t.Fatalf("rule kind = %v", rule.Kind)
	}
	approx(t, "rule thickness", rule.Height, theta)
	approx(t, "rule width", rule.Width, body.Width)
	approx(t, "clearance above rule", kern1.Height, theta)

	// провенанс: вся конструкция указывает на \bar x
	if v, _ := b.Attr(annotate.AttrStart); v != "0" {
		t.Errorf("s2:start = %q", v)
	}
	if v, _ := b.Attr(annotate.AttrEnd); v != "6" {
		t.Errorf("s2:end = %q", v)
	}
}

func TestIdentifier_DefaultsToMathItalic(t *testing.T) {
	b := buildLayout(t, "x")
	if b.Kind != layout.Glyph {
		t.Fatalf("kind = %v", b.Kind)
	}
	if v, _ := b.Attr(annotate.AttrFontMacros); v != `\mathit` {
		t.Errorf("font macros = %q", v)
	}
}

func TestIdentifier_ExplicitFontWins(t *testing.T) {
	b := buildLayout(t, `\mathbf{x}`)
	if v, _ := b.Attr(annotate.AttrFontMacros); v != `\mathbf` {
		t.Errorf("font macros = %q", v)
	}
}

func TestNumber_MultiDigitRun(t *testing.T) {
	b := buildLayout(t, "42")
	if b.Kind != layout.TextRun || b.Text != "42" {
		t.Fatalf("box = %v %q", b.Kind, b.Text)
	}
	if v, _ := b.Attr(annotate.AttrStart); v != "0" {
		t.Errorf("s2:start = %q", v)
	}
	if v, _ := b.Attr(annotate.AttrEnd); v != "2" {
		t.Errorf("s2:end = %q", v)
	}
}

func TestSupSub_Shifts(t *testing.T) {
	sup := buildLayout(t, "x^2")
	if sup.Kind != layout.HBox || len(sup.Children) != 2 {
		t.Fatalf("box = %v with %d children", sup.Kind, len(sup.Children))
	}
	plain := buildLayout(t, "x_2")
	if plain.Kind != layout.HBox || len(plain.Children) != 2 {
		t.Fatalf("box = %v with %d children", plain.Kind, len(plain.Children))
	}
	// верхний индекс приподнят, нижний опущен
	if sup.Children[1].Height <= plain.Children[1].Height {
		t.Errorf("sup height %v not above sub height %v",
			sup.Children[1].Height, plain.Children[1].Height)
	}
	if plain.Children[1].Depth <= sup.Children[1].Depth {
		t.Errorf("sub depth %v not below sup depth %v",
			plain.Children[1].Depth, sup.Children[1].Depth)
	}
}

func TestScriptSize_Reduced(t *testing.T) {
	whole := buildLayout(t, "x_i")
	base, sub := whole.Children[0], whole.Children[1]
	if sub.Width >= base.Width {
		t.Errorf("script width %v not smaller than base width %v", sub.Width, base.Width)
	}
}

func TestError_Colored(t *testing.T) {
	b := buildLayout(t, `\foo`)
	if b.Kind != layout.TextRun {
		t.Fatalf("kind = %v", b.Kind)
	}
	if v, _ := b.Attr(annotate.AttrColor); v != style.ErrorColor {
		t.Errorf("color = %q", v)
	}
}

func TestColor_Propagates(t *testing.T) {
	b := buildLayout(t, `\textcolor{red}{x}`)
	if v, _ := b.Attr(annotate.AttrColor); v != "red" {
		t.Errorf("color = %q", v)
	}
}

func TestHBox_Geometry(t *testing.T) {
	b := buildLayout(t, "ab")
	if b.Kind != layout.HBox {
		t.Fatalf("kind = %v", b.Kind)
	}
	var sum float64
	for _, child := range b.Children {
		sum += child.Width
		if child.Height > b.Height+1e-9 {
			t.Errorf("child height %v exceeds box height %v", child.Height, b.Height)
		}
	}
	approx(t, "hbox width", b.Width, sum)
}

func TestSerialize_Dimensions(t *testing.T) {
	b := buildLayout(t, "x")
	got := layout.Serialize(b)
	if !strings.HasPrefix(got, `<glyph class="ord" width="`) {
		t.Errorf("Serialize = %q", got)
	}
	if !strings.Contains(got, `s2:start="0"`) || !strings.Contains(got, `s2:end="1"`) {
		t.Errorf("missing provenance attrs: %q", got)
	}
}

func TestOrdGroup_SingleChildWidened(t *testing.T) {
	b := buildLayout(t, "{x}")
	if b.Kind != layout.Glyph {
		t.Fatalf("kind = %v", b.Kind)
	}
	// спан расширен до скобок группы
	if v, _ := b.Attr(annotate.AttrStart); v != "0" {
		t.Errorf("s2:start = %q", v)
	}
	if v, _ := b.Attr(annotate.AttrEnd); v != "3" {
		t.Errorf("s2:end = %q", v)
	}
}

func TestOrdGroup_StyleWidensWithContent(t *testing.T) {
	// {\mathcal x}: сплющивание группы расширяет контент до скобок,
	// стилевой спан не должен отстать
	b := buildLayout(t, `{\mathcal x}`)
	if b.Kind != layout.Glyph {
		t.Fatalf("kind = %v", b.Kind)
	}
	if v, _ := b.Attr(annotate.AttrStart); v != "0" {
		t.Errorf("s2:start = %q", v)
	}
	if v, _ := b.Attr(annotate.AttrEnd); v != "12" {
		t.Errorf("s2:end = %q", v)
	}
	if v, _ := b.Attr(annotate.AttrStyleStart); v != "0" {
		t.Errorf("s2:style-start = %q", v)
	}
	if v, _ := b.Attr(annotate.AttrStyleEnd); v != "12" {
		t.Errorf("s2:style-end = %q", v)
	}
}

func TestBoldsymbol_KeepsSpacingClass(t *testing.T) {
	b := buildLayout(t, `a\boldsymbol{+}b`)
	// переобозначенный плюс сохраняет класс bin, клей остаётся средним
	ks := kerns(b)
	if len(ks) != 2 {
		t.Fatalf("kern count = %d", len(ks))
	}
	approx(t, "glue", ks[0], med)
	if b.Children[2].Class != ast.ClassBin {
		t.Errorf("class = %v, want bin", b.Children[2].Class)
	}
}

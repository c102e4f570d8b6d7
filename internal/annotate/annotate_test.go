package annotate_test

import (
	"testing"

	"texmath/internal/annotate"
	"texmath/internal/source"
	"texmath/internal/style"
)

// fakeTarget — узел-карта для проверки атрибутов без сборки деревьев
type fakeTarget map[string]string

func (f fakeTarget) SetAttr(name, value string) { f[name] = value }
func (f fakeTarget) Attr(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

func at(start, end uint32) source.Loc {
	return source.At(source.Span{Start: start, End: end})
}

func expectAttr(t *testing.T, f fakeTarget, name, want string) {
	t.Helper()
	got, ok := f.Attr(name)
	if !ok {
		t.Errorf("attribute %q missing", name)
		return
	}
	if got != want {
		t.Errorf("%s = %q, want %q", name, got, want)
	}
}

func TestContent(t *testing.T) {
	f := fakeTarget{}
	annotate.Content(f, at(3, 7))
	expectAttr(t, f, annotate.AttrStart, "3")
	expectAttr(t, f, annotate.AttrEnd, "7")
}

func TestContent_AbsentLocation(t *testing.T) {
	f := fakeTarget{}
	annotate.Content(f, source.NoLoc)
	if _, ok := f.Attr(annotate.AttrStart); ok {
		t.Error("absent location must not write attributes")
	}
}

func TestWidenContent_MergesOutward(t *testing.T) {
	f := fakeTarget{}
	annotate.Content(f, at(9, 12))
	annotate.WidenContent(f, at(8, 13))
	expectAttr(t, f, annotate.AttrStart, "8")
	expectAttr(t, f, annotate.AttrEnd, "13")
}

func TestWidenContent_NeverShrinks(t *testing.T) {
	f := fakeTarget{}
	annotate.Content(f, at(0, 10))
	annotate.WidenContent(f, at(3, 5))
	expectAttr(t, f, annotate.AttrStart, "0")
	expectAttr(t, f, annotate.AttrEnd, "10")
}

func TestWidenContent_WidensStyleSpan(t *testing.T) {
	// сплющивание группы {\mathcal x}: стилевой спан должен расшириться
	// вместе с контентным, иначе контент вылезет за стиль
	f := fakeTarget{}
	annotate.Content(f, at(10, 11))
	annotate.StyleWrap(f, at(1, 11))
	annotate.WidenContent(f, at(0, 12))
	expectAttr(t, f, annotate.AttrStart, "0")
	expectAttr(t, f, annotate.AttrEnd, "12")
	expectAttr(t, f, annotate.AttrStyleStart, "0")
	expectAttr(t, f, annotate.AttrStyleEnd, "12")
}

func TestWidenContent_NoExisting(t *testing.T) {
	f := fakeTarget{}
	annotate.WidenContent(f, at(2, 4))
	expectAttr(t, f, annotate.AttrStart, "2")
	expectAttr(t, f, annotate.AttrEnd, "4")
}

func TestWidenContent_CrossFileKeepsUnion(t *testing.T) {
	// атрибуты не хранят файл: виртуальный источник контента восстановлен
	// из спана обёртки, объединение происходит всегда
	f := fakeTarget{}
	annotate.Content(f, source.At(source.Span{File: 2, Start: 9, End: 12}))
	annotate.WidenContent(f, source.At(source.Span{File: 1, Start: 8, End: 13}))
	expectAttr(t, f, annotate.AttrStart, "8")
	expectAttr(t, f, annotate.AttrEnd, "13")
}

func TestStyleWrap_FromContent(t *testing.T) {
	// первый стилевой спан стартует от контент-спана узла
	f := fakeTarget{}
	annotate.Content(f, at(8, 13))
	annotate.StyleWrap(f, at(0, 13))
	expectAttr(t, f, annotate.AttrStyleStart, "0")
	expectAttr(t, f, annotate.AttrStyleEnd, "13")
}

func TestStyleWrap_NestedUnions(t *testing.T) {
	// вложенные обёртки объединяются, внешняя выигрывает
	f := fakeTarget{}
	annotate.Content(f, at(10, 11))
	annotate.StyleWrap(f, at(5, 12))
	annotate.StyleWrap(f, at(0, 15))
	expectAttr(t, f, annotate.AttrStyleStart, "0")
	expectAttr(t, f, annotate.AttrStyleEnd, "15")
}

func TestStyleWrap_AbsentWrapper(t *testing.T) {
	f := fakeTarget{}
	annotate.Content(f, at(1, 2))
	annotate.StyleWrap(f, source.NoLoc)
	if _, ok := f.Attr(annotate.AttrStyleStart); ok {
		t.Error("absent wrapper must not write style attributes")
	}
}

func TestNumber_Sequential(t *testing.T) {
	ann := annotate.New()
	first, second := fakeTarget{}, fakeTarget{}
	ann.Number(first)
	ann.Number(second)
	expectAttr(t, first, annotate.AttrIndex, "0")
	expectAttr(t, second, annotate.AttrIndex, "1")
}

func TestNumber_FreshPerAnnotator(t *testing.T) {
	a := annotate.New()
	b := annotate.New()
	fa, fb := fakeTarget{}, fakeTarget{}
	a.Number(fa)
	b.Number(fb)
	expectAttr(t, fb, annotate.AttrIndex, "0")
}

func TestFonts(t *testing.T) {
	f := fakeTarget{}
	annotate.Fonts(f, style.Default().WithFont("mathcal"))
	expectAttr(t, f, annotate.AttrFontMacros, `\mathcal`)
}

func TestFonts_EmptyContext(t *testing.T) {
	f := fakeTarget{}
	annotate.Fonts(f, style.Default())
	if _, ok := f.Attr(annotate.AttrFontMacros); ok {
		t.Error("default context must not write font macros")
	}
}

func TestMarkOperator(t *testing.T) {
	f := fakeTarget{}
	annotate.MarkOperator(f)
	expectAttr(t, f, annotate.AttrIsOperator, "true")
}

package style_test

import (
	"testing"

	"texmath/internal/style"
)

func TestDefault(t *testing.T) {
	ctx := style.Default()
	if ctx.Style != style.Text || ctx.Size != 1.0 || ctx.Color != style.DefaultColor {
		t.Fatalf("default = %+v", ctx)
	}
	if ctx.FontMacros() != "" {
		t.Errorf("font macros = %q", ctx.FontMacros())
	}
}

func TestWithStyle_Rescales(t *testing.T) {
	ctx := style.Default().WithStyle(style.Script)
	if ctx.Size != 0.7 {
		t.Errorf("size = %v", ctx.Size)
	}
	ctx = ctx.WithStyle(style.ScriptScript)
	if ctx.Size != 0.5 {
		t.Errorf("size = %v", ctx.Size)
	}
}

func TestDerivation_DoesNotMutate(t *testing.T) {
	base := style.Default()
	_ = base.WithFont("mathcal").WithCramped().WithColor("red")
	if base.Font != "" || base.Cramped || base.Color != style.DefaultColor {
		t.Fatalf("base mutated: %+v", base)
	}
}

func TestFontMacros_DeclarationOrder(t *testing.T) {
	ctx := style.Default().
		WithTextShape("textit").
		WithFont("mathbf").
		WithTextWeight("textbf")
	// порядок фиксирован объявлением осей, не порядком вызовов
	want := `\mathbf&\textbf&\textit`
	if got := ctx.FontMacros(); got != want {
		t.Errorf("font macros = %q, want %q", got, want)
	}
}

func TestFontMacros_SkipsBlanks(t *testing.T) {
	ctx := style.Default().WithTextWeight("textbf")
	if got := ctx.FontMacros(); got != `\textbf` {
		t.Errorf("font macros = %q", got)
	}
}

func TestStyleSteps(t *testing.T) {
	tests := []struct {
		in   style.Style
		sup  style.Style
		size float64
	}{
		{style.Display, style.Script, 1.0},
		{style.Text, style.Script, 1.0},
		{style.Script, style.ScriptScript, 0.7},
		{style.ScriptScript, style.ScriptScript, 0.5},
	}
	for _, tt := range tests {
		if got := tt.in.Sup(); got != tt.sup {
			t.Errorf("%v.Sup() = %v, want %v", tt.in, got, tt.sup)
		}
		if got := tt.in.Sub(); got != tt.sup {
			t.Errorf("%v.Sub() = %v, want %v", tt.in, got, tt.sup)
		}
		if got := tt.in.SizeMultiplier(); got != tt.size {
			t.Errorf("%v.SizeMultiplier() = %v, want %v", tt.in, got, tt.size)
		}
	}
}

func TestIsScript(t *testing.T) {
	if style.Text.IsScript() || style.Display.IsScript() {
		t.Error("text/display must not be script")
	}
	if !style.Script.IsScript() || !style.ScriptScript.IsScript() {
		t.Error("script styles must report IsScript")
	}
}

package symbols

import (
	"sync"

	"texmath/internal/ast"
)

// Entry describes one recognized symbol: the font it is taken from, its
// spacing class, and the replacement character actually typeset.
type Entry struct {
	Font    string
	Class   ast.AtomClass
	Replace rune // 0 means "use the source character itself"
}

// Table is the master symbol table: source token text → Entry, per mode.
// Built once at process start, read-only afterwards; share by reference.
type Table struct {
	math map[string]Entry
	text map[string]Entry
}

var (
	tableOnce sync.Once
	table     *Table
)

// Get returns the process-wide symbol table.
func Get() *Table {
	tableOnce.Do(func() {
		table = build()
	})
	return table
}

// Lookup resolves a source token text in the given mode.
func (t *Table) Lookup(mode ast.Mode, text string) (Entry, bool) {
	if mode == ast.TextMode {
		e, ok := t.text[text]
		return e, ok
	}
	e, ok := t.math[text]
	return e, ok
}

func build() *Table {
	t := &Table{
		math: make(map[string]Entry, 128),
		text: make(map[string]Entry, 32),
	}

	defineMath := func(text string, class ast.AtomClass, replace rune) {
		t.math[text] = Entry{Font: "main", Class: class, Replace: replace}
	}
	defineText := func(text string, replace rune) {
		t.text[text] = Entry{Font: "main", Class: ast.ClassOrd, Replace: replace}
	}

	// Binary operators.
	defineMath("+", ast.ClassBin, 0)
	defineMath("-", ast.ClassBin, '−')
	defineMath("*", ast.ClassBin, '∗')
	defineMath("/", ast.ClassOrd, 0)
	defineMath("\\pm", ast.ClassBin, '±')
	defineMath("\\mp", ast.ClassBin, '∓')
	defineMath("\\times", ast.ClassBin, '×')
	defineMath("\\div", ast.ClassBin, '÷')
	defineMath("\\cdot", ast.ClassBin, '⋅')
	defineMath("\\circ", ast.ClassBin, '∘')
	defineMath("\\cup", ast.ClassBin, '∪')
	defineMath("\\cap", ast.ClassBin, '∩')
	defineMath("\\oplus", ast.ClassBin, '⊕')
	defineMath("\\otimes", ast.ClassBin, '⊗')

	// Relations.
	defineMath("=", ast.ClassRel, 0)
	defineMath("<", ast.ClassRel, 0)
	defineMath(">", ast.ClassRel, 0)
	defineMath("\\le", ast.ClassRel, '≤')
	defineMath("\\leq", ast.ClassRel, '≤')
	defineMath("\\ge", ast.ClassRel, '≥')
	defineMath("\\geq", ast.ClassRel, '≥')
	defineMath("\\ne", ast.ClassRel, '≠')
	defineMath("\\neq", ast.ClassRel, '≠')
	defineMath("\\equiv", ast.ClassRel, '≡')
	defineMath("\\approx", ast.ClassRel, '≈')
	defineMath("\\sim", ast.ClassRel, '∼')
	defineMath("\\in", ast.ClassRel, '∈')
	defineMath("\\notin", ast.ClassRel, '∉')
	defineMath("\\subset", ast.ClassRel, '⊂')
	defineMath("\\subseteq", ast.ClassRel, '⊆')
	defineMath("\\to", ast.ClassRel, '→')
	defineMath("\\rightarrow", ast.ClassRel, '→')
	defineMath("\\leftarrow", ast.ClassRel, '←')
	defineMath("\\Rightarrow", ast.ClassRel, '⇒')
	defineMath("\\Leftarrow", ast.ClassRel, '⇐')
	defineMath("\\Longrightarrow", ast.ClassRel, '⟹')
	defineMath("\\Longleftrightarrow", ast.ClassRel, '⟺')
	defineMath("\\mapsto", ast.ClassRel, '↦')

	// Delimiters.
	defineMath("(", ast.ClassOpen, 0)
	defineMath("[", ast.ClassOpen, 0)
	defineMath("\\lbrace", ast.ClassOpen, '{')
	defineMath("\\{", ast.ClassOpen, '{')
	defineMath("\\langle", ast.ClassOpen, '⟨')
	defineMath(")", ast.ClassClose, 0)
	defineMath("]", ast.ClassClose, 0)
	defineMath("\\rbrace", ast.ClassClose, '}')
	defineMath("\\}", ast.ClassClose, '}')
	defineMath("\\rangle", ast.ClassClose, '⟩')
	defineMath("|", ast.ClassOrd, '∣')

	// Punctuation.
	defineMath(",", ast.ClassPunct, 0)
	defineMath(";", ast.ClassPunct, 0)
	defineMath(":", ast.ClassRel, 0)
	defineMath("!", ast.ClassOrd, 0)
	defineMath("?", ast.ClassOrd, 0)
	defineMath(".", ast.ClassOrd, 0)

	// Ordinary symbols.
	defineMath("\\infty", ast.ClassOrd, '∞')
	defineMath("\\prime", ast.ClassOrd, '′')
	defineMath("\\partial", ast.ClassOrd, '∂')
	defineMath("\\nabla", ast.ClassOrd, '∇')
	defineMath("\\forall", ast.ClassOrd, '∀')
	defineMath("\\exists", ast.ClassOrd, '∃')
	defineMath("\\emptyset", ast.ClassOrd, '∅')
	defineMath("\\hbar", ast.ClassOrd, 'ℏ')
	defineMath("\\ell", ast.ClassOrd, 'ℓ')
	defineMath("\\dots", ast.ClassInner, '…')
	defineMath("\\ldots", ast.ClassInner, '…')
	defineMath("\\cdots", ast.ClassInner, '⋯')

	// Greek letters.
	greek := map[string]rune{
		"alpha": 'α', "beta": 'β', "gamma": 'γ', "delta": 'δ',
		"epsilon": 'ϵ', "varepsilon": 'ε', "zeta": 'ζ', "eta": 'η',
		"theta": 'θ', "vartheta": 'ϑ', "iota": 'ι', "kappa": 'κ',
		"lambda": 'λ', "mu": 'μ', "nu": 'ν', "xi": 'ξ',
		"pi": 'π', "rho": 'ρ', "sigma": 'σ', "tau": 'τ',
		"upsilon": 'υ', "phi": 'ϕ', "varphi": 'φ', "chi": 'χ',
		"psi": 'ψ', "omega": 'ω',
		"Gamma": 'Γ', "Delta": 'Δ', "Theta": 'Θ', "Lambda": 'Λ',
		"Xi": 'Ξ', "Pi": 'Π', "Sigma": 'Σ', "Upsilon": 'Υ',
		"Phi": 'Φ', "Psi": 'Ψ', "Omega": 'Ω',
	}
	for name, r := range greek {
		defineMath("\\"+name, ast.ClassOrd, r)
	}

	// Text mode: escapable characters keep their class Ord.
	defineText("\\{", '{')
	defineText("\\}", '}')
	defineText("\\$", '$')
	defineText("\\%", '%')
	defineText("\\&", '&')
	defineText("\\#", '#')
	defineText("\\_", '_')

	return t
}

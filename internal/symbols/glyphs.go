package symbols

// Glyph name → character code. Mirrors the naming of the underlying font
// data files; used when command handlers need a concrete glyph without going
// through the symbol table.
var glyphCodes = map[string]rune{
	"prime":          '′',
	"minus":          '−',
	"overlinesegment": '‾',
	"vec":            '⃗',
	"bar":            '¯',
	"hat":            '^',
	"tilde":          '~',
	"dotaccent":      '˙',
	"circ":           '∘',
	"infinity":       '∞',
	"degree":         '°',
}

// GlyphCode resolves a glyph name to its character code.
func GlyphCode(name string) (rune, bool) {
	r, ok := glyphCodes[name]
	return r, ok
}

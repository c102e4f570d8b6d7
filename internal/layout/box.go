package layout

// BoxKind tags the geometry node variants.
type BoxKind uint8

const (
	// HBox is a horizontal list; width sums, height/depth take the max.
	HBox BoxKind = iota
	// VBox is a vertical list anchored at its bottom child's baseline.
	VBox
	// Glyph is a single typeset character.
	Glyph
	// TextRun is a coalesced run of text-mode characters.
	TextRun
	// Rule is a solid horizontal rule.
	Rule
	// Kern is fixed blank space: horizontal inside an HBox, vertical
	// inside a VBox.
	Kern
)

var boxKindNames = [...]string{"hbox", "vbox", "glyph", "textrun", "rule", "kern"}

func (k BoxKind) String() string {
	if int(k) < len(boxKindNames) {
		return boxKindNames[k]
	}
	return "box"
}

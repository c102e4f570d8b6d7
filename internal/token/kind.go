package token

// Kind represents the lexical category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// ControlWord is a backslash followed by one or more letters: \mathcal.
	ControlWord
	// ControlSymbol is a backslash followed by a single non-letter: \%.
	ControlSymbol
	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// MathShift represents '$'.
	MathShift
	// Superscript represents '^'.
	Superscript
	// Subscript represents '_'.
	Subscript
	// Prime represents a single quote.
	Prime
	// Space is a run of whitespace collapsed to a single token.
	Space
	// Char is any remaining single character.
	Char
)

var kindNames = map[Kind]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	ControlWord:   "ControlWord",
	ControlSymbol: "ControlSymbol",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	MathShift:     "MathShift",
	Superscript:   "Superscript",
	Subscript:     "Subscript",
	Prime:         "Prime",
	Space:         "Space",
	Char:          "Char",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

package ast

// Kind tags the closed set of syntax node variants.
type Kind uint8

const (
	// KindInvalid indicates an uninitialized node.
	KindInvalid Kind = iota
	// KindIdentifier is a single letter in math mode: x.
	KindIdentifier
	// KindNumber is a run of digits (with optional decimal point): 42, 3.14.
	KindNumber
	// KindAtom is a symbol with an atom class: + = ( , .
	KindAtom
	// KindOp is a named function: \sin, \log.
	KindOp
	// KindOrdGroup is a braced group: {...}.
	KindOrdGroup
	// KindFont is a math font/style wrapper: \mathcal{...}.
	KindFont
	// KindText is a text-mode wrapper: \text{...}.
	KindText
	// KindAccent is an over-accent: \bar x, \overline{...}.
	KindAccent
	// KindSupSub is a base with superscript and/or subscript.
	KindSupSub
	// KindClass is a math-class wrapper: \mathbin{...}, \boldsymbol{...}.
	KindClass
	// KindColor colors its body: \textcolor{red}{...}.
	KindColor
	// KindSpace is a significant space (text mode).
	KindSpace
	// KindError is the error-marker leaf substituted under
	// ThrowOnError=false.
	KindError
)

var kindNames = map[Kind]string{
	KindInvalid:    "Invalid",
	KindIdentifier: "Identifier",
	KindNumber:     "Number",
	KindAtom:       "Atom",
	KindOp:         "Op",
	KindOrdGroup:   "OrdGroup",
	KindFont:       "Font",
	KindText:       "Text",
	KindAccent:     "Accent",
	KindSupSub:     "SupSub",
	KindClass:      "Class",
	KindColor:      "Color",
	KindSpace:      "Space",
	KindError:      "Error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsStyleWrapper reports whether nodes of this kind contribute a style span
// to the node they wrap.
func (k Kind) IsStyleWrapper() bool {
	switch k {
	case KindFont, KindText, KindClass, KindColor:
		return true
	default:
		return false
	}
}

// Mode is the lexical mode a node was parsed in.
type Mode uint8

const (
	MathMode Mode = iota
	TextMode
)

func (m Mode) String() string {
	if m == TextMode {
		return "text"
	}
	return "math"
}

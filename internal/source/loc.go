package source

// Loc is an optional Span. Узлы, синтезированные без исходного текста
// (например подставленные примы), не имеют локации.
type Loc struct {
	Span Span
	OK   bool
}

// At wraps a concrete span.
func At(sp Span) Loc {
	return Loc{Span: sp, OK: true}
}

// NoLoc is the absent location.
var NoLoc = Loc{}

// Cover merges two optional locations. The merge is defined only when both
// sides carry a span; otherwise the result is absent.
func (l Loc) Cover(other Loc) Loc {
	if !l.OK || !other.OK {
		return NoLoc
	}
	return At(l.Span.Cover(other.Span))
}

// Or returns l when present, otherwise other.
func (l Loc) Or(other Loc) Loc {
	if l.OK {
		return l
	}
	return other
}

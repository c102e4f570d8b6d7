package ast

// AtomClass is TeX's spacing category for a math construct. It decides the
// inter-atom glue the layout pass inserts between neighbors.
type AtomClass uint8

const (
	ClassOrd AtomClass = iota
	ClassOp
	ClassBin
	ClassRel
	ClassOpen
	ClassClose
	ClassPunct
	ClassInner
)

var classNames = [...]string{"ord", "op", "bin", "rel", "open", "close", "punct", "inner"}

func (c AtomClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "ord"
}

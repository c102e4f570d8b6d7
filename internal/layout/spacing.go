package layout

import (
	"texmath/internal/ast"
	"texmath/internal/style"
)

// Mu units in ems: thin/med/thick inter-atom glue.
const (
	thinSpace  = 3.0 / 18.0
	medSpace   = 4.0 / 18.0
	thickSpace = 5.0 / 18.0
)

type classPair struct {
	left, right ast.AtomClass
}

// spacingTable is TeX's inter-atom glue matrix, collapsed to the pairs that
// produce glue. Absent pairs get none.
var spacingTable = map[classPair]float64{
	{ast.ClassOrd, ast.ClassOp}:    thinSpace,
	{ast.ClassOrd, ast.ClassBin}:   medSpace,
	{ast.ClassOrd, ast.ClassRel}:   thickSpace,
	{ast.ClassOrd, ast.ClassInner}: thinSpace,

	{ast.ClassOp, ast.ClassOrd}:   thinSpace,
	{ast.ClassOp, ast.ClassOp}:    thinSpace,
	{ast.ClassOp, ast.ClassRel}:   thickSpace,
	{ast.ClassOp, ast.ClassInner}: thinSpace,

	{ast.ClassBin, ast.ClassOrd}:   medSpace,
	{ast.ClassBin, ast.ClassOp}:    medSpace,
	{ast.ClassBin, ast.ClassOpen}:  medSpace,
	{ast.ClassBin, ast.ClassInner}: medSpace,

	{ast.ClassRel, ast.ClassOrd}:   thickSpace,
	{ast.ClassRel, ast.ClassOp}:    thickSpace,
	{ast.ClassRel, ast.ClassOpen}:  thickSpace,
	{ast.ClassRel, ast.ClassInner}: thickSpace,

	{ast.ClassClose, ast.ClassOp}:    thinSpace,
	{ast.ClassClose, ast.ClassBin}:   medSpace,
	{ast.ClassClose, ast.ClassRel}:   thickSpace,
	{ast.ClassClose, ast.ClassInner}: thinSpace,

	{ast.ClassPunct, ast.ClassOrd}:   thinSpace,
	{ast.ClassPunct, ast.ClassOp}:    thinSpace,
	{ast.ClassPunct, ast.ClassRel}:   thinSpace,
	{ast.ClassPunct, ast.ClassOpen}:  thinSpace,
	{ast.ClassPunct, ast.ClassClose}: thinSpace,
	{ast.ClassPunct, ast.ClassPunct}: thinSpace,
	{ast.ClassPunct, ast.ClassInner}: thinSpace,

	{ast.ClassInner, ast.ClassOrd}:   thinSpace,
	{ast.ClassInner, ast.ClassOp}:    thinSpace,
	{ast.ClassInner, ast.ClassBin}:   medSpace,
	{ast.ClassInner, ast.ClassRel}:   thickSpace,
	{ast.ClassInner, ast.ClassOpen}:  thinSpace,
	{ast.ClassInner, ast.ClassPunct}: thinSpace,
	{ast.ClassInner, ast.ClassInner}: thinSpace,
}

// glueBetween returns the kern to insert between neighboring atoms.
// Medium and thick glue vanish in script styles.
func glueBetween(left, right ast.AtomClass, ctx style.Context) float64 {
	glue, ok := spacingTable[classPair{left, right}]
	if !ok {
		return 0
	}
	if ctx.Style.IsScript() && glue >= medSpace {
		return 0
	}
	return glue * ctx.Size
}

// withSpacing interleaves class-driven kerns into a horizontal list.
func withSpacing(boxes []*Box, ctx style.Context) []*Box {
	if len(boxes) < 2 {
		return boxes
	}
	out := make([]*Box, 0, len(boxes)*2-1)
	out = append(out, boxes[0])
	for i := 1; i < len(boxes); i++ {
		if glue := glueBetween(boxes[i-1].Class, boxes[i].Class, ctx); glue > 0 {
			out = append(out, newHKern(glue))
		}
		out = append(out, boxes[i])
	}
	return out
}

// Package annotate computes the provenance attributes both output trees
// carry: per-node content spans, merged style spans, active font commands,
// and stable indices. It is the one place the span-merge rules live, so the
// layout and markup builders cannot drift apart.
package annotate

import (
	"strconv"

	"texmath/internal/source"
	"texmath/internal/style"
)

// Attribute keys, namespaced under the stable s2: prefix.
const (
	AttrIndex      = "s2:index"
	AttrStart      = "s2:start"
	AttrEnd        = "s2:end"
	AttrStyleStart = "s2:style-start"
	AttrStyleEnd   = "s2:style-end"
	AttrFontMacros = "s2:font-macros"
	AttrIsOperator = "s2:is-operator"
	AttrColor      = "s2:color"
)

// Target is any output node attributes can be attached to.
type Target interface {
	SetAttr(name, value string)
	Attr(name string) (string, bool)
}

// Annotator numbers output nodes of one build pass.
type Annotator struct {
	next int
}

// New returns a fresh Annotator for one builder entry.
func New() *Annotator {
	return &Annotator{}
}

// Number assigns the next stable index to the node.
func (a *Annotator) Number(t Target) {
	t.SetAttr(AttrIndex, strconv.Itoa(a.next))
	a.next++
}

// Content sets the node's own content span. Absent locations leave the node
// unattributed rather than writing a sentinel.
func Content(t Target, loc source.Loc) {
	if !loc.OK {
		return
	}
	t.SetAttr(AttrStart, formatOffset(loc.Span.Start))
	t.SetAttr(AttrEnd, formatOffset(loc.Span.End))
}

// WidenContent merges an enclosing span into the node's existing content
// span (group flattening). The merge is min/max, so it can only widen.
// An already-computed style span widens by the same union: content must
// stay inside it.
func WidenContent(t Target, loc source.Loc) {
	if !loc.OK {
		return
	}
	merged := loc.Span
	if existing, ok := contentSpan(t); ok {
		existing.File = merged.File // атрибуты не хранят источник
		merged = merged.Cover(existing)
	}
	t.SetAttr(AttrStart, formatOffset(merged.Start))
	t.SetAttr(AttrEnd, formatOffset(merged.End))
	if sty, ok := styleSpan(t); ok {
		sty.File = merged.File
		sty = sty.Cover(merged)
		t.SetAttr(AttrStyleStart, formatOffset(sty.Start))
		t.SetAttr(AttrStyleEnd, formatOffset(sty.End))
	}
}

// StyleWrap records that a style-changing wrapper with the given location
// encloses the node. The style span is the min/max union of the wrapper's
// location and the node's already-computed content span — never the
// reverse: a wrapper must not shrink the content span of what it wraps.
// Nested wrappers union further, so the outermost one wins.
func StyleWrap(t Target, wrapperLoc source.Loc) {
	if !wrapperLoc.OK {
		return
	}
	merged := wrapperLoc.Span
	if existing, ok := styleSpan(t); ok {
		existing.File = merged.File
		merged = merged.Cover(existing)
	} else if content, ok := contentSpan(t); ok {
		content.File = merged.File
		merged = merged.Cover(content)
	}
	t.SetAttr(AttrStyleStart, formatOffset(merged.Start))
	t.SetAttr(AttrStyleEnd, formatOffset(merged.End))
}

// Fonts records the active font/style commands as of this node's build.
func Fonts(t Target, ctx style.Context) {
	if macros := ctx.FontMacros(); macros != "" {
		t.SetAttr(AttrFontMacros, macros)
	}
}

// MarkOperator flags operator-like commands (named functions).
func MarkOperator(t Target) {
	t.SetAttr(AttrIsOperator, "true")
}

func contentSpan(t Target) (source.Span, bool) {
	return readSpan(t, AttrStart, AttrEnd)
}

func styleSpan(t Target) (source.Span, bool) {
	return readSpan(t, AttrStyleStart, AttrStyleEnd)
}

func readSpan(t Target, startKey, endKey string) (source.Span, bool) {
	startStr, ok := t.Attr(startKey)
	if !ok {
		return source.Span{}, false
	}
	endStr, ok := t.Attr(endKey)
	if !ok {
		return source.Span{}, false
	}
	start, err := strconv.ParseUint(startStr, 10, 32)
	if err != nil {
		return source.Span{}, false
	}
	end, err := strconv.ParseUint(endStr, 10, 32)
	if err != nil {
		return source.Span{}, false
	}
	return source.Span{Start: uint32(start), End: uint32(end)}, true
}

func formatOffset(off uint32) string {
	return strconv.FormatUint(uint64(off), 10)
}

package style

import (
	"strings"
)

// DefaultColor is the color of unstyled output.
const DefaultColor = "black"

// ErrorColor renders error-marker nodes visually distinct.
const ErrorColor = "#cc0000"

// Context is the immutable rendering configuration threaded through both
// builder passes. Derivation methods return a modified copy; a Context is
// never mutated, so sharing one across sibling recursive calls is safe.
type Context struct {
	Style   Style
	Cramped bool

	// Font is the active math font command, without backslash: "mathcal".
	Font string
	// Text-mode font axes, set by \textrm / \textbf / \textit families.
	TextFamily string
	TextWeight string
	TextShape  string

	// Size is the em scale accumulated from style changes.
	Size  float64
	Color string
}

// Default is the Context both builders start from.
func Default() Context {
	return Context{
		Style: Text,
		Size:  1.0,
		Color: DefaultColor,
	}
}

// WithStyle returns a copy set in the given style, rescaled accordingly.
func (c Context) WithStyle(s Style) Context {
	c.Style = s
	c.Size = s.SizeMultiplier()
	return c
}

// WithCramped returns a copy with the cramped flag set.
func (c Context) WithCramped() Context {
	c.Cramped = true
	return c
}

// WithFont returns a copy with the math font command replaced.
func (c Context) WithFont(name string) Context {
	c.Font = name
	return c
}

// WithTextFamily returns a copy with the text font family replaced.
func (c Context) WithTextFamily(family string) Context {
	c.TextFamily = family
	return c
}

// WithTextWeight returns a copy with the text font weight replaced.
func (c Context) WithTextWeight(weight string) Context {
	c.TextWeight = weight
	return c
}

// WithTextShape returns a copy with the text font shape replaced.
func (c Context) WithTextShape(shape string) Context {
	c.TextShape = shape
	return c
}

// WithColor returns a copy with the color replaced.
func (c Context) WithColor(color string) Context {
	c.Color = color
	return c
}

// FontMacros joins the active font/style commands in declaration order
// (font, family, weight, shape), skipping blanks, with '&'. Empty when no
// font command is active.
func (c Context) FontMacros() string {
	parts := make([]string, 0, 4)
	for _, label := range []string{c.Font, c.TextFamily, c.TextWeight, c.TextShape} {
		if label != "" {
			parts = append(parts, "\\"+label)
		}
	}
	return strings.Join(parts, "&")
}

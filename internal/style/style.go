package style

// Style is the TeX layout style a subtree is set in.
type Style uint8

const (
	Display Style = iota
	Text
	Script
	ScriptScript
)

var styleNames = [...]string{"display", "text", "script", "scriptscript"}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "text"
}

// Sup returns the style superscripts are set in.
func (s Style) Sup() Style {
	switch s {
	case Display, Text:
		return Script
	default:
		return ScriptScript
	}
}

// Sub is the same size step as Sup; cramping is handled on the Context.
func (s Style) Sub() Style {
	return s.Sup()
}

// IsScript reports whether the style is script or scriptscript.
// Medium and thick inter-atom glue is suppressed in these styles.
func (s Style) IsScript() bool {
	return s == Script || s == ScriptScript
}

// SizeMultiplier is the em scale relative to text style.
func (s Style) SizeMultiplier() float64 {
	switch s {
	case Script:
		return 0.7
	case ScriptScript:
		return 0.5
	default:
		return 1.0
	}
}

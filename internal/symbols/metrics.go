package symbols

import (
	"sync"
	"unicode"
)

// Metric is the box geometry of one glyph, in ems at text size.
type Metric struct {
	Depth  float64
	Height float64
	Italic float64
	Skew   float64
	Width  float64
}

// DefaultRuleThickness is the standard fraction/overline rule thickness.
const DefaultRuleThickness = 0.04

// XHeight of the main font, used as the accent base height.
const XHeight = 0.431

// Metrics is the per-font glyph metric service: font → rune → Metric.
// Построена один раз, только чтение.
type Metrics struct {
	fonts map[string]map[rune]Metric
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// GetMetrics returns the process-wide metric service.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = buildMetrics()
	})
	return metrics
}

// Lookup resolves a glyph's metrics in a font. Fonts without a dedicated
// table fall back to "main"; glyphs without measured metrics get a
// shape-based estimate so layout always has a box to work with.
func (m *Metrics) Lookup(font string, r rune) Metric {
	glyphs, ok := m.fonts[font]
	if !ok {
		glyphs = m.fonts["main"]
	}
	if met, ok := glyphs[r]; ok {
		return met
	}
	return estimate(r)
}

func estimate(r rune) Metric {
	met := Metric{Height: 0.431, Width: 0.5}
	switch {
	case unicode.IsUpper(r) || unicode.IsDigit(r):
		met.Height = 0.683
		met.Width = 0.722
	case r == 'g' || r == 'j' || r == 'p' || r == 'q' || r == 'y':
		met.Depth = 0.194
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		met.Height = 0.583
		met.Depth = 0.083
		met.Width = 0.778
	}
	return met
}

func buildMetrics() *Metrics {
	main := map[rune]Metric{
		'a': {0, 0.431, 0, 0, 0.5},
		'b': {0, 0.694, 0, 0, 0.556},
		'c': {0, 0.431, 0, 0, 0.444},
		'd': {0, 0.694, 0, 0, 0.556},
		'e': {0, 0.431, 0, 0, 0.444},
		'f': {0, 0.694, 0.108, 0, 0.306},
		'g': {0.194, 0.431, 0.015, 0, 0.5},
		'h': {0, 0.694, 0, 0, 0.556},
		'i': {0, 0.659, 0, 0, 0.278},
		'j': {0.194, 0.659, 0, 0, 0.306},
		'k': {0, 0.694, 0, 0, 0.528},
		'l': {0, 0.694, 0, 0, 0.278},
		'm': {0, 0.431, 0, 0, 0.833},
		'n': {0, 0.431, 0, 0, 0.556},
		'o': {0, 0.431, 0, 0, 0.5},
		'p': {0.194, 0.431, 0, 0, 0.556},
		'q': {0.194, 0.431, 0, 0, 0.528},
		'r': {0, 0.431, 0, 0, 0.392},
		's': {0, 0.431, 0, 0, 0.394},
		't': {0, 0.615, 0, 0, 0.389},
		'u': {0, 0.431, 0, 0, 0.556},
		'v': {0, 0.431, 0.014, 0, 0.528},
		'w': {0, 0.431, 0.014, 0, 0.722},
		'x': {0, 0.431, 0, 0, 0.528},
		'y': {0.194, 0.431, 0.014, 0, 0.528},
		'z': {0, 0.431, 0, 0, 0.444},
		'0': {0, 0.644, 0, 0, 0.5},
		'1': {0, 0.644, 0, 0, 0.5},
		'2': {0, 0.644, 0, 0, 0.5},
		'3': {0, 0.644, 0, 0, 0.5},
		'4': {0, 0.644, 0, 0, 0.5},
		'5': {0, 0.644, 0, 0, 0.5},
		'6': {0, 0.644, 0, 0, 0.5},
		'7': {0, 0.644, 0, 0, 0.5},
		'8': {0, 0.644, 0, 0, 0.5},
		'9': {0, 0.644, 0, 0, 0.5},
		'+': {0.083, 0.583, 0, 0, 0.778},
		'−': {0.083, 0.583, 0, 0, 0.778},
		'=': {-0.066, 0.367, 0, 0, 0.778},
		'(': {0.25, 0.75, 0, 0, 0.389},
		')': {0.25, 0.75, 0, 0, 0.389},
		'[': {0.25, 0.75, 0, 0, 0.278},
		']': {0.25, 0.75, 0, 0, 0.278},
		',': {0.194, 0.106, 0, 0, 0.278},
		'.': {0, 0.106, 0, 0, 0.278},
		'<': {0.0391, 0.5391, 0, 0, 0.778},
		'>': {0.0391, 0.5391, 0, 0, 0.778},
		'/': {0.25, 0.75, 0, 0, 0.5},
		'′': {0, 0.563, 0, 0, 0.275},
		'∞': {0, 0.431, 0, 0, 1.0},
		'×': {0.083, 0.583, 0, 0, 0.778},
		'⋅': {-0.055, 0.306, 0, 0, 0.278},
		'±': {0.083, 0.583, 0, 0, 0.778},
		'→': {-0.011, 0.511, 0, 0, 1.0},
		'π': {0, 0.431, 0, 0, 0.57},
		'α': {0, 0.431, 0, 0, 0.64},
		'θ': {0, 0.694, 0, 0, 0.469},
		'λ': {0, 0.694, 0, 0, 0.583},
		'σ': {0, 0.431, 0, 0, 0.571},
	}
	// Italic math letters get a small italic correction on top of main.
	mathit := make(map[rune]Metric, 26)
	for r := 'a'; r <= 'z'; r++ {
		met := main[r]
		if met == (Metric{}) {
			met = estimate(r)
		}
		met.Italic += 0.05
		mathit[r] = met
	}
	return &Metrics{
		fonts: map[string]map[rune]Metric{
			"main":   main,
			"mathit": mathit,
		},
	}
}

package driver

import (
	"sort"
	"strconv"

	"texmath/internal/macro"
)

// Settings are the recognized per-render options.
type Settings struct {
	// ThrowOnError aborts the whole parse/build on the first structured
	// error. When false, an error-marker node is substituted at the point
	// of failure and parsing continues where syntactically possible.
	ThrowOnError bool
	// Macros maps macro names (without backslash) to replacement text.
	Macros map[string]string
	// ColorIsTextColor makes \color behave like \textcolor.
	ColorIsTextColor bool
	// MaxExpansionSteps bounds macro rewriting; 0 uses the default.
	MaxExpansionSteps int
	// MaxDiagnostics caps the diagnostic bag; 0 means 100.
	MaxDiagnostics int
}

func (s Settings) maxExpansionSteps() int {
	if s.MaxExpansionSteps <= 0 {
		return macro.DefaultMaxExpansionSteps
	}
	return s.MaxExpansionSteps
}

func (s Settings) maxDiagnostics() int {
	if s.MaxDiagnostics <= 0 {
		return 100
	}
	return s.MaxDiagnostics
}

// compileMacros parses user macro replacement texts into definitions.
// Bad definitions are reported by name through the returned list.
func compileMacros(defs map[string]string) (map[string]macro.Definition, []string) {
	if len(defs) == 0 {
		return nil, nil
	}
	out := make(map[string]macro.Definition, len(defs))
	var bad []string
	for name, replacement := range defs {
		def, err := macro.ParseDefinition(name, replacement)
		if err != nil {
			bad = append(bad, name)
			continue
		}
		out[name] = def
	}
	sort.Strings(bad)
	return out, bad
}

// cacheKeyFields returns the settings fields that affect rendered output,
// in deterministic order, for cache keying.
func (s Settings) cacheKeyFields() []string {
	fields := []string{
		boolKey("throw", s.ThrowOnError),
		boolKey("coloristext", s.ColorIsTextColor),
		// бюджет раскрытия решает, упадёт ли раскрытие, а потолок
		// диагностик — сколько их попадёт в сохранённый результат
		"maxexp=" + strconv.Itoa(s.maxExpansionSteps()),
		"maxdiag=" + strconv.Itoa(s.maxDiagnostics()),
	}
	names := make([]string, 0, len(s.Macros))
	for name := range s.Macros {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields = append(fields, name+"="+s.Macros[name])
	}
	return fields
}

func boolKey(name string, v bool) string {
	if v {
		return name + "=1"
	}
	return name + "=0"
}

package version_test

import (
	"testing"

	"github.com/fatih/color"

	"texmath/internal/version"
)

func TestColored_KeepsTextIntact(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if got := version.Colored(); got != version.Version {
		t.Errorf("Colored() = %q, want %q", got, version.Version)
	}
}

// Package version carries the build metadata stamped into the texmath
// binary. The variables are overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI, plain text.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var segmentColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored returns Version with the major.minor.patch segments colorized
// for terminal output. Всё после дефиса (pre-release суффикс) остаётся
// неокрашенным.
func Colored() string {
	base, suffix, hasSuffix := strings.Cut(Version, "-")
	parts := strings.Split(base, ".")
	for i, part := range parts {
		parts[i] = segmentColors[i%len(segmentColors)].Sprint(part)
	}
	out := strings.Join(parts, ".")
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}

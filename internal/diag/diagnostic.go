package diag

import (
	"fmt"

	"texmath/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Error makes a Diagnostic usable as a Go error at the driver boundary
// (Settings.ThrowOnError surfaces the first error this way).
func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s at %s: %s", d.Code.ID(), d.Severity, d.Primary, d.Message)
}

package diagfmt

import (
	"encoding/json"
	"io"

	"texmath/internal/diag"
	"texmath/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(fs.Get(span.File).Path, opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// JSON сериализует диагностики bag'а в машинный формат.
// Count всегда отражает полный bag, даже когда Max обрезает список.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	out := DiagnosticsOutput{Count: len(items)}

	for i, d := range items {
		if opts.Max > 0 && i >= opts.Max {
			break
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts),
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

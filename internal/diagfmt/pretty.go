package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"texmath/internal/diag"
	"texmath/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, fs, d.Primary, d.Severity.String(), d.Code.ID(), d.Message, opts)
		writeUnderline(w, fs, d.Primary, opts)
		if opts.ShowNotes {
			for _, note := range d.Notes {
				writeHeading(w, fs, note.Span, "note", "", note.Msg, opts)
				writeUnderline(w, fs, note.Span, opts)
			}
		}
	}
}

func writeHeading(w io.Writer, fs *source.FileSet, span source.Span, sev, code, msg string, opts PrettyOpts) {
	start, _ := fs.Resolve(span)
	path := formatPath(fs.Get(span.File).Path, opts.PathMode)

	sevText := strings.ToUpper(sev)
	if opts.Color {
		sevText = severityColor(sev).Sprint(sevText)
	}
	if code != "" {
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sevText, code, msg)
	} else {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, start.Line, start.Col, sevText, msg)
	}
}

// writeUnderline печатает строку исходника и ^~~~ под спаном.
// Ширину считаем по рунам (runewidth), а не по байтам, иначе каретка
// уезжает на не-ASCII строках.
func writeUnderline(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	start, end := fs.Resolve(span)
	file := fs.Get(span.File)
	line := file.GetLine(start.Line)
	if line == "" && start.Line == 0 {
		return
	}

	if opts.Width > 0 && runewidth.StringWidth(line) > int(opts.Width) {
		line = runewidth.Truncate(line, int(opts.Width), "…")
	}
	fmt.Fprintf(w, "  %s\n", line)

	// Колонки 1-based, в байтах; переводим префикс и спан в экранные колонки.
	prefix := sliceCols(line, 0, int(start.Col)-1)
	covered := int(end.Col) - int(start.Col)
	if end.Line != start.Line {
		covered = len(line) - int(start.Col) + 1
	}
	marked := sliceCols(line, int(start.Col)-1, int(start.Col)-1+covered)

	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
	markWidth := max(runewidth.StringWidth(marked), 1)
	marker := "^" + strings.Repeat("~", markWidth-1)
	if opts.Color {
		marker = color.New(color.FgHiRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", pad, marker)
}

func sliceCols(line string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	if from >= to {
		return ""
	}
	return line[from:to]
}

func formatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	default:
		return path
	}
}

func severityColor(sev string) *color.Color {
	switch sev {
	case "error":
		return color.New(color.FgHiRed, color.Bold)
	case "warning":
		return color.New(color.FgHiYellow, color.Bold)
	default:
		return color.New(color.FgHiCyan)
	}
}

package driver

import (
	"texmath/internal/ast"
	"texmath/internal/diag"
	"texmath/internal/lexer"
	"texmath/internal/macro"
	"texmath/internal/parser"
	"texmath/internal/source"
	"texmath/internal/token"
)

// TokenizeResult содержит результат токенизации одного источника.
type TokenizeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads a source file from disk and runs lexing plus macro
// expansion over it, collecting every produced token.
func Tokenize(path string, settings Settings) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenize(fs, id, settings)
}

// TokenizeSource tokenizes an in-memory source string.
func TokenizeSource(name string, src []byte, settings Settings) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return tokenize(fs, id, settings)
}

func tokenize(fs *source.FileSet, id source.FileID, settings Settings) (*TokenizeResult, error) {
	reporter := diag.NewBagReporter(settings.maxDiagnostics())
	ex := newExpander(fs.Get(id), settings, reporter)

	var tokens []token.Token
	for {
		tok := ex.Next()
		if tok.Kind == token.EOF {
			break
		}
		tokens = append(tokens, tok)
	}

	result := &TokenizeResult{FileSet: fs, FileID: id, Tokens: tokens, Bag: reporter.Bag}
	if settings.ThrowOnError {
		if first, ok := reporter.Bag.FirstError(); ok {
			return result, first
		}
	}
	return result, nil
}

// ParseResult содержит результат разбора одного источника.
type ParseResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Nodes   []*ast.Node
	Bag     *diag.Bag
}

// Parse loads a source file and parses it to a syntax tree.
func Parse(path string, settings Settings) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parse(fs, id, settings)
}

// ParseSource parses an in-memory source string.
func ParseSource(name string, src []byte, settings Settings) (*ParseResult, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return parse(fs, id, settings)
}

func parse(fs *source.FileSet, id source.FileID, settings Settings) (*ParseResult, error) {
	reporter := diag.NewBagReporter(settings.maxDiagnostics())
	file := fs.Get(id)
	ex := newExpander(file, settings, reporter)

	res := parser.Parse(ex, parser.Options{
		Reporter:         reporter,
		ColorIsTextColor: settings.ColorIsTextColor,
	})

	result := &ParseResult{FileSet: fs, FileID: id, Nodes: res.Nodes, Bag: reporter.Bag}
	if settings.ThrowOnError {
		if first, ok := reporter.Bag.FirstError(); ok {
			return result, first
		}
	}
	return result, nil
}

func newExpander(file *source.File, settings Settings, reporter diag.Reporter) *macro.Expander {
	defs, bad := compileMacros(settings.Macros)
	for _, name := range bad {
		diag.ReportError(reporter, diag.MacBadDefinition,
			source.Span{File: file.ID}, "bad replacement text for macro \\"+name).Emit()
	}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	return macro.New(lx, macro.Options{
		Macros:            defs,
		MaxExpansionSteps: settings.MaxExpansionSteps,
		Reporter:          reporter,
	})
}

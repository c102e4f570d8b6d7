package parser

import (
	"sync"

	"texmath/internal/ast"
	"texmath/internal/source"
	"texmath/internal/token"
)

// Call carries everything a command handler needs: the introducing token,
// its span widened over whitespace skipped while fetching arguments, and the
// parsed arguments.
type Call struct {
	Cmd   token.Token
	Intro source.Span
	Args  []*ast.Node
	Color string
}

// Spec describes one typesetting command to the parser.
type Spec struct {
	// NumArgs is the required argument count, the color argument included.
	NumArgs int
	// ArgModes gives the lexical mode each argument is parsed in; nil or a
	// zero entry inherits the current mode.
	ArgModes []ast.Mode
	// Greediness resolves whether this command may appear брace-less as an
	// implicit argument of another command: the inner command wins when its
	// greediness is strictly higher than the outer's.
	Greediness int
	// AllowedInText permits the command outside math mode.
	AllowedInText bool
	// ColorFirstArg makes the first argument a raw color string.
	ColorFirstArg bool

	Handle func(p *Parser, call Call) *ast.Node
}

var (
	functionsOnce sync.Once
	functions     map[string]Spec
)

// LookupFunction resolves a command name (without backslash).
func LookupFunction(name string) (Spec, bool) {
	functionsOnce.Do(func() {
		functions = buildFunctions()
	})
	s, ok := functions[name]
	return s, ok
}

func buildFunctions() map[string]Spec {
	fns := make(map[string]Spec, 64)

	// Font-style switches: contribute Context only, no extra boxes.
	for _, name := range []string{
		"mathrm", "mathbf", "mathit", "mathcal", "mathbb",
		"mathsf", "mathtt", "mathfrak",
	} {
		fns[name] = Spec{
			NumArgs:    1,
			Greediness: 2,
			Handle:     handleFont,
		}
	}

	// \boldsymbol keeps the wrapped atom's spacing class.
	fns["boldsymbol"] = Spec{
		NumArgs:    1,
		Greediness: 2,
		Handle: func(p *Parser, call Call) *ast.Node {
			return &ast.Node{
				Kind:       ast.KindClass,
				Mode:       p.mode,
				InferClass: true,
				Command:    call.Cmd.Name(),
				Arg: &ast.Node{
					Kind:    ast.KindFont,
					Mode:    p.mode,
					Command: call.Cmd.Name(),
					Arg:     call.Args[0],
					Loc:     call.Args[0].Loc,
				},
			}
		},
	}

	// Text wrappers: argument is tokenized in text mode.
	for _, name := range []string{
		"text", "textrm", "textbf", "textit", "textsf", "texttt", "textnormal",
	} {
		fns[name] = Spec{
			NumArgs:       1,
			ArgModes:      []ast.Mode{ast.TextMode},
			Greediness:    2,
			AllowedInText: true,
			Handle:        handleText,
		}
	}

	// Over-accents.
	for _, name := range []string{"overline", "bar", "hat", "vec", "tilde", "dot"} {
		fns[name] = Spec{
			NumArgs:    1,
			Greediness: 1,
			Handle: func(p *Parser, call Call) *ast.Node {
				return &ast.Node{
					Kind:    ast.KindAccent,
					Mode:    p.mode,
					Command: call.Cmd.Name(),
					Arg:     call.Args[0],
				}
			},
		}
	}

	// Explicit math-class wrappers.
	classCommands := map[string]ast.AtomClass{
		"mathord":   ast.ClassOrd,
		"mathop":    ast.ClassOp,
		"mathbin":   ast.ClassBin,
		"mathrel":   ast.ClassRel,
		"mathopen":  ast.ClassOpen,
		"mathclose": ast.ClassClose,
		"mathpunct": ast.ClassPunct,
		"mathinner": ast.ClassInner,
	}
	for name, class := range classCommands {
		cls := class
		fns[name] = Spec{
			NumArgs:    1,
			Greediness: 1,
			Handle: func(p *Parser, call Call) *ast.Node {
				return &ast.Node{
					Kind:    ast.KindClass,
					Mode:    p.mode,
					Class:   cls,
					Command: call.Cmd.Name(),
					Arg:     call.Args[0],
				}
			},
		}
	}

	// Named operator-like functions.
	for _, name := range []string{
		"sin", "cos", "tan", "cot", "sec", "csc",
		"arcsin", "arccos", "arctan",
		"sinh", "cosh", "tanh",
		"log", "ln", "lg", "exp", "det", "dim",
		"lim", "max", "min", "sup", "inf", "arg", "gcd",
	} {
		fns[name] = Spec{
			Handle: func(p *Parser, call Call) *ast.Node {
				return &ast.Node{
					Kind: ast.KindOp,
					Mode: p.mode,
					Text: call.Cmd.Name(),
				}
			},
		}
	}

	// Color.
	fns["textcolor"] = Spec{
		NumArgs:       2,
		Greediness:    3,
		AllowedInText: true,
		ColorFirstArg: true,
		Handle:        handleTextColor,
	}
	fns["color"] = Spec{
		NumArgs:       1,
		Greediness:    3,
		AllowedInText: true,
		ColorFirstArg: true,
		Handle:        handleColor,
	}

	return fns
}

func handleFont(p *Parser, call Call) *ast.Node {
	return &ast.Node{
		Kind:    ast.KindFont,
		Mode:    p.mode,
		Command: call.Cmd.Name(),
		Arg:     call.Args[0],
	}
}

func handleText(p *Parser, call Call) *ast.Node {
	arg := call.Args[0]
	body := []*ast.Node{arg}
	if arg.Kind == ast.KindOrdGroup {
		body = arg.Body
	}
	return &ast.Node{
		Kind:    ast.KindText,
		Mode:    p.mode,
		Command: call.Cmd.Name(),
		Body:    body,
	}
}

func handleTextColor(p *Parser, call Call) *ast.Node {
	return &ast.Node{
		Kind:    ast.KindColor,
		Mode:    p.mode,
		Command: call.Cmd.Name(),
		Text:    call.Color,
		Body:    []*ast.Node{call.Args[1]},
	}
}

// handleColor: классический \color красит остаток группы; с
// ColorIsTextColor ведёт себя как \textcolor.
func handleColor(p *Parser, call Call) *ast.Node {
	var body []*ast.Node
	if p.opts.ColorIsTextColor {
		arg := p.parseArgument(p.mode, 3, &call.Intro)
		if arg == nil {
			arg = p.errorNode(call.Intro, "missing \\color body")
		}
		body = []*ast.Node{arg}
	} else {
		body = p.parseExpression(nil)
	}

	loc := source.At(call.Intro)
	for _, child := range body {
		if child.Loc.OK {
			loc = loc.Cover(child.Loc)
		}
	}
	return &ast.Node{
		Kind:    ast.KindColor,
		Mode:    p.mode,
		Command: call.Cmd.Name(),
		Text:    call.Color,
		Body:    body,
		Loc:     loc,
	}
}

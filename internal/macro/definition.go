package macro

import (
	"fmt"
	"strconv"

	"texmath/internal/lexer"
	"texmath/internal/source"
	"texmath/internal/token"
)

// Piece is one element of a macro body: either a literal token or a
// parameter reference (#1..#9).
type Piece struct {
	Tok   token.Token
	Param int // 0 = literal, 1-based otherwise
}

// Definition is a named macro with a tokenized replacement body.
type Definition struct {
	Name    string
	NumArgs int
	Body    []Piece
}

// ParseDefinition tokenizes a replacement text into a Definition.
// `#n` in the body is a parameter reference; NumArgs is the highest
// parameter index mentioned. Spans of body tokens are discarded at
// expansion time, so the throwaway source here never leaks.
func ParseDefinition(name, replacement string) (Definition, error) {
	file := &source.File{ID: 0, Content: []byte(replacement)}
	lx := lexer.New(file, lexer.Options{})

	def := Definition{Name: name}
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.Invalid {
			return Definition{}, fmt.Errorf("macro %q: malformed replacement text", name)
		}
		if tok.Kind == token.Char && tok.Text == "#" {
			digit := lx.Next()
			if digit.Kind != token.Char || len(digit.Text) != 1 || digit.Text[0] < '1' || digit.Text[0] > '9' {
				return Definition{}, fmt.Errorf("macro %q: bad parameter reference after #", name)
			}
			n, _ := strconv.Atoi(digit.Text)
			if n > def.NumArgs {
				def.NumArgs = n
			}
			def.Body = append(def.Body, Piece{Param: n})
			continue
		}
		def.Body = append(def.Body, Piece{Tok: tok})
	}
	return def, nil
}

// MustDefine is ParseDefinition for static tables; panics on a bad body.
func MustDefine(name, replacement string) Definition {
	def, err := ParseDefinition(name, replacement)
	if err != nil {
		panic(err)
	}
	return def
}

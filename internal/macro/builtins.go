package macro

// Builtins are always-available macros. User definitions with the same name
// shadow them.
var builtins = map[string]Definition{
	"R":       MustDefine("R", `\mathbb{R}`),
	"N":       MustDefine("N", `\mathbb{N}`),
	"Z":       MustDefine("Z", `\mathbb{Z}`),
	"Q":       MustDefine("Q", `\mathbb{Q}`),
	"C":       MustDefine("C", `\mathbb{C}`),
	"bold":    MustDefine("bold", `\mathbf{#1}`),
	"degree":  MustDefine("degree", `^\circ`),
	"implies": MustDefine("implies", `\Longrightarrow`),
	"iff":     MustDefine("iff", `\Longleftrightarrow`),
}

// Builtins returns a copy of the builtin macro table.
func Builtins() map[string]Definition {
	out := make(map[string]Definition, len(builtins))
	for k, v := range builtins {
		out[k] = v
	}
	return out
}

package lexer

import (
	"texmath/internal/diag"
	"texmath/internal/source"
)

type Options struct {
	// Reporter может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	Reporter diag.Reporter
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}

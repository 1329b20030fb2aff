package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jfxcore/compiler/internal/pipeline"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
)

// printer writes one line per reference, colored only on a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(f *os.File) *printer {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &printer{w: f, color: tty && os.Getenv("NO_COLOR") == ""}
}

func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

func (p *printer) unit(ctx *pipeline.PipelineContext) {
	fmt.Fprintln(p.w, p.paint(ansiDim, "# "+ctx.Unit.Name))
	for _, err := range ctx.Errors {
		if err.Source.Line == 0 {
			fmt.Fprintf(p.w, "%s %s\n", p.paint(ansiRed, "error"), err)
		}
	}
	for _, res := range ctx.Results {
		p.result(res)
	}
}

func (p *printer) result(res pipeline.Result) {
	if !res.OK() {
		fmt.Fprintf(p.w, "%s %s %s: %s\n", p.paint(ansiRed, "error"), res.Reference.Kind(), res.Reference, res.Err)
		return
	}
	fmt.Fprintf(p.w, "%s    %s %s: %s\n", p.paint(ansiGreen, "ok"), res.Reference.Kind(), res.Reference, res.Summary())
}

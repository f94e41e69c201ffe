package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/grimdork/climate/cfmt"
)

type painter bool

func (p painter) paint(code, s string) string {
	if !p {
		return s
	}
	return code + s + cfmt.Reset
}

// Render writes err to w in a readable form.
// A List prints its stage banner once, then every error with its line excerpt.
// Errors that don't come from the assembler are written as-is.
func Render(w io.Writer, err error, colour bool) {
	if err == nil {
		return
	}
	p := painter(colour)

	var list List
	var single *Error
	switch {
	case errors.As(err, &list):
	case errors.As(err, &single):
		list = List{single}
	default:
		fmt.Fprintln(w, p.paint(cfmt.Red, "error: ")+err.Error())
		return
	}

	var stage Stage = -1
	for _, e := range list {
		if s := e.Kind.Stage(); s != stage {
			stage = s
			fmt.Fprintln(w, p.paint(cfmt.Bold+cfmt.Red, s.Banner()))
		}
		renderOne(w, e, p)
	}
}

func renderOne(w io.Writer, e *Error, p painter) {
	fmt.Fprintf(w, "%s %s", p.paint(cfmt.Red, e.Kind.String()+":"), e.Kind.Message())
	if e.Detail != "" {
		fmt.Fprintf(w, " (%s)", e.Detail)
	}
	fmt.Fprintln(w)

	if e.Ctx.File != "" || e.Ctx.LineNumber > 0 {
		fmt.Fprintln(w, p.paint(cfmt.Cyan, fmt.Sprintf("  --> %s:%d", e.Ctx.File, e.Ctx.LineNumber)))
	}
	if e.Ctx.Line != "" {
		gutter := fmt.Sprintf("%4d | ", e.Ctx.LineNumber)
		fmt.Fprintln(w, p.paint(cfmt.Fuzzy, gutter)+e.Ctx.Line)
		if col := column(e.Ctx); col >= 0 {
			pad := strings.Repeat(" ", len(gutter)+col)
			width := max(1, len(e.Ctx.Word))
			fmt.Fprintln(w, pad+p.paint(cfmt.Red, strings.Repeat("^", width)))
		}
	}
	if e.IsBug() {
		fmt.Fprintln(w, p.paint(cfmt.Fuzzy, "  raised at "+e.Origin.String()))
	}
}

// column finds where the word sits in the line when the context doesn't say.
func column(c Context) int {
	if c.Word == "" {
		return -1
	}
	if c.Column >= 0 && c.Column+len(c.Word) <= len(c.Line) && c.Line[c.Column:c.Column+len(c.Word)] == c.Word {
		return c.Column
	}
	return strings.Index(c.Line, c.Word)
}

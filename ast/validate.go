package ast

import (
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// Validate checks that every token may appear under its parent.
// Inside a macro call only the expanded body is checked.
func Validate(root *Ref) diag.List {
	var errs diag.List
	var walk func(r *Ref)
	walk = func(r *Ref) {
		for _, c := range r.Children() {
			if r.Kind() == lex.MacroCall && c.Kind() != lex.MacroBody {
				continue
			}
			if !c.Kind().ValidUnder(r.Kind()) {
				errs.Add(diag.Newf(diag.InvalidParent, c.Context(), "%v under %v", c.Kind(), r.Kind()))
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return errs
}

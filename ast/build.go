package ast

import (
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
	"github.com/Urethramancer/gbasm/parse"
	"github.com/Urethramancer/gbasm/source"
)

type builder struct {
	ast    *Ast
	macros *Macros
	sel    int
	errs   diag.List
}

// Build folds the parsed tokens into a tree. Macro declarations and calls are
// recorded in the returned Macros for Expand.
func Build(parsed []parse.Parsed, src *source.Source) (*Ast, *Macros, diag.List) {
	a := newAst(src)
	b := &builder{ast: a, macros: &Macros{}}

	if len(parsed) == 0 {
		b.errs.Add(diag.New(diag.NoTokens, diag.Context{Kind: lex.Root, File: src.Main().Name, Column: -1}))
		return a, b.macros, b.errs
	}

	file, line := "", -1
	for _, p := range parsed {
		// A mark takes exactly one literal, then closes with its marker.
		if k := a.kindOf(b.sel); (k == lex.AnonMark || k == lex.NamedMark) && len(a.Tokens[b.sel].Children) == 1 {
			b.up()
			b.up()
		}

		if p.Src.LineNumber != line || p.Src.File != file {
			file, line = p.Src.File, p.Src.LineNumber
			if !b.newline() {
				return a, b.macros, b.errs
			}
		}
		b.token(fromParsed(p))
	}

	if b.newline() && b.inDecl() {
		b.errs.Add(diag.New(diag.UnclosedMacro, a.Tokens[b.declOf()].Context()))
	}
	return a, b.macros, b.errs
}

func (b *builder) up() { b.sel = b.ast.parentOf(b.sel) }

func (b *builder) selKind() lex.Kind { return b.ast.kindOf(b.sel) }

// inDecl reports whether the selection is inside a macro declaration.
func (b *builder) inDecl() bool {
	return b.selKind() == lex.Macro || b.ast.ancestor(b.sel, lex.Macro)
}

func (b *builder) declOf() int {
	i := b.sel
	for n := 0; n < diag.MaxIterations && b.ast.kindOf(i) != lex.Macro && i != 0; n++ {
		i = b.ast.parentOf(i)
	}
	return i
}

// newline closes every selected token that ends with its line.
// It returns false when the tree can't be built any further.
func (b *builder) newline() bool {
	a := b.ast
	for n := 0; ; n++ {
		if n >= diag.MaxIterations {
			b.errs.Add(diag.Newf(diag.IterationLimit, a.Tokens[b.sel].Context(), "closing line"))
			return false
		}

		t := a.Tokens[b.sel]
		if !t.Kind.EndsOnNewline() {
			return true
		}

		switch t.Kind {
		case lex.Macro:
			// The body starts on the line after the declaration.
			b.sel = a.push(b.sel, wrapper(lex.MacroBody, *t))
			return true

		case lex.At:
			b.errs.Add(diag.New(diag.UnmatchedParen, t.Context()))

		case lex.NamedMark, lex.AnonMark:
			if len(t.Children) == 0 {
				b.errs.Add(diag.New(diag.MarkWithoutLiteral, t.Context()))
			}

		case lex.Expr:
			b.errs = append(b.errs, buildExpr(a, b.sel)...)
		}
		b.up()
	}
}

// token inserts t and moves the selection.
func (b *builder) token(t Token) {
	a := b.ast

	switch parent := t.Kind.Parent(); parent {
	case lex.InstrName:
		pushed := a.cascade(b.sel, []lex.Kind{lex.Instruction, lex.InstrName}, t)
		b.sel = pushed[0]
		return

	case lex.Register, lex.Flag, lex.Lit:
		b.operand(t, []lex.Kind{parent})
		return
	}

	switch t.Kind {
	case lex.Identifier:
		if b.selKind() == lex.DefB || b.selKind() == lex.DefW {
			a.push(b.sel, t)
			b.sel = a.push(b.sel, wrapper(lex.Expr, t))
			return
		}
		b.operand(t, nil)

	case lex.MacroArg:
		if b.selKind() == lex.Argument {
			b.up()
		}
		a.push(b.sel, t)

	case lex.At0:
		at := wrapper(lex.At, t)
		at.Word, at.Column = t.Word, t.Column
		if b.selKind() == lex.Argument {
			b.up()
		}
		if b.selKind() == lex.Instruction {
			b.sel = a.cascade(b.sel, []lex.Kind{lex.Argument}, at)[1]
		} else {
			b.sel = a.push(b.sel, at)
		}

	case lex.At1:
		if b.selKind() != lex.At {
			b.errs.Add(diag.New(diag.UnmatchedParen, t.Context()))
			return
		}
		b.up()

	case lex.Macro:
		if b.selKind() == lex.MacroBody {
			// Closes the body and the declaration.
			b.up()
			b.up()
			return
		}
		b.sel = a.push(b.sel, t)
		b.macros.Decls = append(b.macros.Decls, b.sel)

	case lex.MacroIdent:
		switch b.selKind() {
		case lex.Macro, lex.MacroCall:
			a.push(b.sel, t)
		default:
			b.call(t)
		}

	case lex.Repeat:
		b.call(t)

	case lex.DefB, lex.DefW, lex.Include, lex.Import, lex.AnonMark, lex.NamedMark:
		b.sel = a.cascade(b.sel, []lex.Kind{t.Kind.Parent()}, t)[1]

	case lex.Label:
		a.cascade(b.sel, []lex.Kind{lex.Marker}, t)

	default:
		a.push(b.sel, t)
	}
}

// operand places a register, flag, literal or identifier, wrapping it in an
// Argument inside instructions.
func (b *builder) operand(t Token, wrappers []lex.Kind) {
	a := b.ast
	if b.selKind() == lex.Argument {
		b.up()
	}

	if b.selKind() == lex.Instruction {
		a.cascade(b.sel, append([]lex.Kind{lex.Argument}, wrappers...), t)
		return
	}

	a.cascade(b.sel, wrappers, t)
	if k := b.selKind(); k == lex.AnonMark || k == lex.NamedMark {
		// Close the mark and its marker.
		b.up()
		b.up()
	}
}

// call opens a macro call. Calls inside declarations are found when the
// declaration is expanded.
func (b *builder) call(t Token) {
	a := b.ast
	c := wrapper(lex.MacroCall, t)
	c.Word, c.Column = t.Word, t.Column
	inDecl := b.inDecl()
	b.sel = a.push(b.sel, c)
	a.push(b.sel, t)
	if !inDecl {
		b.macros.Calls = append(b.macros.Calls, b.sel)
	}
}

package ast

import (
	"slices"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// Macros records the positions of macro declarations and calls in the tree.
type Macros struct {
	Decls []int
	Calls []int
}

type decl struct {
	index int
	name  string
	args  []string
	body  int
}

// pendingCall is a call waiting for expansion, with the macros it expands inside.
type pendingCall struct {
	index int
	chain []string
}

// Expand replaces every call with a copy of its declaration's body, arguments
// substituted, then disconnects the declarations from the tree.
// Nothing is expanded when a declaration is malformed.
func (m *Macros) Expand(a *Ast) diag.List {
	decls, errs := m.declarations(a)
	if len(errs) > 0 {
		return errs
	}

	queue := make([]pendingCall, 0, len(m.Calls))
	for _, c := range m.Calls {
		queue = append(queue, pendingCall{index: c})
	}

	for len(queue) > 0 {
		pc := queue[0]
		queue = queue[1:]

		x := &expansion{ast: a, decls: decls, call: pc.index, chain: pc.chain}
		x.run()
		errs = append(errs, x.errs...)
		queue = append(queue, x.nested...)
		if errs.HasBug() {
			return errs
		}
	}

	for _, d := range m.Decls {
		a.detach(d)
	}
	return errs
}

// declarations checks every declaration and indexes them by name.
func (m *Macros) declarations(a *Ast) (map[string]decl, diag.List) {
	var errs diag.List
	decls := make(map[string]decl, len(m.Decls))

	for _, i := range m.Decls {
		t := a.Tokens[i]
		ctx := t.Context()
		n := len(t.Children)
		if n == 0 {
			errs.Add(diag.New(diag.NoDeclIdent, ctx))
			continue
		}

		ident := a.Tokens[t.Children[0]]
		if ident.Kind != lex.MacroIdent {
			errs.Add(diag.New(diag.NoDeclIdent, ident.Context()))
			continue
		}

		body := a.Tokens[t.Children[n-1]]
		if n < 2 || body.Kind != lex.MacroBody {
			errs.Add(diag.New(diag.NoDeclBody, ctx))
			continue
		}

		d := decl{index: i, name: ident.Value.Text, body: body.Index}
		for _, c := range t.Children[1 : n-1] {
			arg := a.Tokens[c]
			if arg.Kind != lex.MacroArg {
				errs.Add(diag.New(diag.BadDeclToken, arg.Context()))
				continue
			}
			if slices.Contains(d.args, arg.Value.Text) {
				errs.Add(diag.Newf(diag.BadDecl, arg.Context(), "argument %s declared twice", arg.Value.Text))
				continue
			}
			d.args = append(d.args, arg.Value.Text)
		}

		if _, dup := decls[d.name]; dup {
			errs.Add(diag.New(diag.DuplicateMacro, ident.Context()))
			continue
		}
		decls[d.name] = d
	}
	return decls, errs
}

// expansion copies one declaration body into one call.
type expansion struct {
	ast    *Ast
	decls  map[string]decl
	call   int
	chain  []string
	stamp  *Token
	args   []int
	d      decl
	nested []pendingCall
	errs   diag.List
}

func (x *expansion) run() {
	a := x.ast
	call := a.Tokens[x.call]
	x.stamp = call

	repeat, identAt := 1, 0
	if len(call.Children) > 0 && a.kindOf(call.Children[0]) == lex.Repeat {
		repeat = int(a.Tokens[call.Children[0]].Value.Num)
		identAt = 1
	}
	if identAt >= len(call.Children) || a.kindOf(call.Children[identAt]) != lex.MacroIdent {
		x.errs.Add(diag.New(diag.NoCallIdent, call.Context()))
		return
	}

	ident := a.Tokens[call.Children[identAt]]
	d, ok := x.decls[ident.Value.Text]
	if !ok {
		x.errs.Add(diag.New(diag.DeclNotFound, ident.Context()))
		return
	}
	if slices.Contains(x.chain, d.name) || len(x.chain) >= diag.MaxIterations {
		x.errs.Add(diag.Newf(diag.RecursiveMacro, ident.Context(), "%s calls itself", d.name))
		return
	}

	x.d = d
	x.args = slices.Clone(call.Children[identAt+1:])
	if len(x.args) != len(d.args) {
		x.errs.Add(diag.Newf(diag.ArgCountMismatch, ident.Context(), "%s takes %d, got %d", d.name, len(d.args), len(x.args)))
		return
	}

	body := x.stamped(wrapper(lex.MacroBody, *call))
	dest := a.push(x.call, body)
	for range repeat {
		for _, c := range slices.Clone(a.Tokens[d.body].Children) {
			x.copy(c, dest, 0, false)
		}
	}
}

// stamped gives a token the location of the call so diagnostics point there.
func (x *expansion) stamped(t Token) Token {
	t.File = x.stamp.File
	t.LineNumber = x.stamp.LineNumber
	t.Line = x.stamp.Line
	t.Word = x.stamp.Word
	t.Column = x.stamp.Column
	return t
}

// copy duplicates src under dest, substituting macro arguments. Tokens taken
// from the call's arguments are stamped with the call site; the rest keep
// their place in the declaration.
func (x *expansion) copy(src, dest, depth int, stamp bool) {
	a := x.ast
	if depth >= diag.MaxIterations {
		x.errs.Add(diag.Bug("macro body nested deeper than %d", diag.MaxIterations))
		return
	}

	t := a.Tokens[src]
	if t.Kind == lex.MacroArg {
		at := slices.Index(x.d.args, t.Value.Text)
		if at < 0 {
			x.errs.Add(diag.Newf(diag.ArgNotFound, x.stamp.Context(), "%s has no argument %s", x.d.name, t.Value.Text))
			return
		}
		if a.kindOf(dest) == lex.Instruction {
			dest = a.push(dest, x.stamped(wrapper(lex.Argument, *t)))
		}
		x.copy(x.args[at], dest, depth+1, true)
		return
	}

	n := Token{
		Kind:       t.Kind,
		File:       t.File,
		LineNumber: t.LineNumber,
		Line:       t.Line,
		Word:       t.Word,
		Column:     t.Column,
		Value:      t.Value,
	}
	if stamp {
		n = x.stamped(n)
	}
	i := a.push(dest, n)
	if t.Kind == lex.MacroCall {
		x.nested = append(x.nested, pendingCall{index: i, chain: append(slices.Clone(x.chain), x.d.name)})
	}
	for _, c := range slices.Clone(t.Children) {
		x.copy(c, i, depth+1, stamp)
	}
}

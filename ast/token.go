// Package ast folds parsed tokens into a tree, builds expressions,
// expands macros and checks the tree's structure.
package ast

import (
	"slices"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
	"github.com/Urethramancer/gbasm/parse"
	"github.com/Urethramancer/gbasm/source"
)

// Token is a node of the tree. Links are indices into Ast.Tokens.
type Token struct {
	Kind       lex.Kind
	File       string
	LineNumber int
	Line       string
	Word       string
	Column     int
	Value      lex.Value
	Index      int
	Parent     int
	Children   []int
}

// Context describes the token for diagnostics.
func (t *Token) Context() diag.Context {
	return diag.Context{
		Kind:       t.Kind,
		File:       t.File,
		LineNumber: t.LineNumber,
		Line:       t.Line,
		Word:       t.Word,
		Column:     t.Column,
	}
}

// Ast owns every token. Tokens[0] is the root.
type Ast struct {
	Source *source.Source
	Tokens []*Token
}

func newAst(src *source.Source) *Ast {
	return &Ast{
		Source: src,
		Tokens: []*Token{{Kind: lex.Root, Column: -1}},
	}
}

// Root returns the root token.
func (a *Ast) Root() *Token { return a.Tokens[0] }

func (a *Ast) kindOf(i int) lex.Kind { return a.Tokens[i].Kind }

func (a *Ast) parentOf(i int) int { return a.Tokens[i].Parent }

// push appends t as the last child of dest and returns its index.
func (a *Ast) push(dest int, t Token) int {
	t.Index = len(a.Tokens)
	t.Parent = dest
	t.Children = nil
	a.Tokens = append(a.Tokens, &t)
	a.Tokens[dest].Children = append(a.Tokens[dest].Children, t.Index)
	return t.Index
}

// cascade pushes empty wrappers of the given kinds, each inside the previous one,
// then t inside the last. It returns the indices pushed, outermost first.
func (a *Ast) cascade(dest int, wrappers []lex.Kind, t Token) []int {
	pushed := make([]int, 0, len(wrappers)+1)
	for _, k := range wrappers {
		dest = a.push(dest, wrapper(k, t))
		pushed = append(pushed, dest)
	}
	return append(pushed, a.push(dest, t))
}

// wrapper is an empty token of kind k carrying the location of t.
func wrapper(k lex.Kind, t Token) Token {
	return Token{
		Kind:       k,
		File:       t.File,
		LineNumber: t.LineNumber,
		Line:       t.Line,
		Column:     -1,
	}
}

func fromParsed(p parse.Parsed) Token {
	return Token{
		Kind:       p.Kind,
		File:       p.Src.File,
		LineNumber: p.Src.LineNumber,
		Line:       p.Src.Line,
		Word:       p.Src.Value,
		Column:     p.Src.Column,
		Value:      p.Value,
	}
}

// leftOf returns the sibling before i, or -1.
func (a *Ast) leftOf(i int) int {
	siblings := a.Tokens[a.parentOf(i)].Children
	at := slices.Index(siblings, i)
	if at <= 0 {
		return -1
	}
	return siblings[at-1]
}

// rightOf returns the sibling after i, or -1.
func (a *Ast) rightOf(i int) int {
	siblings := a.Tokens[a.parentOf(i)].Children
	at := slices.Index(siblings, i)
	if at < 0 || at+1 >= len(siblings) {
		return -1
	}
	return siblings[at+1]
}

// moveInto detaches i from its parent and appends it to dest.
func (a *Ast) moveInto(i, dest int) {
	a.detach(i)
	a.Tokens[i].Parent = dest
	a.Tokens[dest].Children = append(a.Tokens[dest].Children, i)
}

// detach removes i from its parent's children. The token keeps pointing at
// itself so no child list claims it.
func (a *Ast) detach(i int) {
	p := a.Tokens[a.parentOf(i)]
	p.Children = slices.DeleteFunc(p.Children, func(c int) bool { return c == i })
	a.Tokens[i].Parent = i
}

// ancestor reports whether any ancestor of i, i excluded, has kind k.
func (a *Ast) ancestor(i int, k lex.Kind) bool {
	for n := 0; i != 0 && n < diag.MaxIterations; n++ {
		i = a.parentOf(i)
		if a.kindOf(i) == k {
			return true
		}
	}
	return false
}

// isEmptyOperator reports whether i is an operator that has not taken its operands yet.
func (a *Ast) isEmptyOperator(i int) bool {
	t := a.Tokens[i]
	return t.Kind.IsOperator() && len(t.Children) == 0
}

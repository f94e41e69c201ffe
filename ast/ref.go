package ast

import (
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// Ref is a read-only view of a token and its subtree, built once the tree is final.
// There is one Ref per reachable token, so two Refs are equal only when they
// point at the same token.
type Ref struct {
	tok      *Token
	parent   *Ref
	children []*Ref
	at       int
}

// Refs mirrors the tree reachable from the root and returns the root's view.
// Disconnected tokens, such as macro declarations, are left out.
func Refs(a *Ast) *Ref {
	root := &Ref{tok: a.Root()}
	root.parent = root
	stack := []*Ref{root}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r.children = make([]*Ref, len(r.tok.Children))
		for i, c := range r.tok.Children {
			child := &Ref{tok: a.Tokens[c], parent: r, at: i}
			r.children[i] = child
			stack = append(stack, child)
		}
	}
	return root
}

// Token returns the underlying token. It must not be modified.
func (r *Ref) Token() *Token { return r.tok }

func (r *Ref) Kind() lex.Kind { return r.tok.Kind }

func (r *Ref) Value() lex.Value { return r.tok.Value }

func (r *Ref) Index() int { return r.tok.Index }

func (r *Ref) Parent() *Ref { return r.parent }

func (r *Ref) Children() []*Ref { return r.children }

func (r *Ref) Len() int { return len(r.children) }

func (r *Ref) Context() diag.Context { return r.tok.Context() }

// TryGet returns child i.
func (r *Ref) TryGet(i int) (*Ref, bool) {
	if i < 0 || i >= len(r.children) {
		return nil, false
	}
	return r.children[i], true
}

// Get returns child i, or nil.
func (r *Ref) Get(i int) *Ref {
	c, _ := r.TryGet(i)
	return c
}

// First returns the first child, or nil.
func (r *Ref) First() *Ref { return r.Get(0) }

// Leaf follows first children down to a token without children.
func (r *Ref) Leaf() *Ref {
	for r.First() != nil {
		r = r.First()
	}
	return r
}

// FirstOf returns the first child of kind k, or nil.
func (r *Ref) FirstOf(k lex.Kind) *Ref {
	for _, c := range r.children {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// Right returns the next sibling, or nil.
func (r *Ref) Right() *Ref {
	if r.parent == r {
		return nil
	}
	return r.parent.Get(r.at + 1)
}

// Walk calls fn on every descendant of r in tree order. Returning false skips
// the descendant's children.
func (r *Ref) Walk(fn func(*Ref) bool) {
	for _, c := range r.children {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

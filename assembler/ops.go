package assembler

import (
	"strings"

	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// OpMap holds the encoding chosen for every instruction, keyed by token index.
type OpMap map[int]OpCode

// Resolve picks an encoding for every instruction node.
func (t Table) Resolve(ns []Node) (OpMap, diag.List) {
	var errs diag.List
	ops := make(OpMap)
	for _, n := range ns {
		if n.Type != NodeInstruction {
			continue
		}
		args := n.Arguments()
		e, ok := t.Lookup(n.Mnemonic(), args)
		if !ok {
			errs.Add(diag.Newf(diag.NotFound, nameContext(n), "%s", describe(n.Mnemonic(), args)))
			continue
		}
		ops[n.Ref.Index()] = e.Op
	}
	return ops, errs
}

// nameContext points at the mnemonic, whose word is known, rather than at the wrapper.
func nameContext(n Node) diag.Context {
	if name := n.Ref.FirstOf(lex.InstrName); name != nil && name.First() != nil {
		return name.First().Context()
	}
	return n.Ref.Context()
}

// describe renders an instruction the way the table is written, e.g. "Ld A (Hl)".
func describe(mn lex.Kind, args []*ast.Ref) string {
	parts := []string{mn.String()}
	for _, a := range args {
		parts = append(parts, describeValue(a.First()))
	}
	return strings.Join(parts, " ")
}

func describeValue(r *ast.Ref) string {
	if r == nil {
		return "?"
	}
	switch r.Kind() {
	case lex.At:
		return "(" + describeValue(r.First()) + ")"
	case lex.Lit:
		if leaf := r.Leaf(); leaf.Kind().IsNumber() {
			if leaf.Value().Num > 0xFF {
				return "nn"
			}
			return "n"
		}
		return "str"
	case lex.Identifier:
		return r.Value().Text
	}
	return r.Leaf().Kind().String()
}

package ast

import (
	"slices"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// precedence lists operator classes from tightest to loosest.
var precedence = [][]lex.Kind{
	{lex.UnNot, lex.UnNeg},
	{lex.BinMul, lex.BinDiv, lex.BinMod},
	{lex.BinAdd, lex.BinSub},
	{lex.BinShl, lex.BinShr},
	{lex.BinAnd, lex.BinXor, lex.BinOr},
}

// buildExpr moves operands under their operators in the scope's children,
// nested parens first.
func buildExpr(a *Ast, scope int) diag.List {
	return buildScope(a, scope, 0)
}

func buildScope(a *Ast, scope, depth int) diag.List {
	if depth >= diag.MaxIterations {
		return diag.List{diag.Newf(diag.IterationLimit, a.Tokens[scope].Context(), "nested parens")}
	}

	var errs diag.List
	for _, c := range slices.Clone(a.Tokens[scope].Children) {
		if a.kindOf(c) == lex.At {
			errs = append(errs, buildScope(a, c, depth+1)...)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if e := unaries(a, scope); e != nil {
		return diag.List{e}
	}
	for _, class := range precedence[1:] {
		if e := binaries(a, scope, class); e != nil {
			return diag.List{e}
		}
	}
	return nil
}

// unaries scans right to left so that chained unaries nest.
func unaries(a *Ast, scope int) *diag.Error {
	children := a.Tokens[scope].Children
	for i := len(children) - 1; i >= 0; i-- {
		op := children[i]
		t := a.Tokens[op]
		if len(t.Children) > 0 {
			continue
		}

		if t.Kind == lex.BinSub {
			left := -1
			if i > 0 {
				left = children[i-1]
			}
			if left >= 0 && !a.isEmptyOperator(left) {
				continue
			}
			t.Kind = lex.UnNeg
		}

		if !t.Kind.IsUnary() {
			continue
		}

		// Unaries to the right were already built, so an empty operator there is missing its operands.
		right := a.rightOf(op)
		if right < 0 || a.isEmptyOperator(right) {
			return diag.New(diag.UnaryWithoutRhs, t.Context())
		}
		a.moveInto(right, op)
		children = a.Tokens[scope].Children
	}
	return nil
}

// binaries scans left to right, taking the left then the right operand.
func binaries(a *Ast, scope int, class []lex.Kind) *diag.Error {
	for i := 0; i < len(a.Tokens[scope].Children); i++ {
		op := a.Tokens[scope].Children[i]
		t := a.Tokens[op]
		if len(t.Children) > 0 || !slices.Contains(class, t.Kind) {
			continue
		}

		left, right := a.leftOf(op), a.rightOf(op)
		if left < 0 || a.isEmptyOperator(left) {
			return diag.New(diag.BinaryWithoutLhs, t.Context())
		}
		if right < 0 || a.isEmptyOperator(right) {
			return diag.New(diag.BinaryWithoutRhs, t.Context())
		}
		a.moveInto(left, op)
		a.moveInto(right, op)
		// The operator now sits where its left operand was.
		i--
	}
	return nil
}

package assembler

import (
	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// directiveSize calculates the byte size of a directive for the layout pass.
// Only included files take room; #db and #dw define constants.
func (c *Constants) directiveSize(n Node) int {
	inner := n.Inner()
	if inner == nil {
		return 0
	}
	switch inner.Kind() {
	case lex.Include, lex.Import:
		path, err := includePath(inner)
		if err != nil {
			return 0
		}
		return len(c.Includes[path])
	}
	return 0
}

// directiveBytes generates the output of a directive.
func (c *Constants) directiveBytes(n Node) ([]byte, *diag.Error) {
	inner := n.Inner()
	if inner == nil {
		return nil, nil
	}
	switch inner.Kind() {
	case lex.Include, lex.Import:
		path, err := includePath(inner)
		if err != nil {
			return nil, err
		}
		data, ok := c.Includes[path]
		if !ok {
			return nil, diag.Bug("include %q was not read", path)
		}
		return data, nil
	}
	return nil, nil
}

// dataSize calculates the size of a literal or identifier written as data.
func (c *Constants) dataSize(r *ast.Ref) (int, *diag.Error) {
	if r.Kind() == lex.Lit {
		return r.Leaf().Value().Size(), nil
	}

	name := r.Value().Text
	k, ok := c.Get(name)
	if !ok {
		return 0, diag.Newf(diag.ConstantNotFound, r.Context(), "%s", name)
	}
	switch k.Kind {
	case ConstMark:
		return 2, nil
	case ConstExpr:
		if s, ok := stringExpr(k.Expr); ok {
			return len(s), nil
		}
		if k.Def == lex.DefB {
			return 1, nil
		}
		return 2, nil
	}
	return k.Value.Size(), nil
}

// dataBytes generates the output of a literal or identifier written as data.
func (c *Constants) dataBytes(r *ast.Ref) ([]byte, *diag.Error) {
	v := r.Leaf().Value()
	if r.Kind() == lex.Identifier {
		k, ok := c.Get(r.Value().Text)
		if !ok {
			return nil, diag.Newf(diag.ConstantNotFound, r.Context(), "%s", r.Value().Text)
		}
		if k.Kind != ConstValue {
			return nil, diag.Bug("constant %s is still %v", r.Value().Text, k)
		}
		v = k.Value
	}
	data, err := v.Bytes()
	if err != nil {
		return nil, diag.Newf(diag.NonASCII, r.Leaf().Context(), "%v", err)
	}
	return data, nil
}

// stringExpr reports whether an expression is a lone string literal.
func stringExpr(expr *ast.Ref) (string, bool) {
	if expr == nil || expr.Len() != 1 {
		return "", false
	}
	lit := expr.First()
	if lit.Kind() != lex.Lit || lit.Leaf().Kind() != lex.LitStr {
		return "", false
	}
	return lit.Leaf().Value().Text, true
}

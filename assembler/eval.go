package assembler

import (
	"slices"

	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// update is a computed constant waiting to be stored.
type update struct {
	name  string
	value lex.Value
}

// evaluator resolves expressions. stack holds the constants being evaluated,
// innermost last.
type evaluator struct {
	consts *Constants
	stack  []string
	done   map[string]lex.Value
}

// Evaluate computes every #db and #dw expression. Results are stored once all
// of them are known, so a constant is never read half-updated. #db results
// are kept modulo 256 and #dw results modulo 65536.
func (c *Constants) Evaluate() diag.List {
	var errs diag.List
	ev := &evaluator{consts: c, done: make(map[string]lex.Value)}
	var updates []update
	for _, name := range c.names {
		k := c.table[name]
		if k.Kind != ConstExpr {
			continue
		}
		v, err := ev.constant(name, k)
		if err != nil {
			errs.Add(err)
			if err.IsBug() {
				return errs
			}
			continue
		}
		updates = append(updates, update{name: name, value: v})
	}
	if len(errs) > 0 {
		return errs
	}

	for _, u := range updates {
		k := c.table[u.name]
		k.Kind, k.Value = ConstValue, u.value
	}
	return nil
}

func (ev *evaluator) constant(name string, k *Const) (lex.Value, *diag.Error) {
	if v, ok := ev.done[name]; ok {
		return v, nil
	}
	if len(ev.stack) >= diag.MaxIterations {
		return lex.Value{}, diag.Bug("constants nested deeper than %d", diag.MaxIterations)
	}

	ev.stack = append(ev.stack, name)
	defer func() { ev.stack = ev.stack[:len(ev.stack)-1] }()

	if s, ok := stringExpr(k.Expr); ok {
		v := lex.StrValue(s)
		ev.done[name] = v
		return v, nil
	}

	n, err := ev.scope(k.Expr)
	if err != nil {
		return lex.Value{}, err
	}
	if n < 0 {
		return lex.Value{}, diag.Newf(diag.NegativeResult, k.At.Context(), "%s is %d", name, n)
	}

	var v lex.Value
	if k.Def == lex.DefB {
		v = lex.ByteValue(uint8(n % 0x100))
	} else {
		v = lex.WordValue(uint16(n % 0x10000))
	}
	ev.done[name] = v
	return v, nil
}

// scope evaluates an Expr or a parenthesised group, which must hold exactly one value.
func (ev *evaluator) scope(r *ast.Ref) (int, *diag.Error) {
	switch r.Len() {
	case 0:
		return 0, diag.New(diag.EmptyExpr, r.Context())
	case 1:
		return ev.node(r.First())
	}
	return 0, diag.New(diag.BadExprShape, r.Get(1).Context())
}

func (ev *evaluator) node(r *ast.Ref) (int, *diag.Error) {
	k := r.Kind()
	switch {
	case k == lex.Expr, k == lex.At:
		return ev.scope(r)

	case k == lex.Lit:
		leaf := r.Leaf()
		if !leaf.Kind().IsNumber() {
			return 0, diag.New(diag.StrInExpr, leaf.Context())
		}
		return int(leaf.Value().Num), nil

	case k == lex.Identifier:
		return ev.identifier(r)

	case k.IsUnary():
		if r.Len() != 1 {
			return 0, diag.New(diag.BadExprShape, r.Context())
		}
		v, err := ev.node(r.First())
		if err != nil {
			return 0, err
		}
		if k == lex.UnNot {
			return ^v & 0xFFFF, nil
		}
		return -v, nil

	case k.IsOperator():
		if r.Len() != 2 {
			return 0, diag.New(diag.BadExprShape, r.Context())
		}
		lhs, err := ev.node(r.Get(0))
		if err != nil {
			return 0, err
		}
		rhs, err := ev.node(r.Get(1))
		if err != nil {
			return 0, err
		}
		return binaryOp(r, lhs, rhs)
	}
	return 0, diag.New(diag.BadExprShape, r.Context())
}

func binaryOp(r *ast.Ref, lhs, rhs int) (int, *diag.Error) {
	switch r.Kind() {
	case lex.BinAdd:
		return lhs + rhs, nil
	case lex.BinSub:
		return lhs - rhs, nil
	case lex.BinMul:
		return lhs * rhs, nil
	case lex.BinDiv, lex.BinMod:
		if rhs == 0 {
			return 0, diag.New(diag.DivisionByZero, r.Context())
		}
		if r.Kind() == lex.BinDiv {
			return lhs / rhs, nil
		}
		return lhs % rhs, nil
	case lex.BinShl, lex.BinShr:
		if rhs < 0 {
			return 0, diag.Newf(diag.InvalidShift, r.Context(), "shift by %d", rhs)
		}
		if r.Kind() == lex.BinShl {
			return lhs << rhs, nil
		}
		return lhs >> rhs, nil
	case lex.BinAnd:
		return lhs & rhs, nil
	case lex.BinOr:
		return lhs | rhs, nil
	case lex.BinXor:
		return lhs ^ rhs, nil
	}
	return 0, diag.Bug("%v is not a binary operator", r.Kind())
}

// identifier resolves a name used inside an expression.
func (ev *evaluator) identifier(r *ast.Ref) (int, *diag.Error) {
	name := r.Value().Text
	k, ok := ev.consts.Get(name)
	if !ok {
		return 0, diag.Newf(diag.ConstantNotFound, r.Context(), "%s", name)
	}

	v := k.Value
	switch k.Kind {
	case ConstMark:
		return 0, diag.Bug("label %s used before layout", name)
	case ConstExpr:
		if slices.Contains(ev.stack, name) {
			return 0, diag.Newf(diag.CircularDependency, r.Context(), "%s", chain(ev.stack, name))
		}
		var err *diag.Error
		if v, err = ev.constant(name, k); err != nil {
			return 0, err
		}
	}

	if !v.IsNum() {
		return 0, diag.Newf(diag.StrInExpr, r.Context(), "%s is a string", name)
	}
	return int(v.Num), nil
}

// chain renders a dependency cycle, e.g. "X -> Y -> X".
func chain(stack []string, name string) string {
	from := slices.Index(stack, name)
	s := ""
	for _, n := range stack[from:] {
		s += n + " -> "
	}
	return s + name
}

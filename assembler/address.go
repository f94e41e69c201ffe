package assembler

import (
	"fmt"

	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/lex"
)

// Width is the size of an immediate operand in bytes.
type Width int

const (
	Byte Width = 1
	Word Width = 2
)

// ShapeType selects how a Shape matches an argument.
type ShapeType int

const (
	// ShapeKind matches the innermost token kind, e.g. a register or a flag.
	ShapeKind ShapeType = iota
	// ShapeAt matches an indirect argument whose content matches Inner.
	ShapeAt
	// ShapeImm matches a number that fits Width, a one-character string or an identifier.
	ShapeImm
	// ShapeBit matches a number literal equal to N.
	ShapeBit
)

// Shape describes one argument an encoding accepts.
type Shape struct {
	Type  ShapeType
	Kind  lex.Kind
	Inner *Shape
	Width Width
	N     uint16
}

func ty(k lex.Kind) Shape { return Shape{Type: ShapeKind, Kind: k} }

func at(inner Shape) Shape { return Shape{Type: ShapeAt, Inner: &inner} }

func imm(w Width) Shape { return Shape{Type: ShapeImm, Width: w} }

func bit(n uint16) Shape { return Shape{Type: ShapeBit, N: n} }

// vec is a restart vector, matched by value like a bit index.
func vec(n uint16) Shape { return bit(n) }

func (s Shape) String() string {
	switch s.Type {
	case ShapeKind:
		return s.Kind.String()
	case ShapeAt:
		return fmt.Sprintf("(%v)", *s.Inner)
	case ShapeImm:
		if s.Width == Byte {
			return "n"
		}
		return "nn"
	}
	return fmt.Sprintf("%d", s.N)
}

// matchArgument tests an Argument token against s.
func matchArgument(arg *ast.Ref, s Shape) bool {
	if arg.Len() != 1 {
		return false
	}
	return matchValue(arg.First(), s)
}

// matchValue tests the wrapper under an Argument or an At: Register, Flag,
// Lit, Identifier or At.
func matchValue(r *ast.Ref, s Shape) bool {
	switch s.Type {
	case ShapeKind:
		if r.Kind() == lex.At {
			return false
		}
		return r.Leaf().Kind() == s.Kind

	case ShapeAt:
		return r.Kind() == lex.At && r.Len() == 1 && matchValue(r.First(), *s.Inner)

	case ShapeImm:
		switch r.Kind() {
		case lex.Identifier:
			return true
		case lex.Lit:
			leaf := r.Leaf()
			if leaf.Kind() == lex.LitStr {
				return len(leaf.Value().Text) == 1
			}
			return leaf.Kind().IsNumber() && fits(int(leaf.Value().Num), s.Width)
		}

	case ShapeBit:
		leaf := r.Leaf()
		return r.Kind() == lex.Lit && leaf.Kind().IsNumber() && leaf.Value().Num == s.N
	}
	return false
}

// immediateOf returns the token carrying an argument's immediate, looking
// through one level of indirection, or nil for registers and flags.
func immediateOf(arg *ast.Ref) *ast.Ref {
	r := arg.First()
	if r != nil && r.Kind() == lex.At {
		r = r.First()
	}
	if r == nil {
		return nil
	}
	switch r.Kind() {
	case lex.Lit, lex.Identifier:
		return r
	}
	return nil
}

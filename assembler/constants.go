package assembler

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
	"github.com/Urethramancer/gbasm/source"
)

// ConstKind tags the variant held by a Const.
type ConstKind int

const (
	// ConstMark is a label whose offset is not laid out yet.
	ConstMark ConstKind = iota
	// ConstValue is a known value.
	ConstValue
	// ConstExpr is a #db or #dw expression waiting for evaluation.
	ConstExpr
)

// Const is one named constant.
type Const struct {
	Kind  ConstKind
	Value lex.Value
	// Expr is the Expr token of a ConstExpr.
	Expr *ast.Ref
	// Def is DefB or DefW for expressions.
	Def lex.Kind
	// At is the token that defines the name.
	At *ast.Ref
}

func (c *Const) String() string {
	switch c.Kind {
	case ConstMark:
		return "Mark"
	case ConstExpr:
		return fmt.Sprintf("Expr(%v)", c.Def)
	}
	return c.Value.String()
}

// Constants maps names to constants in definition order and caches included files.
type Constants struct {
	names    []string
	table    map[string]*Const
	Includes map[string][]byte
}

// NewConstants returns an empty store.
func NewConstants() *Constants {
	return &Constants{
		table:    make(map[string]*Const),
		Includes: make(map[string][]byte),
	}
}

// Get looks up a constant.
func (c *Constants) Get(name string) (*Const, bool) {
	k, ok := c.table[name]
	return k, ok
}

// Names lists the constants in definition order.
func (c *Constants) Names() []string { return c.names }

// define adds a constant, reporting false when the name is taken.
func (c *Constants) define(name string, k *Const) bool {
	if _, ok := c.table[name]; ok {
		return false
	}
	c.names = append(c.names, name)
	c.table[name] = k
	return true
}

// Collect registers labels, named markers, #db and #dw constants, and reads
// every included file once. Include paths resolve against the main file.
func Collect(ns []Node, src *source.Source, read func(string) ([]byte, error)) (*Constants, diag.List) {
	var errs diag.List
	c := NewConstants()

	def := func(r *ast.Ref, name string, k *Const) {
		k.At = r
		if !c.define(name, k) {
			errs.Add(diag.Newf(diag.DuplicateKey, r.Context(), "%s", name))
		}
	}

	for _, n := range ns {
		inner := n.Inner()
		if inner == nil {
			continue
		}
		switch n.Type {
		case NodeMarker:
			switch inner.Kind() {
			case lex.Label:
				def(inner, inner.Value().Text, &Const{Kind: ConstMark})
			case lex.NamedMark:
				pin, err := markerPin(inner)
				if err != nil {
					errs.Add(err)
					continue
				}
				def(inner, inner.Value().Text, &Const{Kind: ConstValue, Value: lex.WordValue(pin)})
			}

		case NodeDirective:
			switch inner.Kind() {
			case lex.DefB, lex.DefW:
				ident, expr := inner.FirstOf(lex.Identifier), inner.FirstOf(lex.Expr)
				if ident == nil || expr == nil {
					errs.Add(diag.Bug("%v without identifier or expression", inner.Kind()))
					return c, errs
				}
				def(ident, ident.Value().Text, &Const{Kind: ConstExpr, Expr: expr, Def: inner.Kind()})

			case lex.Include, lex.Import:
				path, err := includePath(inner)
				if err != nil {
					errs.Add(err)
					continue
				}
				if _, ok := c.Includes[path]; ok {
					continue
				}
				data, rerr := read(src.Resolve(path))
				if rerr != nil {
					errs.Add(diag.Newf(diag.IncludeNotFound, inner.First().Leaf().Context(), "%v", rerr))
					continue
				}
				c.Includes[path] = data
			}
		}
	}
	return c, errs
}

// markerPin returns the offset a marker pins the output to.
func markerPin(mark *ast.Ref) (uint16, *diag.Error) {
	lit := mark.First()
	if lit == nil || lit.Kind() != lex.Lit || !lit.Leaf().Kind().IsNumber() {
		return 0, diag.New(diag.MarkWithoutLiteral, mark.Context())
	}
	return lit.Leaf().Value().Num, nil
}

// includePath returns the file named by an #include or #import.
func includePath(dir *ast.Ref) (string, *diag.Error) {
	lit := dir.First()
	if lit == nil || lit.Leaf().Kind() != lex.LitStr {
		return "", diag.Newf(diag.IncludeNotFound, dir.Context(), "expected a file name")
	}
	return lit.Leaf().Value().Text, nil
}

// Layout walks the program with a running offset. It pins markers, gives
// labels their offset and checks that every identifier written as data exists.
func (c *Constants) Layout(ns []Node, ops OpMap) diag.List {
	var errs diag.List
	offset := 0
	for _, n := range ns {
		switch n.Type {
		case NodeInstruction:
			o, ok := ops[n.Ref.Index()]
			if !ok {
				errs.Add(diag.Bug("instruction at line %d has no opcode", n.Ref.Token().LineNumber))
				return errs
			}
			offset += o.Length

		case NodeData:
			size, err := c.dataSize(n.Ref)
			if err != nil {
				errs.Add(err)
				continue
			}
			offset += size

		case NodeMarker:
			inner := n.Inner()
			if inner == nil {
				continue
			}
			if inner.Kind() == lex.Label {
				if offset > 0xFFFF {
					errs.Add(diag.Newf(diag.ValueOverflow, inner.Context(), "label at offset %#x", offset))
					continue
				}
				k, ok := c.Get(inner.Value().Text)
				if !ok {
					errs.Add(diag.Bug("label %s was not collected", inner.Value().Text))
					return errs
				}
				k.Kind, k.Value = ConstValue, lex.WordValue(uint16(offset))
				continue
			}
			pin, err := markerPin(inner)
			if err != nil {
				errs.Add(err)
				continue
			}
			if offset > int(pin) {
				errs.Add(diag.Newf(diag.MisplacedMarker, inner.Context(), "offset is already %#04x", offset))
				continue
			}
			offset = int(pin)

		case NodeDirective:
			offset += c.directiveSize(n)
		}
	}
	return errs
}

// String lists the constants one per line, for debugging.
func (c *Constants) String() string {
	var b strings.Builder
	for _, name := range c.names {
		fmt.Fprintf(&b, "%s = %v\n", name, c.table[name])
	}
	for _, path := range slices.Sorted(maps.Keys(c.Includes)) {
		fmt.Fprintf(&b, "%q: %d bytes\n", path, len(c.Includes[path]))
	}
	return b.String()
}

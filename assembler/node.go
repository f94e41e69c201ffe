package assembler

import (
	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/lex"
)

// NodeType defines the type of a program node.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeMarker type: labels and pinned offsets.
	NodeMarker
	// NodeDirective type.
	NodeDirective
	// NodeData type: literals and identifiers written as-is.
	NodeData
)

// Node is one element of the program in output order.
type Node struct {
	Type NodeType
	Ref  *ast.Ref
}

// nodes flattens the tree into output order. Macro calls contribute the nodes
// of their expanded body, in place.
func nodes(root *ast.Ref) []Node {
	var out []Node
	var walk func(r *ast.Ref)
	walk = func(r *ast.Ref) {
		for _, c := range r.Children() {
			switch c.Kind() {
			case lex.Instruction:
				out = append(out, Node{Type: NodeInstruction, Ref: c})
			case lex.Marker:
				out = append(out, Node{Type: NodeMarker, Ref: c})
			case lex.Directive:
				out = append(out, Node{Type: NodeDirective, Ref: c})
			case lex.Lit, lex.Identifier:
				out = append(out, Node{Type: NodeData, Ref: c})
			case lex.MacroCall:
				if body := c.FirstOf(lex.MacroBody); body != nil {
					walk(body)
				}
			}
		}
	}
	walk(root)
	return out
}

// Mnemonic returns the instruction name of an instruction node.
func (n Node) Mnemonic() lex.Kind {
	if name := n.Ref.FirstOf(lex.InstrName); name != nil && name.First() != nil {
		return name.First().Kind()
	}
	return lex.InstrName
}

// Arguments returns the Argument children of an instruction node.
func (n Node) Arguments() []*ast.Ref {
	var args []*ast.Ref
	for _, c := range n.Ref.Children() {
		if c.Kind() == lex.Argument {
			args = append(args, c)
		}
	}
	return args
}

// Inner returns the single child of a marker or directive node.
func (n Node) Inner() *ast.Ref { return n.Ref.First() }

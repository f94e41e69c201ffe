package ast

import (
	"fmt"
	"strings"
)

// String renders the subtree on one line, e.g. Instruction{InstrName{Nop}}.
func (r *Ref) String() string {
	var b strings.Builder
	r.compact(&b)
	return b.String()
}

func (r *Ref) compact(b *strings.Builder) {
	b.WriteString(r.Kind().String())
	if len(r.children) == 0 {
		return
	}
	b.WriteByte('{')
	for i, c := range r.children {
		if i > 0 {
			b.WriteByte(' ')
		}
		c.compact(b)
	}
	b.WriteByte('}')
}

// Tree renders the subtree one token per line with source line numbers.
func (r *Ref) Tree() string {
	var b strings.Builder
	var walk func(r *Ref, depth int)
	walk = func(r *Ref, depth int) {
		for _, c := range r.children {
			indent := ""
			if depth > 0 {
				indent = strings.Repeat("    ", depth-1) + "└── "
			}
			fmt.Fprintf(&b, "L%-6d %s%v", c.tok.LineNumber, indent, c.Kind())
			if c.Kind().HasValue() {
				fmt.Fprintf(&b, " %v", c.Value())
			}
			b.WriteByte('\n')
			walk(c, depth+1)
		}
	}
	walk(r, 0)
	return b.String()
}

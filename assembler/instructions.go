package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/lex"
)

// OpCode is a resolved encoding.
type OpCode struct {
	// CB is set for instructions on the 0xCB-prefixed page.
	CB   bool
	Code byte
	// Length counts every byte written, prefix and immediates included.
	Length int
}

// opBytes is the number of bytes taken by the prefix and opcode.
func (o OpCode) opBytes() int {
	if o.CB {
		return 2
	}
	return 1
}

func (o OpCode) String() string {
	if o.CB {
		return fmt.Sprintf("CB %02X (%d)", o.Code, o.Length)
	}
	return fmt.Sprintf("%02X (%d)", o.Code, o.Length)
}

// Entry is one encoding of a mnemonic and the arguments it takes.
type Entry struct {
	Op   OpCode
	Args []Shape
}

func (e Entry) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s -> %v", strings.Join(args, " "), e.Op)
}

func op(code byte, length int, args ...Shape) Entry {
	return Entry{Op: OpCode{Code: code, Length: length}, Args: args}
}

func cb(code byte, args ...Shape) Entry {
	return Entry{Op: OpCode{CB: true, Code: code, Length: 2}, Args: args}
}

// Table lists the encodings of every mnemonic in matching order.
type Table map[lex.Kind][]Entry

// r8 is the operand order of the 8-bit register field: B C D E H L (HL) A.
var r8 = [8]Shape{
	ty(lex.B), ty(lex.C), ty(lex.D), ty(lex.E),
	ty(lex.H), ty(lex.L), at(ty(lex.Hl)), ty(lex.A),
}

// r16 is the operand order of the 16-bit register field for loads and arithmetic.
var r16 = [4]Shape{ty(lex.Bc), ty(lex.De), ty(lex.Hl), ty(lex.Sp)}

// conditions is the operand order of the condition field.
var conditions = [4]Shape{ty(lex.FlagNz), ty(lex.FlagZ), ty(lex.FlagNc), ty(lex.FlagC)}

// Opcodes is the LR35902 instruction set.
var Opcodes = merge(
	loadOps(),
	blockLoadOps(),
	highLoadOps(),
	mathsOps(),
	logicalOps(),
	compareOps(),
	bcdOps(),
	bitOps(),
	flowOps(),
	trapOps(),
	stackOps(),
	statusOps(),
	miscOps(),
)

func merge(tables ...Table) Table {
	out := make(Table)
	for _, t := range tables {
		for k, entries := range t {
			out[k] = append(out[k], entries...)
		}
	}
	return out
}

// Lookup finds the first encoding of mn that accepts args.
// A leading A may be left out when the encoding starts with it.
func (t Table) Lookup(mn lex.Kind, args []*ast.Ref) (Entry, bool) {
	for _, e := range t[mn] {
		shapes := e.Args
		if len(shapes) == len(args)+1 && shapes[0] == ty(lex.A) {
			shapes = shapes[1:]
		}
		if len(shapes) != len(args) {
			continue
		}
		ok := true
		for i, s := range shapes {
			if !matchArgument(args[i], s) {
				ok = false
				break
			}
		}
		if ok {
			return e, true
		}
	}
	return Entry{}, false
}

package assembler

import "github.com/Urethramancer/gbasm/lex"

// logicalOps covers AND, XOR, OR and CPL.
func logicalOps() Table {
	return Table{
		lex.And: alu(0xA0, 0xE6),
		lex.Xor: alu(0xA8, 0xEE),
		lex.Or:  alu(0xB0, 0xF6),
		lex.Cpl: {op(0x2F, 1)},
	}
}

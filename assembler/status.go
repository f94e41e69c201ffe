package assembler

import "github.com/Urethramancer/gbasm/lex"

// statusOps covers the carry flag and interrupt enable instructions.
func statusOps() Table {
	return Table{
		lex.Scf: {op(0x37, 1)},
		lex.Ccf: {op(0x3F, 1)},
		lex.Di:  {op(0xF3, 1)},
		lex.Ei:  {op(0xFB, 1)},
	}
}

package assembler

import "github.com/Urethramancer/gbasm/lex"

// miscOps covers NOP, HALT and STOP.
// STOP is written as 10 00.
func miscOps() Table {
	return Table{
		lex.Nop:  {op(0x00, 1)},
		lex.Halt: {op(0x76, 1)},
		lex.Stop: {op(0x10, 2)},
	}
}

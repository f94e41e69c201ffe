package assembler

import "github.com/Urethramancer/gbasm/lex"

// bitOps covers the 0xCB page (rotates, shifts, SWAP, BIT, RES and SET)
// and the one-byte accumulator rotates.
func bitOps() Table {
	t := Table{
		lex.Rlca: {op(0x07, 1)},
		lex.Rla:  {op(0x17, 1)},
		lex.Rrca: {op(0x0F, 1)},
		lex.Rra:  {op(0x1F, 1)},
	}

	// Opcode: 00 ooo rrr
	shifts := []lex.Kind{lex.Rlc, lex.Rrc, lex.Rl, lex.Rr, lex.Sla, lex.Sra, lex.Swap, lex.Srl}
	for o, mn := range shifts {
		for r, reg := range r8 {
			t[mn] = append(t[mn], cb(byte(o)<<3|byte(r), reg))
		}
	}

	// Opcode: oo bbb rrr
	for o, mn := range []lex.Kind{lex.Bit, lex.Res, lex.Set} {
		for b := range 8 {
			for r, reg := range r8 {
				t[mn] = append(t[mn], cb(byte(o+1)<<6|byte(b)<<3|byte(r), bit(uint16(b)), reg))
			}
		}
	}
	return t
}

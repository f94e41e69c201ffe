package assembler

import "github.com/Urethramancer/gbasm/lex"

// loadOps covers LD.
func loadOps() Table {
	var ld []Entry

	// LD r, r'
	// Opcode: 01 ddd sss. LD (HL), (HL) is HALT.
	for d, dst := range r8 {
		for s, src := range r8 {
			if d == 6 && s == 6 {
				continue
			}
			ld = append(ld, op(0x40|byte(d)<<3|byte(s), 1, dst, src))
		}
	}

	// LD r, n
	for d, dst := range r8 {
		ld = append(ld, op(0x06|byte(d)<<3, 2, dst, imm(Byte)))
	}

	// LD rr, nn
	for i, rr := range r16 {
		ld = append(ld, op(0x01|byte(i)<<4, 3, rr, imm(Word)))
	}

	ld = append(ld,
		op(0x02, 1, at(ty(lex.Bc)), ty(lex.A)),
		op(0x12, 1, at(ty(lex.De)), ty(lex.A)),
		op(0x0A, 1, ty(lex.A), at(ty(lex.Bc))),
		op(0x1A, 1, ty(lex.A), at(ty(lex.De))),

		// LD (C), A and LD A, (C) address 0xFF00+C.
		op(0xE2, 1, at(ty(lex.C)), ty(lex.A)),
		op(0xF2, 1, ty(lex.A), at(ty(lex.C))),

		op(0xEA, 3, at(imm(Word)), ty(lex.A)),
		op(0xFA, 3, ty(lex.A), at(imm(Word))),
		op(0x08, 3, at(imm(Word)), ty(lex.Sp)),
		op(0xF9, 1, ty(lex.Sp), ty(lex.Hl)),
	)

	return Table{lex.Ld: ld}
}

// blockLoadOps covers LDI and LDD, the loads through HL that step HL afterwards.
// Syntax: LDI (HL) A, LDD A (HL)
func blockLoadOps() Table {
	return Table{
		lex.Ldi: {
			op(0x22, 1, at(ty(lex.Hl)), ty(lex.A)),
			op(0x2A, 1, ty(lex.A), at(ty(lex.Hl))),
		},
		lex.Ldd: {
			op(0x32, 1, at(ty(lex.Hl)), ty(lex.A)),
			op(0x3A, 1, ty(lex.A), at(ty(lex.Hl))),
		},
	}
}

// highLoadOps covers the loads to and from the I/O page at 0xFF00, and LDHL.
//
//	LDH (n) A    E0 n
//	LDH A (n)    F0 n
//	LDH (C) A    E2
//	LDH A (C)    F2
//	LDHL SP n    F8 n    ; HL = SP + signed n
func highLoadOps() Table {
	return Table{
		lex.Ldh: {
			op(0xE0, 2, at(imm(Byte)), ty(lex.A)),
			op(0xF0, 2, ty(lex.A), at(imm(Byte))),
			op(0xE2, 1, at(ty(lex.C)), ty(lex.A)),
			op(0xF2, 1, ty(lex.A), at(ty(lex.C))),
		},
		lex.Ldhl: {
			op(0xF8, 2, ty(lex.Sp), imm(Byte)),
		},
	}
}

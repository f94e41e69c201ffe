package assembler

import "github.com/Urethramancer/gbasm/lex"

// flowOps covers JP, JR, CALL, RET and RETI.
func flowOps() Table {
	jp := []Entry{
		op(0xC3, 3, imm(Word)),
		op(0xE9, 1, ty(lex.Hl)),
		op(0xE9, 1, at(ty(lex.Hl))),
	}
	jr := []Entry{op(0x18, 2, imm(Byte))}
	call := []Entry{op(0xCD, 3, imm(Word))}
	ret := []Entry{op(0xC9, 1)}

	// Condition field: 000 cc 000, NZ Z NC C.
	for i, cc := range conditions {
		c := byte(i) << 3
		jp = append(jp, op(0xC2|c, 3, cc, imm(Word)))
		jr = append(jr, op(0x20|c, 2, cc, imm(Byte)))
		call = append(call, op(0xC4|c, 3, cc, imm(Word)))
		ret = append(ret, op(0xC0|c, 1, cc))
	}

	return Table{
		lex.Jp:   jp,
		lex.Jr:   jr,
		lex.Call: call,
		lex.Ret:  ret,
		lex.Reti: {op(0xD9, 1)},
	}
}

// relative reports whether the immediate of mn is a displacement from the
// next instruction rather than an address.
func relative(mn lex.Kind) bool { return mn == lex.Jr }

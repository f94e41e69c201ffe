package assembler

import "github.com/Urethramancer/gbasm/lex"

// alu builds the eight register forms and the immediate form of an
// accumulator operation. The register field is the low three bits.
func alu(base, immediate byte) []Entry {
	entries := make([]Entry, 0, 9)
	for s, src := range r8 {
		entries = append(entries, op(base|byte(s), 1, ty(lex.A), src))
	}
	return append(entries, op(immediate, 2, ty(lex.A), imm(Byte)))
}

// mathsOps covers ADD, ADC, SUB, SBC, INC and DEC.
func mathsOps() Table {
	add := alu(0x80, 0xC6)
	for i, rr := range r16 {
		add = append(add, op(0x09|byte(i)<<4, 1, ty(lex.Hl), rr))
	}
	add = append(add, op(0xE8, 2, ty(lex.Sp), imm(Byte)))

	var inc, dec []Entry
	for d, dst := range r8 {
		inc = append(inc, op(0x04|byte(d)<<3, 1, dst))
		dec = append(dec, op(0x05|byte(d)<<3, 1, dst))
	}
	for i, rr := range r16 {
		inc = append(inc, op(0x03|byte(i)<<4, 1, rr))
		dec = append(dec, op(0x0B|byte(i)<<4, 1, rr))
	}

	return Table{
		lex.Add: add,
		lex.Adc: alu(0x88, 0xCE),
		lex.Sub: alu(0x90, 0xD6),
		lex.Sbc: alu(0x98, 0xDE),
		lex.Inc: inc,
		lex.Dec: dec,
	}
}

// compareOps covers CP, a subtraction that only sets flags.
// Syntax: CP r, CP n, CP A r
func compareOps() Table {
	return Table{lex.Cp: alu(0xB8, 0xFE)}
}

// bcdOps covers DAA, the decimal adjust after a BCD addition or subtraction.
func bcdOps() Table {
	return Table{lex.Daa: {op(0x27, 1)}}
}

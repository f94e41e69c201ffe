package disassembler

import (
	"encoding/binary"
	"fmt"

	"github.com/Urethramancer/gbasm/assembler"
	"github.com/Urethramancer/gbasm/lex"
)

// slot is the encoding chosen to render one opcode.
type slot struct {
	mn    lex.Kind
	entry assembler.Entry
}

// page maps an opcode byte to its encoding.
type page [256]*slot

var mainPage, cbPage = buildPages(assembler.Opcodes)

// buildPages inverts the instruction table. Where several forms share an
// opcode the first in mnemonic order wins; all of them assemble to the same bytes.
func buildPages(t assembler.Table) (*page, *page) {
	var base, cb page
	for _, mn := range lex.Kinds() {
		for _, e := range t[mn] {
			p := &base
			if e.Op.CB {
				p = &cb
			}
			if p[e.Op.Code] == nil {
				p[e.Op.Code] = &slot{mn: mn, entry: e}
			}
		}
	}
	return &base, &cb
}

// decode reads the instruction at pc. It fails on unused opcodes, on
// truncated instructions and on padding bytes that would not reassemble.
func decode(code []byte, pc int) (Instruction, bool) {
	inst := Instruction{Address: pc, Target: -1, TargetArg: -1}
	p, prefix := mainPage, 1
	op := code[pc]
	if op == 0xCB {
		if pc+1 >= len(code) {
			return inst, false
		}
		p, prefix = cbPage, 2
		op = code[pc+1]
	}

	s := p[op]
	if s == nil || pc+s.entry.Op.Length > len(code) {
		return inst, false
	}
	inst.Mnemonic = s.mn
	inst.Bytes = code[pc : pc+s.entry.Op.Length]
	raw := inst.Bytes[prefix:]

	immediate := false
	for i, a := range s.entry.Args {
		text, n, isImm := operand(a, raw)
		inst.Operands = append(inst.Operands, text)
		if !isImm {
			continue
		}
		immediate = true
		switch {
		case s.mn == lex.Jr:
			inst.Target = pc + len(inst.Bytes) + int(int8(n))
			inst.TargetArg = i
		case s.mn == lex.Jp, s.mn == lex.Call:
			inst.Target = n
			inst.TargetArg = i
		}
	}

	if !immediate {
		for _, b := range raw {
			if b != 0 {
				return inst, false
			}
		}
	}
	return inst, true
}

// operand renders one argument, reading immediates from raw.
func operand(s assembler.Shape, raw []byte) (string, int, bool) {
	switch s.Type {
	case assembler.ShapeKind:
		w, _ := s.Kind.Word()
		return w, 0, false
	case assembler.ShapeAt:
		inner, n, isImm := operand(*s.Inner, raw)
		return "(" + inner + ")", n, isImm
	case assembler.ShapeImm:
		if s.Width == assembler.Byte {
			return fmt.Sprintf("&%02X", raw[0]), int(raw[0]), true
		}
		n := int(binary.LittleEndian.Uint16(raw))
		return fmt.Sprintf("&%04X", n), n, true
	}
	return fmt.Sprintf("%d", s.N), 0, false
}

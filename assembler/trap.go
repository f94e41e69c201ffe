package assembler

import "github.com/Urethramancer/gbasm/lex"

// trapOps covers RST, the one-byte call to a restart vector.
// Valid vectors are 0x00, 0x08, ... 0x38.
// Opcode: 11 ttt 111
func trapOps() Table {
	rst := make([]Entry, 0, 8)
	for t := range 8 {
		rst = append(rst, op(0xC7|byte(t)<<3, 1, vec(uint16(t)*8)))
	}
	return Table{lex.Rst: rst}
}

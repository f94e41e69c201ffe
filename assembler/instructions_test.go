package assembler

import (
	"testing"

	"github.com/Urethramancer/gbasm/lex"
)

func TestEveryMnemonicHasEncodings(t *testing.T) {
	// Z80 instructions without an LR35902 counterpart.
	missing := map[lex.Kind]bool{lex.Rld: true, lex.Rrd: true, lex.Sll: true}
	for _, k := range lex.Kinds() {
		if !k.IsMnemonic() {
			continue
		}
		if n := len(Opcodes[k]); missing[k] != (n == 0) {
			t.Errorf("%v has %d encodings", k, n)
		}
	}
}

func TestEncodingsAreUnambiguous(t *testing.T) {
	for mn, entries := range Opcodes {
		seen := map[string]OpCode{}
		for _, e := range entries {
			key := e.String()
			shape := key[:len(key)-len(e.Op.String())]
			if prev, ok := seen[shape]; ok {
				t.Errorf("%v: %s encoded as both %v and %v", mn, shape, prev, e.Op)
			}
			seen[shape] = e.Op
		}
	}
}

func TestOpcodePages(t *testing.T) {
	codes := map[bool]map[byte]lex.Kind{false: {}, true: {}}
	total := 0
	for mn, entries := range Opcodes {
		for _, e := range entries {
			if e.Op.Length < e.Op.opBytes() || e.Op.Length > 3 {
				t.Errorf("%v %v has length %d", mn, e, e.Op.Length)
			}
			if prev, ok := codes[e.Op.CB][e.Op.Code]; ok && prev != mn {
				// LDH and LD share the (C) forms.
				if !(e.Op.Code == 0xE2 || e.Op.Code == 0xF2) {
					t.Errorf("%v used by both %v and %v", e.Op, prev, mn)
				}
			}
			codes[e.Op.CB][e.Op.Code] = mn
			total++
		}
	}
	if n := len(codes[true]); n != 256 {
		t.Errorf("CB page has %d opcodes, want 256", n)
	}
	// 256 minus CB itself and the 11 unused slots D3 DB DD E3 E4 EB EC ED F4 FC FD.
	if n := len(codes[false]); n != 244 {
		t.Errorf("main page has %d opcodes, want 244", n)
	}
}

func TestImplicitAccumulator(t *testing.T) {
	for _, mn := range []lex.Kind{lex.Add, lex.Adc, lex.Sub, lex.Sbc, lex.And, lex.Xor, lex.Or, lex.Cp} {
		var short, long int
		for _, e := range Opcodes[mn] {
			if len(e.Args) == 2 && e.Args[0] == ty(lex.A) {
				long++
			}
			if len(e.Args) == 1 {
				short++
			}
		}
		if long != 9 || short != 0 {
			t.Errorf("%v: %d accumulator forms, %d one-argument forms", mn, long, short)
		}
	}
}

func TestFits(t *testing.T) {
	tests := []struct {
		v    int
		w    Width
		want bool
	}{
		{0, Byte, true},
		{0xFF, Byte, true},
		{0x100, Byte, false},
		{-1, Byte, false},
		{0xFFFF, Word, true},
		{0x10000, Word, false},
	}
	for _, tc := range tests {
		if got := fits(tc.v, tc.w); got != tc.want {
			t.Errorf("fits(%#x, %d) = %v", tc.v, tc.w, got)
		}
	}
}

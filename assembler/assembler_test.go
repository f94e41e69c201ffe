package assembler_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io/fs"
	"slices"
	"strings"
	"testing"

	"github.com/Urethramancer/gbasm/assembler"
	"github.com/Urethramancer/gbasm/diag"
)

// Assembles source and checks against an expected byte sequence (in hex).
// Automatically validates output length and content.
func assembleAndMatchHex(t *testing.T, name, src, expectedHex string) {
	t.Helper()

	expectedHex = strings.ToLower(strings.Join(strings.Fields(expectedHex), ""))
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		t.Fatalf("[%s] invalid expected hex string: %v", name, err)
	}

	asm := assembler.New()
	code, err := asm.AssembleString("test.gb", src)
	if err != nil {
		t.Fatalf("[%s] failed to assemble:\n%s\nerror: %v", name, src, err)
	}
	if len(code) != len(expected) {
		t.Fatalf("[%s] expected %d bytes, got %d\nexpected: % X\ngot:      % X",
			name, len(expected), len(code), expected, code)
	}
	for i := range code {
		if code[i] != expected[i] {
			t.Errorf("[%s] mismatch at byte %d\nexpected: % X\ngot:      % X",
				name, i, expected, code)
			break
		}
	}
}

// assembleAndMatchKind checks that assembly fails with an error of kind k.
func assembleAndMatchKind(t *testing.T, name, src string, k diag.Kind) {
	t.Helper()

	asm := assembler.New()
	asm.ReadBlob = func(string) ([]byte, error) { return nil, fs.ErrNotExist }
	_, err := asm.AssembleString("test.gb", src)
	if err == nil {
		t.Fatalf("[%s] expected %v, assembled fine", name, k)
	}
	if kinds := assembler.Errors(err).Kinds(); !slices.Contains(kinds, k) {
		t.Errorf("[%s] expected %v, got %v (%v)", name, k, kinds, err)
	}
}

func ff(n int) string { return strings.Repeat("FF ", n) }

func TestScenarios(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"NOP", "nop", "00"},
		{"LD_A_Immediate", "ld a &2A", "3E 2A"},
		{"LD_BC_Immediate", "ld bc &1234", "01 34 12"},
		{"AnonMarker", "&0100:\nnop\njp &0150", ff(0x100) + "00 C3 50 01"},
		{"Macro", "#macro swap_a a b\nld a .a\nld .a .b\nld .b a\n#macro\nswap_a. b c", "78 41 4F"},
		{"DefB", "#db X 10 + 2 * 3\nX X X", "10 10 10"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

// Core instruction encodings
func TestBasicEncodings(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"LD_A_B", "ld a b", "78"},
		{"LD_A_HLInd", "ld a (hl)", "7E"},
		{"LD_HLInd_Imm", "ld (hl) &05", "36 05"},
		{"LD_HLInd_Char", `ld (hl) "A"`, "36 41"},
		{"LD_AbsInd_A", "ld (&C000) a", "EA 00 C0"},
		{"LD_A_AbsInd", "ld a (&FF80)", "FA 80 FF"},
		{"LD_AbsInd_SP", "ld (&C100) sp", "08 00 C1"},
		{"LD_SP_HL", "ld sp hl", "F9"},
		{"LD_A_BCInd", "ld a (bc)", "0A"},
		{"LD_DEInd_A", "ld (de) a", "12"},
		{"LD_CInd_A", "ld (c) a", "E2"},
		{"LD_SP_SmallImm", "ld sp &FE", "31 FE 00"},
		{"LDH_Store", "ldh (&44) a", "E0 44"},
		{"LDH_Load", "ldh a (&44)", "F0 44"},
		{"LDH_CInd", "ldh a (c)", "F2"},
		{"LDI_Load", "ldi a (hl)", "2A"},
		{"LDD_Store", "ldd (hl) a", "32"},
		{"LDHL", "ldhl sp &08", "F8 08"},
		{"ADD_SP", "add sp &10", "E8 10"},
		{"ADD_HL_DE", "add hl de", "19"},
		{"ADD_A_Explicit", "add a c", "81"},
		{"ADC_Imm", "adc &01", "CE 01"},
		{"SUB_Implicit", "sub b", "90"},
		{"SBC_HLInd", "sbc a (hl)", "9E"},
		{"AND_Imm", "and &0F", "E6 0F"},
		{"XOR_A", "xor a", "AF"},
		{"OR_Bin", "or %1000_0000", "F6 80"},
		{"CP_A", "cp a", "BF"},
		{"CP_Dec", "cp 144", "FE 90"},
		{"INC_HL", "inc hl", "23"},
		{"INC_A", "inc a", "3C"},
		{"DEC_HLInd", "dec (hl)", "35"},
		{"DEC_SP", "dec sp", "3B"},
		{"PUSH_AF", "push af", "F5"},
		{"POP_BC", "pop bc", "C1"},
		{"BIT_7_H", "bit 7 h", "CB 7C"},
		{"RES_0_A", "res 0 a", "CB 87"},
		{"SET_3_HLInd", "set 3 (hl)", "CB DE"},
		{"SWAP_A", "swap a", "CB 37"},
		{"SRL_B", "srl b", "CB 38"},
		{"RLC_C", "rlc c", "CB 01"},
		{"RR_HLInd", "rr (hl)", "CB 1E"},
		{"RST_38", "rst &38", "FF"},
		{"RST_8", "rst 8", "CF"},
		{"JP_HL", "jp (hl)", "E9"},
		{"JP_Z", "jp Z &0150", "CA 50 01"},
		{"CALL_NZ", "call NZ &1234", "C4 34 12"},
		{"CALL", "call &0040", "CD 40 00"},
		{"RET_C", "ret C", "D8"},
		{"RET_NC", "ret NC", "D0"},
		{"JR_Raw", "jr &FE", "18 FE"},
		{"RETI", "reti", "D9"},
		{"STOP", "stop", "10 00"},
		{"HALT", "halt", "76"},
		{"DI_EI", "di\nei", "F3 FB"},
		{"DAA_CPL", "daa\ncpl", "27 2F"},
		{"SCF_CCF", "scf\nccf", "37 3F"},
		{"Rotates", "rlca\nrla\nrrca\nrra", "07 17 0F 1F"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestData(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"Bytes", "&01 &02 %11", "01 02 03"},
		{"Word", "&1234", "34 12"},
		{"WideDecimal", "1000", "E8 03"},
		{"String", `"HELLO"`, "48 45 4C 4C 4F"},
		{"Mixed", `"A" 0 &BEEF`, "41 00 EF BE"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestLabelsAndMarkers(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"JR_Back", ":loop\nnop\njr loop", "00 18 FD"},
		{"JR_Forward", "jr end\nnop\n:end", "18 01 00"},
		{"JR_Cond", ":top\njr NZ top", "20 FE"},
		{"JP_Label", ":start\njp start", "C3 00 00"},
		{"CALL_Forward", "call routine\n:routine\nret", "CD 03 00 C9"},
		{"LabelAsData", "nop\n:here\nhere", "00 01 00"},
		{"NamedMark", "&0004:start\njp start", ff(4) + "C3 04 00"},
		{"NamedMarkAsData", "&0002:pos pos", ff(2) + "02 00"},
		{"MarkerAtOffset", "nop\n&0001:\nnop", "00 00"},
		{"TwoMarkers", "&0002:\n&01\n&0004:\n&02", ff(2) + "01 FF 02"},
		{"LabelAfterMarker", "&0003:\n:x\njp x", ff(3) + "C3 03 00"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestConstants(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"Word", "#dw W &1234\nW", "34 12"},
		{"ByteTruncated", "#db T 300\nT", "2C"},
		{"WordTruncated", "#dw T &FFFF + 2\nT", "01 00"},
		{"Parens", "#db P (1 + 2) * 3\nP", "09"},
		{"LeftAssoc", "#db L 10 - 4 - 3\nL", "03"},
		{"Negation", "#db N - 1 + 2\nN", "01"},
		{"Not", "#db M NOT 0\nM", "FF"},
		{"NotWord", "#dw M ! &00FF\nM", "00 FF"},
		{"Shift", "#dw S 1 SHL 12\nS", "00 10"},
		{"ShiftRight", "#db S &80 SHR 3\nS", "10"},
		{"Mod", "#db R 17 MOD 5\nR", "02"},
		{"Div", "#db Q 17 / 5\nQ", "03"},
		{"Logic", "#db B &F0 AND &3C OR 1 XOR 3\nB", "32"},
		{"Chained", "#db ONE 1\n#db SIX ONE * 6\nSIX", "06"},
		{"ForwardRef", "#db LATE EARLY + 1\n#db EARLY 4\nLATE", "05"},
		{"WordFromByte", "#db SMALL 2\n#dw BIG SMALL * 256\nBIG", "00 02"},
		{"LabelInExpr", ":here\nnop\n#dw NEXT here + 1\nNEXT", "00 01 00"},
		{"String", "#db MSG \"HI\"\nMSG", "48 49"},
		{"ImmediateByte", "#db V &2A\nld a V", "3E 2A"},
		{"ImmediateWord", "#dw ADDR &C000\nld (ADDR) a", "EA 00 C0"},
		{"ByteAsWord", "#db V 7\nld bc V", "01 07 00"},
		{"SizeBeforeLabel", "#dw W 1\nW\n:after\njp after", "01 00 C3 02 00"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestMacros(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"Repeat", "#macro pad\nnop\n#macro\n3pad.", "00 00 00"},
		{"Nested", "#macro pad\nnop\n#macro\n#macro twice r\ninc .r\n2pad.\n#macro\ntwice. b", "04 00 00"},
		{"LiteralArg", "#macro load r v\nld .r .v\n#macro\nload. a &10", "3E 10"},
		{"LabelInBody", "#macro spin\n:spin_here\njr spin_here\n#macro\nnop\nspin.", "00 18 FE"},
		{"ConstantArg", "#db V 9\n#macro put x\nld a .x\n#macro\nput. V", "3E 09"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name, src string
		kind      diag.Kind
	}{
		{"Circular", "#db X Y + 1\n#db Y X + 1\nX", diag.CircularDependency},
		{"SelfReference", "#dw X X\nX", diag.CircularDependency},
		{"UnknownConstant", "ld a NOPE", diag.ConstantNotFound},
		{"UnknownData", "NOPE", diag.ConstantNotFound},
		{"UnknownInExpr", "#db X NOPE + 1", diag.ConstantNotFound},
		{"Negative", "#db N 1 - 2", diag.NegativeResult},
		{"DivByZero", "#db D 1 / 0", diag.DivisionByZero},
		{"ModByZero", "#db D 1 MOD 0", diag.DivisionByZero},
		{"NegativeShift", "#db S 1 SHL (0 - 1)", diag.InvalidShift},
		{"StrInExpr", `#db S "A" + 1`, diag.StrInExpr},
		{"StrConstInExpr", "#db S \"AB\"\n#db T S + 1", diag.StrInExpr},
		{"Shape", "#db X (1 2)", diag.BadExprShape},
		{"DuplicateLabel", ":dup\n:dup", diag.DuplicateKey},
		{"DuplicateDef", "#db D 1\n#dw D 2", diag.DuplicateKey},
		{"NoEncoding", "ld hl a", diag.NotFound},
		{"Z80Only", "rld", diag.NotFound},
		{"BadVector", "rst 3", diag.NotFound},
		{"BadBit", "bit 8 a", diag.NotFound},
		{"ByteOverflow", "ld a &0100", diag.NotFound},
		{"LabelOverflow", "&0100:\n:far\nld a far", diag.ValueOverflow},
		{"JumpTooFar", ":far\n&0100:\njr far", diag.JumpOutOfRange},
		{"MarkerBehind", "nop\nnop\n&0001:", diag.MisplacedMarker},
		{"MissingInclude", `#include "missing.bin"`, diag.IncludeNotFound},
		{"NonASCII", "\"\u00e9\"", diag.NonASCII},
		{"LongStrImmediate", "#db S \"AB\"\nld a S", diag.ValueOverflow},
	}
	for _, tc := range tests {
		assembleAndMatchKind(t, tc.name, tc.src, tc.kind)
	}
}

func TestEarlyStagesStopThePipeline(t *testing.T) {
	tests := []struct {
		name, src string
		stage     diag.Stage
	}{
		{"Split", "nop #if X", diag.StageSplit},
		{"Parse", "&GG", diag.StageParse},
		{"Tree", "ld a (hl", diag.StageAst},
		{"Macros", "nope.", diag.StageMacros},
		{"Validation", "+", diag.StageValidation},
		{"Ops", "jp a", diag.StageOps},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := assembler.New().AssembleString("test.gb", tc.src)
			errs := assembler.Errors(err)
			if len(errs) == 0 {
				t.Fatalf("expected errors, got %v", err)
			}
			for _, e := range errs {
				if e.Kind.Stage() != tc.stage {
					t.Errorf("%v reported by stage %v, want %v", e.Kind, e.Kind.Stage(), tc.stage)
				}
			}
		})
	}
}

func TestConditionalSymbols(t *testing.T) {
	src := "#if DEBUG\nnop\n#else\nhalt\n#endif\nret"
	asm := assembler.New()

	debug, err := asm.AssembleString("test.gb", src, "DEBUG")
	if err != nil {
		t.Fatal(err)
	}
	release, err := asm.AssembleString("test.gb", src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(debug, []byte{0x00, 0xC9}) {
		t.Errorf("with DEBUG: % X", debug)
	}
	if !bytes.Equal(release, []byte{0x76, 0xC9}) {
		t.Errorf("without DEBUG: % X", release)
	}
}

func TestIncludes(t *testing.T) {
	files := map[string][]byte{
		"gfx/tiles.bin": {0xDE, 0xAD},
		"sfx.bin":       {0xBE, 0xEF, 0x01},
	}
	reads := map[string]int{}
	asm := assembler.New()
	asm.ReadBlob = func(path string) ([]byte, error) {
		reads[path]++
		if data, ok := files[path]; ok {
			return data, nil
		}
		return nil, fs.ErrNotExist
	}

	src := `#include "gfx/tiles.bin"
:after
jp after
#include "gfx/tiles.bin"
#import "sfx.bin"`
	code, err := asm.AssembleString("test.gb", src)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xDE, 0xAD, 0xC3, 0x02, 0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x01}
	if !bytes.Equal(code, want) {
		t.Errorf("got % X\nwant % X", code, want)
	}
	if reads["gfx/tiles.bin"] != 1 {
		t.Errorf("tiles.bin read %d times", reads["gfx/tiles.bin"])
	}
}

// header writes a title into the cartridge header and pads past the checksum.
const header = `&0134:
"GBASM TEST"
&014D:
&00
&0150:
nop`

func TestChecksum(t *testing.T) {
	for _, src := range []string{header, "&0150:\nnop", "&0134:\n&FFFF &1234 &0042\n&0150:"} {
		code, err := assembler.New().AssembleString("test.gb", src)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) <= assembler.HeaderChecksum {
			t.Fatalf("image is only %d bytes", len(code))
		}
		sum := 0
		for _, b := range code[assembler.HeaderStart : assembler.HeaderEnd+1] {
			sum += int(b)
		}
		sum += int(code[assembler.HeaderChecksum])
		if byte(sum) != byte(0x100-0x19) {
			t.Errorf("header sums to %#02x with checksum %#02x", byte(sum), code[assembler.HeaderChecksum])
		}
	}
}

func TestChecksumKnownValue(t *testing.T) {
	rom := make([]byte, 0x150)
	if got := assembler.Checksum(rom); got != 0xE7 {
		t.Errorf("zero header checksum is %#02x, want 0xE7", got)
	}
}

func TestShortImageIsNotPatched(t *testing.T) {
	assembleAndMatchHex(t, "Short", "&0140:\n&AA", ff(0x140)+"AA")
}

func TestMarkersLandOnTheirPin(t *testing.T) {
	src := "nop\n&0010:\n&11\n&0020:\n&22\n&0021:\n&33\n&0040:\n&44"
	code, err := assembler.New().AssembleString("test.gb", src)
	if err != nil {
		t.Fatal(err)
	}
	for pin, want := range map[int]byte{0x10: 0x11, 0x20: 0x22, 0x21: 0x33, 0x40: 0x44} {
		if code[pin] != want {
			t.Errorf("byte at %#02x is %#02x, want %#02x", pin, code[pin], want)
		}
	}
	for i := 1; i < 0x10; i++ {
		if code[i] != assembler.Filler {
			t.Fatalf("byte %#02x is %#02x, want filler", i, code[i])
		}
	}
}

func TestDeterminism(t *testing.T) {
	src := header + "\n#macro twice x\nld a .x\nld a .x\n#macro\n#db K 3 * 7\n:main\ntwice. K\njr main\ncall main"
	first, err := assembler.New().AssembleString("test.gb", src)
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := assembler.New().AssembleString("test.gb", src)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("output differs between runs")
		}
	}
}

func TestTrace(t *testing.T) {
	var stages []string
	asm := assembler.New()
	asm.Trace = func(stage string, _ any) { stages = append(stages, stage) }
	if _, err := asm.AssembleString("test.gb", "#db X 1\nld a X"); err != nil {
		t.Fatal(err)
	}
	want := []string{"split", "parse", "tree", "ops", "constants"}
	if !slices.Equal(stages, want) {
		t.Errorf("got stages %v, want %v", stages, want)
	}
}

func TestErrorsHelper(t *testing.T) {
	if assembler.Errors(errors.New("plain")) != nil {
		t.Error("plain errors hold no diagnostics")
	}
	if assembler.Errors(nil) != nil {
		t.Error("nil holds no diagnostics")
	}
}

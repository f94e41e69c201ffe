package parse

import (
	"strings"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// digitsValue accumulates digits right to left.
func digitsValue(digits string, base uint32, digit func(byte) uint32) uint32 {
	var v, mul uint32 = 0, 1
	for i := len(digits) - 1; i >= 0; i-- {
		v += digit(digits[i]) * mul
		mul *= base
	}
	return v
}

func hexDigit(c byte) uint32 {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0')
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10
	}
	return uint32(c-'A') + 10
}

func decDigit(c byte) uint32 { return uint32(c - '0') }

// sized packs v as U8 when the literal is narrow enough, U16 otherwise.
func sized(v uint32, width, byteWidth, wordWidth int) (lex.Value, bool) {
	switch {
	case width <= byteWidth && v <= 0xFF:
		return lex.ByteValue(uint8(v)), true
	case width <= wordWidth && v <= 0xFFFF:
		return lex.WordValue(uint16(v)), true
	}
	return lex.Value{}, false
}

func parseHex(digits string) (lex.Value, bool) {
	if _, ok := lex.CheckHex(digits); !ok || len(digits) > 4 {
		return lex.Value{}, false
	}
	return sized(digitsValue(digits, 16, hexDigit), len(digits), 2, 4)
}

func parseBin(digits string) (lex.Value, diag.Kind) {
	if _, ok := lex.CheckBin(digits); !ok {
		return lex.Value{}, diag.BadBin
	}
	bits := strings.ReplaceAll(digits, "_", "")
	if bits == "" || len(bits) > 16 {
		return lex.Value{}, diag.BadBin
	}
	v, ok := sized(digitsValue(bits, 2, decDigit), len(bits), 8, 16)
	if !ok {
		return lex.Value{}, diag.BadBin
	}
	return v, noErr
}

func parseDec(digits string) (lex.Value, diag.Kind) {
	if _, ok := lex.CheckDec(digits); !ok || len(digits) > 5 {
		return lex.Value{}, diag.BadDec
	}
	v, ok := sized(digitsValue(digits, 10, decDigit), len(digits), 3, 5)
	if !ok {
		return lex.Value{}, diag.BadDec
	}
	return v, noErr
}

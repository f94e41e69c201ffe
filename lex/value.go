package lex

import (
	"encoding/binary"
	"fmt"
)

// ValueType tags the variant held by a Value.
type ValueType int

const (
	// Void is the value of kinds that carry none.
	Void ValueType = iota
	// U8 is a byte.
	U8
	// U16 is a word.
	U16
	// Str is a slice of the source text.
	Str
)

// Value is the payload of a token or constant.
type Value struct {
	Type ValueType
	Num  uint16
	Text string
}

// VoidValue is the empty value.
var VoidValue = Value{}

// ByteValue returns a U8 value.
func ByteValue(v uint8) Value { return Value{Type: U8, Num: uint16(v)} }

// WordValue returns a U16 value.
func WordValue(v uint16) Value { return Value{Type: U16, Num: v} }

// StrValue returns a Str value.
func StrValue(s string) Value { return Value{Type: Str, Text: s} }

// IsNum reports whether the value is a byte or a word.
func (v Value) IsNum() bool { return v.Type == U8 || v.Type == U16 }

// Size is the number of bytes the value occupies in the output.
func (v Value) Size() int {
	switch v.Type {
	case U8:
		return 1
	case U16:
		return 2
	case Str:
		return len(v.Text)
	}
	return 0
}

// Bytes returns the little-endian image of the value.
// Strings must be ASCII.
func (v Value) Bytes() ([]byte, error) {
	switch v.Type {
	case U8:
		return []byte{byte(v.Num)}, nil
	case U16:
		return binary.LittleEndian.AppendUint16(nil, v.Num), nil
	case Str:
		return ASCII(v.Text)
	}
	return nil, fmt.Errorf("void value has no bytes")
}

// ASCII converts s to bytes, failing on anything outside 7-bit ASCII.
func ASCII(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0x7F {
			return nil, fmt.Errorf("non-ASCII character %q", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func (v Value) String() string {
	switch v.Type {
	case U8:
		return fmt.Sprintf("U8(%#02x)", v.Num)
	case U16:
		return fmt.Sprintf("U16(%#04x)", v.Num)
	case Str:
		return fmt.Sprintf("Str(%q)", v.Text)
	}
	return "Void"
}

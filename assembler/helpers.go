package assembler

import (
	"encoding/binary"
	"math"
)

// Cartridge header range covered by the header checksum.
const (
	HeaderStart    = 0x0134
	HeaderEnd      = 0x014C
	HeaderChecksum = 0x014D
)

// fits reports whether v can be written in w bytes.
func fits(v int, w Width) bool {
	switch w {
	case Byte:
		return v >= 0 && v <= math.MaxUint8
	case Word:
		return v >= 0 && v <= math.MaxUint16
	}
	return false
}

// littleEndian appends the low w bytes of v to out.
func littleEndian(out []byte, v int, w Width) []byte {
	if w == Byte {
		return append(out, byte(v))
	}
	return binary.LittleEndian.AppendUint16(out, uint16(v))
}

// Checksum computes the header checksum of rom, which must reach HeaderEnd.
func Checksum(rom []byte) byte {
	var acc byte
	for _, b := range rom[HeaderStart : HeaderEnd+1] {
		acc = acc - b - 1
	}
	return acc
}

// patchChecksum writes the header checksum when the image covers its slot.
func patchChecksum(rom []byte) {
	if len(rom) > HeaderChecksum {
		rom[HeaderChecksum] = Checksum(rom)
	}
}

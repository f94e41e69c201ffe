// Package disassembler turns a Game Boy ROM image back into source the
// assembler accepts.
package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/gbasm/lex"
)

// Instruction represents a single decoded instruction.
type Instruction struct {
	Address  int
	Mnemonic lex.Kind
	Bytes    []byte
	Operands []string
	// Target is the address a jump or call leads to, or -1.
	Target int
	// TargetArg indexes the operand holding the target, or -1.
	TargetArg int
}

// Text renders the instruction with its operands separated by spaces.
func (inst Instruction) Text() string {
	w, _ := inst.Mnemonic.Word()
	if len(inst.Operands) == 0 {
		return w
	}
	return fmt.Sprintf("%-5s %s", w, strings.Join(inst.Operands, " "))
}

// Decode sweeps code linearly from the start. Bytes that don't form an
// instruction come back as nil entries, one per byte.
func Decode(code []byte) []*Instruction {
	var out []*Instruction
	for pc := 0; pc < len(code); {
		inst, ok := decode(code, pc)
		if !ok {
			out = append(out, nil)
			pc++
			continue
		}
		out = append(out, &inst)
		pc += len(inst.Bytes)
	}
	return out
}

// Disassemble returns source that reassembles to the given bytes. Images
// reaching past the header get their checksum recomputed on reassembly.
// Jump and call targets that start a decoded instruction get a label.
func Disassemble(code []byte) string {
	list := Decode(code)

	starts := make(map[int]bool)
	pc := 0
	for _, inst := range list {
		if inst == nil {
			pc++
			continue
		}
		starts[pc] = true
		pc += len(inst.Bytes)
	}

	labels := make(map[int]string)
	for _, inst := range list {
		if inst != nil && starts[inst.Target] && inst.Target <= 0xFFFF {
			labels[inst.Target] = labelName(inst.Target)
		}
	}

	var out strings.Builder
	pc = 0
	for _, inst := range list {
		if inst == nil {
			fmt.Fprintf(&out, "    &%02X\n", code[pc])
			pc++
			continue
		}

		if name, ok := labels[pc]; ok {
			fmt.Fprintf(&out, ":%s\n", name)
		}
		if name, ok := labels[inst.Target]; ok && inst.TargetArg >= 0 {
			inst.Operands[inst.TargetArg] = name
		}
		fmt.Fprintf(&out, "    %s\n", inst.Text())
		pc += len(inst.Bytes)
	}
	return out.String()
}

func labelName(addr int) string {
	return fmt.Sprintf("L%04X", addr)
}

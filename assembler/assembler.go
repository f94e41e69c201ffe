// Package assembler turns Game Boy assembly into a ROM image.
package assembler

import (
	"errors"
	"os"

	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/parse"
	"github.com/Urethramancer/gbasm/source"
)

// Assembler holds the collaborators of the assembly process.
type Assembler struct {
	// ReadBlob reads included binary files.
	ReadBlob func(path string) ([]byte, error)
	// Trace, when set, receives the result of every stage.
	Trace func(stage string, v any)
	// Table is the instruction set.
	Table Table
}

// New creates a new Assembler instance reading includes from disk.
func New() *Assembler {
	return &Assembler{
		ReadBlob: os.ReadFile,
		Table:    Opcodes,
	}
}

func (asm *Assembler) trace(stage string, v any) {
	if asm.Trace != nil {
		asm.Trace(stage, v)
	}
}

// Assemble runs every stage on the main file of src with the given
// conditional symbols defined. It stops at the first stage that reports
// errors and returns them as a diag.List.
func (asm *Assembler) Assemble(src *source.Source, symbols []string) ([]byte, error) {
	words, errs := parse.Split(src.Main(), symbols)
	if len(errs) > 0 {
		return nil, errs
	}
	asm.trace("split", words)

	parsed, errs := parse.Prepare(words)
	if len(errs) > 0 {
		return nil, errs
	}
	asm.trace("parse", parsed)

	tree, macros, errs := ast.Build(parsed, src)
	if len(errs) > 0 {
		return nil, errs
	}
	if errs = macros.Expand(tree); len(errs) > 0 {
		return nil, errs
	}
	root := ast.Refs(tree)
	asm.trace("tree", root)

	if errs = ast.Validate(root); len(errs) > 0 {
		return nil, errs
	}

	program := nodes(root)
	ops, errs := asm.Table.Resolve(program)
	if len(errs) > 0 {
		return nil, errs
	}
	asm.trace("ops", ops)

	consts, errs := Collect(program, src, asm.ReadBlob)
	if len(errs) > 0 {
		return nil, errs
	}
	if errs = consts.Layout(program, ops); len(errs) > 0 {
		return nil, errs
	}
	if errs = consts.Evaluate(); len(errs) > 0 {
		return nil, errs
	}
	asm.trace("constants", consts)

	rom, errs := Encode(program, ops, consts)
	if len(errs) > 0 {
		return nil, errs
	}
	return rom, nil
}

// AssembleString assembles source held in memory.
func (asm *Assembler) AssembleString(name, text string, symbols ...string) ([]byte, error) {
	return asm.Assemble(source.FromString(name, text), symbols)
}

// Errors extracts the diagnostics from an error returned by Assemble.
func Errors(err error) diag.List {
	var l diag.List
	if errors.As(err, &l) {
		return l
	}
	return nil
}

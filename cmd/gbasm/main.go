// Command gbasm assembles a Game Boy source file into a ROM image.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/Urethramancer/gbasm/assembler"
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/source"
)

func main() {
	colour := term.IsTerminal(int(os.Stderr.Fd()))
	if err := run(os.Args[1:], os.Stdout, os.Stderr, colour); err != nil {
		if !errors.Is(err, errHelp) {
			diag.Render(os.Stderr, err, colour)
			os.Exit(1)
		}
	}
}

// run assembles the file named on the command line and writes the ROM.
func run(args []string, out, errOut io.Writer, colour bool) error {
	cl, err := parseArgs(args)
	if err != nil {
		return err
	}
	if errs := cl.Validate(); len(errs) > 0 {
		return errs
	}
	return build(cl, out, errOut, colour)
}

// build runs the assembler for validated arguments.
// Stage dumps go to out when Debug is set.
func build(cl *Clargs, out, errOut io.Writer, colour bool) error {
	src, err := source.Load(cl.Path)
	if err != nil {
		return diag.Newf(diag.SourceUnreadable, diag.Context{File: cl.Path, Column: -1}, "%v", err)
	}

	asm := assembler.New()
	if cl.Debug {
		printer := pp.New()
		printer.SetOutput(out)
		printer.SetColoringEnabled(colour)
		asm.Trace = func(stage string, v any) {
			fmt.Fprintf(out, "--- %s ---\n", stage)
			switch v := v.(type) {
			case interface{ Tree() string }:
				fmt.Fprint(out, v.Tree())
			case fmt.Stringer:
				fmt.Fprintln(out, v.String())
			default:
				printer.Println(v)
			}
		}
	}

	rom, err := asm.Assemble(src, cl.Symbols)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cl.Output, rom, 0644); err != nil {
		return diag.Newf(diag.WriteFailed, diag.Context{File: cl.Output, Column: -1}, "%v", err)
	}
	fmt.Fprintf(errOut, "%s: %d bytes written to %s\n", cl.Path, len(rom), cl.Output)
	return nil
}

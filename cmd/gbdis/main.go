// Command gbdis turns a Game Boy ROM image back into assembly source.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/grimdork/climate/arg"
	"golang.org/x/term"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/disassembler"
)

var errHelp = errors.New("help requested")

func main() {
	colour := term.IsTerminal(int(os.Stderr.Fd()))
	if err := run(os.Args[1:], os.Stdout); err != nil && !errors.Is(err, errHelp) {
		diag.Render(os.Stderr, err, colour)
		os.Exit(1)
	}
}

// run disassembles INPUT to OUTPUT, or to out when no output is named.
func run(args []string, out io.Writer) error {
	opt := arg.New("gbdis")
	opt.SetDefaultHelp(true)
	opt.SetPositional("INPUT", "ROM image to read.", "", false, arg.VarString)
	opt.SetPositional("OUTPUT", "Source file to write.", "", false, arg.VarString)
	err := opt.Parse(args)
	if err != nil && !errors.Is(err, arg.ErrNoArgs) {
		return diag.Newf(diag.UnknownArg, diag.Context{Column: -1}, "%v", err)
	}
	if err == nil && opt.GetBool("help") {
		opt.PrintHelp()
		return errHelp
	}

	input := opt.GetPosString("INPUT")
	if input == "" {
		return diag.New(diag.NoSource, diag.Context{Column: -1})
	}
	code, err := os.ReadFile(input)
	if err != nil {
		return diag.Newf(diag.SourceUnreadable, diag.Context{File: input, Column: -1}, "%v", err)
	}

	text := disassembler.Disassemble(code)
	output := opt.GetPosString("OUTPUT")
	if output == "" {
		_, err = io.WriteString(out, text)
		return err
	}
	if err := os.WriteFile(output, []byte(text), 0644); err != nil {
		return diag.Newf(diag.WriteFailed, diag.Context{File: output, Column: -1}, "%v", err)
	}
	fmt.Fprintf(out, "Disassembly written to %s\n", output)
	return nil
}

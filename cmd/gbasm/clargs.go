package main

import (
	"errors"
	"strings"

	"github.com/grimdork/climate/arg"

	"github.com/Urethramancer/gbasm/diag"
)

// Clargs is the parsed command line.
type Clargs struct {
	Path    string
	Output  string
	Symbols []string
	Debug   bool
	// Extra holds positional arguments after the source path.
	Extra string
}

var errHelp = errors.New("help requested")

// parseArgs reads the command line without the program name.
func parseArgs(args []string) (*Clargs, error) {
	opt := arg.New("gbasm")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "o", "output", "Path of the ROM to write.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "D", "define", "Conditional symbols, separated by commas.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "", "debug", "Print the result of every stage.", false, false, arg.VarBool, nil)
	opt.SetPositional("SOURCE", "Assembly source file.", "", false, arg.VarString)
	opt.SetPositional("EXTRA", "", "", false, arg.VarString)

	err := opt.Parse(args)
	if err != nil {
		if errors.Is(err, arg.ErrNoArgs) {
			return &Clargs{}, nil
		}
		return nil, diag.Newf(diag.UnknownArg, diag.Context{Column: -1}, "%v", err)
	}
	if opt.GetBool("help") {
		opt.PrintHelp()
		return nil, errHelp
	}

	return &Clargs{
		Path:    opt.GetPosString("SOURCE"),
		Output:  opt.GetString("output"),
		Symbols: splitSymbols(opt.GetString("define")),
		Debug:   opt.GetBool("debug"),
		Extra:   opt.GetPosString("EXTRA"),
	}, nil
}

// splitSymbols accepts "A,B" as well as "A B".
func splitSymbols(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// Validate reports missing or superfluous arguments.
func (c *Clargs) Validate() diag.List {
	var errs diag.List
	ctx := diag.Context{Column: -1}
	if c.Path == "" {
		errs.Add(diag.New(diag.NoSource, ctx))
	}
	if c.Output == "" {
		errs.Add(diag.New(diag.NoOutput, ctx))
	}
	if c.Extra != "" {
		errs.Add(diag.Newf(diag.TooManyParams, ctx, "unexpected %q", c.Extra))
	}
	return errs
}

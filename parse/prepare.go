package parse

import (
	"strings"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// Parsed is a classified word with its extracted value.
// One word may produce several tokens, e.g. a marker and its literal.
type Parsed struct {
	Kind  lex.Kind
	Value lex.Value
	Src   Word
}

// Context describes the token for diagnostics.
func (p Parsed) Context() diag.Context { return p.Src.Context(p.Kind) }

// noErr marks the absence of an error kind.
const noErr diag.Kind = -1

// Prepare classifies every word. Words that fail are reported and skipped.
func Prepare(words []Word) ([]Parsed, diag.List) {
	var out []Parsed
	var errs diag.List

	fail := func(k diag.Kind, w Word) {
		errs.Add(diag.New(k, w.Context(lex.Root)))
	}

	// macroLine is the line of the last #macro while its header is being read.
	macroLine := -1
	headerArgs := 0

	for i := 0; i < len(words); i++ {
		w := words[i]

		if macroLine >= 0 && w.LineNumber == macroLine && w.File == words[i-1].File {
			p, kerr := macroHeader(w, headerArgs)
			headerArgs++
			if kerr != noErr {
				fail(kerr, w)
				continue
			}
			out = append(out, p)
			continue
		}
		macroLine = -1

		ps, kerr := identify(w)
		if kerr != noErr {
			fail(kerr, w)
			continue
		}

		switch ps[0].Kind {
		case lex.Macro:
			macroLine = w.LineNumber
			headerArgs = 0

		case lex.DefB, lex.DefW:
			// The next word on the same line names the constant.
			if i+1 >= len(words) || words[i+1].LineNumber != w.LineNumber {
				fail(diag.BadDirectiveIdent, w)
				continue
			}
			i++
			name := words[i]
			if lex.IsReserved(name.Value) {
				fail(diag.ReservedKeyword, name)
				continue
			}
			ident, ok := lex.CheckIdent(name.Value)
			if !ok {
				fail(diag.BadDirectiveIdent, name)
				continue
			}
			ps = append(ps, Parsed{Kind: lex.Identifier, Value: lex.StrValue(ident.String()), Src: name})
		}

		out = append(out, ps...)
	}
	return out, errs
}

// macroHeader reads the words following #macro: the macro's name, then its arguments.
// Arguments may be written with or without the leading dot.
func macroHeader(w Word, n int) (Parsed, diag.Kind) {
	if n == 0 {
		name := strings.TrimSuffix(w.Value, ".")
		ident, ok := lex.CheckIdent(name)
		if !ok {
			return Parsed{}, diag.BadMacroIdent
		}
		return Parsed{Kind: lex.MacroIdent, Value: lex.StrValue(ident.String()), Src: w}, noErr
	}

	ident, ok := lex.CheckIdent(strings.TrimPrefix(w.Value, "."))
	if !ok {
		return Parsed{}, diag.BadMacroArgIdent
	}
	return Parsed{Kind: lex.MacroArg, Value: lex.StrValue(ident.String()), Src: w}, noErr
}

// identify returns the tokens for one word, or the kind of error it raised.
func identify(w Word) ([]Parsed, diag.Kind) {
	word := w.Value
	one := func(k lex.Kind, v lex.Value) []Parsed {
		return []Parsed{{Kind: k, Value: v, Src: w}}
	}

	if word == "" {
		return nil, diag.EmptyStr
	}

	if k, ok := lex.ByWord(word); ok {
		return one(k, lex.VoidValue), noErr
	}

	first := rune(word[0])
	if lex.HasPrefix(first) {
		rest := word[1:]
		switch first {
		case '&':
			return hexWord(w, rest)

		case '%':
			v, kerr := parseBin(rest)
			if kerr != noErr {
				return nil, kerr
			}
			return one(lex.LitBin, v), noErr

		case '"':
			if len(word) < 2 || !strings.HasSuffix(rest, `"`) {
				return nil, diag.BadStr
			}
			s := rest[:len(rest)-1]
			if s == "" {
				return nil, diag.EmptyStr
			}
			return one(lex.LitStr, lex.StrValue(s)), noErr

		case '#':
			k, ok := directives[rest]
			if !ok {
				return nil, diag.BadDirective
			}
			return one(k, lex.VoidValue), noErr

		case '.':
			if rest == "" {
				return nil, diag.BadMacroArg
			}
			ident, ok := lex.CheckIdent(rest)
			if !ok {
				return nil, diag.BadMacroArgIdent
			}
			return one(lex.MacroArg, lex.StrValue(ident.String())), noErr

		case ':':
			if rest == "" {
				return nil, diag.BadLabel
			}
			ident, ok := lex.CheckIdent(rest)
			if !ok {
				return nil, diag.BadLabelIdent
			}
			return one(lex.Label, lex.StrValue(ident.String())), noErr
		}
	}

	if strings.HasSuffix(word, ".") {
		return macroCall(w)
	}

	if lex.IsIdentFirst(first) {
		ident, ok := lex.CheckIdent(word)
		if !ok {
			return nil, diag.BadIdent
		}
		return one(lex.Identifier, lex.StrValue(ident.String())), noErr
	}

	if lex.IsNum(first) {
		v, kerr := parseDec(word)
		if kerr != noErr {
			return nil, kerr
		}
		return one(lex.LitDec, v), noErr
	}

	return nil, diag.BadIdent
}

var directives = map[string]lex.Kind{
	"db":      lex.DefB,
	"dw":      lex.DefW,
	"include": lex.Include,
	"import":  lex.Import,
	"macro":   lex.Macro,
}

// hexWord handles &HH, &HH: and &HH:name.
func hexWord(w Word, rest string) ([]Parsed, diag.Kind) {
	sep := strings.IndexByte(rest, ':')
	if sep < 0 {
		v, ok := parseHex(rest)
		if !ok {
			return nil, diag.BadHex
		}
		return []Parsed{{Kind: lex.LitHex, Value: v, Src: w}}, noErr
	}

	lit, label := rest[:sep], rest[sep+1:]
	if label == "" {
		if lit == "" {
			return nil, diag.BadAnonMark
		}
		v, ok := parseHex(lit)
		if !ok {
			return nil, diag.BadAnonMarkHex
		}
		return []Parsed{
			{Kind: lex.AnonMark, Value: lex.VoidValue, Src: w},
			{Kind: lex.LitHex, Value: v, Src: w},
		}, noErr
	}

	if lit == "" {
		return nil, diag.BadNamedMark
	}
	v, ok := parseHex(lit)
	if !ok {
		return nil, diag.BadNamedMarkHex
	}
	if strings.ContainsRune(label, ':') {
		return nil, diag.BadNamedMarkLabel
	}
	ident, ok := lex.CheckIdent(label)
	if !ok {
		return nil, diag.BadNamedMarkLabelIdent
	}
	return []Parsed{
		{Kind: lex.NamedMark, Value: lex.StrValue(ident.String()), Src: w},
		{Kind: lex.LitHex, Value: v, Src: w},
	}, noErr
}

// macroCall handles name. and Nname. where N repeats the expansion.
func macroCall(w Word) ([]Parsed, diag.Kind) {
	body := strings.TrimSuffix(w.Value, ".")
	digits := 0
	for digits < len(body) && lex.IsNum(rune(body[digits])) {
		digits++
	}

	ident, ok := lex.CheckIdent(body[digits:])
	if !ok {
		return nil, diag.BadMacroIdent
	}
	call := Parsed{Kind: lex.MacroIdent, Value: lex.StrValue(ident.String()), Src: w}
	if digits == 0 {
		return []Parsed{call}, noErr
	}

	n, kerr := parseDec(body[:digits])
	if kerr != noErr {
		return nil, kerr
	}
	return []Parsed{{Kind: lex.Repeat, Value: n, Src: w}, call}, noErr
}

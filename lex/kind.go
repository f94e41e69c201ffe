package lex

// Kind identifies a token within the token tree.
// The hierarchy between kinds is expressed by Parent, not by embedding.
type Kind int

const (
	Root Kind = iota

	Instruction
	InstrName

	// Mnemonics.
	Adc
	Add
	And
	Bit
	Call
	Ccf
	Cp
	Cpl
	Daa
	Dec
	Di
	Ei
	Halt
	Inc
	Jp
	Jr
	Ld
	Ldh
	Ldi
	Ldd
	Ldhl
	Or
	Pop
	Push
	Res
	Ret
	Rl
	Rla
	Rlc
	Rld
	Rr
	Rra
	Rrc
	Rrca
	Rrd
	Rst
	Sbc
	Scf
	Set
	Sla
	Sll
	Sra
	Srl
	Stop
	Sub
	Swap
	Xor
	Reti
	Rlca
	Nop

	Argument

	Register
	A
	B
	C
	D
	E
	H
	L
	Af
	Bc
	De
	Hl
	Sp

	Lit
	LitBin
	LitHex
	LitDec
	LitStr

	At
	At0
	At1

	Flag
	FlagZ
	FlagNz
	FlagC
	FlagNc

	Expr
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
	BinShr
	BinShl
	BinAnd
	BinOr
	BinXor
	UnNot
	UnNeg

	Identifier

	Directive
	DefB
	DefW
	Include
	Import
	Macro
	MacroIdent
	MacroArg
	MacroBody

	Marker
	NamedMark
	AnonMark
	Label

	Repeat
	MacroCall

	kindCount
)

var kindNames = [kindCount]string{
	"Root", "Instruction", "InstrName",
	"Adc", "Add", "And", "Bit", "Call", "Ccf", "Cp", "Cpl", "Daa", "Dec", "Di", "Ei", "Halt",
	"Inc", "Jp", "Jr", "Ld", "Ldh", "Ldi", "Ldd", "Ldhl", "Or", "Pop", "Push", "Res", "Ret",
	"Rl", "Rla", "Rlc", "Rld", "Rr", "Rra", "Rrc", "Rrca", "Rrd", "Rst", "Sbc", "Scf", "Set",
	"Sla", "Sll", "Sra", "Srl", "Stop", "Sub", "Swap", "Xor", "Reti", "Rlca", "Nop",
	"Argument",
	"Register", "A", "B", "C", "D", "E", "H", "L", "Af", "Bc", "De", "Hl", "Sp",
	"Lit", "LitBin", "LitHex", "LitDec", "LitStr",
	"At", "At0", "At1",
	"Flag", "FlagZ", "FlagNz", "FlagC", "FlagNc",
	"Expr", "BinAdd", "BinSub", "BinMul", "BinDiv", "BinMod", "BinShr", "BinShl", "BinAnd",
	"BinOr", "BinXor", "UnNot", "UnNeg",
	"Identifier",
	"Directive", "DefB", "DefW", "Include", "Import", "Macro", "MacroIdent", "MacroArg", "MacroBody",
	"Marker", "NamedMark", "AnonMark", "Label",
	"Repeat", "MacroCall",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// Parent returns the kind that statically encloses k.
func (k Kind) Parent() Kind {
	switch {
	case k == Root, k == Instruction, k == Directive, k == Marker, k == Repeat, k == MacroCall:
		return Root
	case k == InstrName, k == Argument:
		return Instruction
	case k >= Adc && k <= Nop:
		return InstrName
	case k == Register, k == Lit, k == At, k == Flag, k == Expr, k == Identifier:
		return Argument
	case k >= A && k <= Sp:
		return Register
	case k >= LitBin && k <= LitStr:
		return Lit
	case k == At0, k == At1:
		return At
	case k >= FlagZ && k <= FlagNc:
		return Flag
	case k >= BinAdd && k <= UnNeg:
		return Expr
	case k >= DefB && k <= Macro:
		return Directive
	case k >= MacroIdent && k <= MacroBody:
		return Macro
	case k >= NamedMark && k <= Label:
		return Marker
	}
	return Root
}

// HasValue reports whether tokens of this kind carry a value.
func (k Kind) HasValue() bool {
	switch k {
	case LitBin, LitHex, LitDec, LitStr, Identifier, Label, MacroIdent, NamedMark, Repeat, MacroArg:
		return true
	}
	return false
}

// EndsOnNewline reports whether a token of this kind is closed by the end of its line.
func (k Kind) EndsOnNewline() bool {
	switch k {
	case Instruction, Argument, MacroCall, Directive, Marker, Expr, At,
		DefB, DefW, Include, Import, Macro, NamedMark, AnonMark, Label:
		return true
	}
	return false
}

// IsMnemonic reports whether k names an instruction.
func (k Kind) IsMnemonic() bool { return k >= Adc && k <= Nop }

// IsOperator reports whether k is a unary or binary expression operator.
func (k Kind) IsOperator() bool { return k >= BinAdd && k <= UnNeg }

// IsUnary reports whether k is a unary operator.
func (k Kind) IsUnary() bool { return k == UnNot || k == UnNeg }

// IsNumber reports whether k is a numeric literal.
func (k Kind) IsNumber() bool { return k == LitBin || k == LitHex || k == LitDec }

var words = map[string]Kind{
	"adc": Adc, "add": Add, "and": And, "bit": Bit, "call": Call, "ccf": Ccf, "cp": Cp,
	"cpl": Cpl, "daa": Daa, "dec": Dec, "di": Di, "ei": Ei, "halt": Halt, "inc": Inc,
	"jp": Jp, "jr": Jr, "ld": Ld, "ldh": Ldh, "ldi": Ldi, "ldd": Ldd, "ldhl": Ldhl, "or": Or,
	"pop": Pop, "push": Push, "res": Res, "ret": Ret, "rl": Rl, "rla": Rla, "rlc": Rlc,
	"rld": Rld, "rr": Rr, "rra": Rra, "rrc": Rrc, "rrca": Rrca, "rrd": Rrd, "rst": Rst,
	"sbc": Sbc, "scf": Scf, "set": Set, "sla": Sla, "sll": Sll, "sra": Sra, "srl": Srl,
	"stop": Stop, "sub": Sub, "swap": Swap, "xor": Xor, "reti": Reti, "rlca": Rlca, "nop": Nop,

	"a": A, "b": B, "c": C, "d": D, "e": E, "h": H, "l": L,
	"af": Af, "bc": Bc, "de": De, "hl": Hl, "sp": Sp,

	"(": At0, ")": At1,

	"Z": FlagZ, "NZ": FlagNz, "C": FlagC, "NC": FlagNc,

	"+": BinAdd, "-": BinSub, "*": BinMul, "/": BinDiv, "MOD": BinMod,
	"SHR": BinShr, "SHL": BinShl, "AND": BinAnd, "OR": BinOr, "XOR": BinXor,
	"NOT": UnNot, "!": UnNot,
}

// ByWord finds the kind of a reserved word.
func ByWord(word string) (Kind, bool) {
	k, ok := words[word]
	return k, ok
}

// IsReserved reports whether word is a keyword and can't name a constant.
func IsReserved(word string) bool {
	_, ok := words[word]
	return ok
}

// HasPrefix reports whether c introduces a prefixed word (literal, directive, label...).
func HasPrefix(c rune) bool {
	switch c {
	case '&', '%', '"', '#', '.', ':':
		return true
	}
	return false
}

// ByPrefix returns the kinds a word starting with c may produce.
func ByPrefix(c rune) []Kind {
	switch c {
	case '&':
		return []Kind{LitHex, AnonMark, NamedMark}
	case '%':
		return []Kind{LitBin}
	case '"':
		return []Kind{LitStr}
	case '#':
		return []Kind{DefB, DefW, Include, Import, Macro}
	case '.':
		return []Kind{MacroArg}
	case ':':
		return []Kind{Label}
	}
	return nil
}

// ValidUnder reports whether a token of kind k may be a child of a token of kind parent.
func (k Kind) ValidUnder(parent Kind) bool {
	switch k {
	case Root, At0, At1:
		return true
	}

	// Expressions only stand alone as the value of a constant.
	if k == Expr {
		return parent == DefB || parent == DefW
	}

	if k.Parent() == parent {
		return true
	}

	// Expanded macro bodies stand in for the root.
	if parent == MacroBody && (k.Parent() == Root || k == Lit || k == Identifier) {
		return true
	}

	inExpr := parent == Expr || parent == At || parent.IsOperator()

	switch {
	case k.IsOperator(), k == At:
		return inExpr
	case k == Lit:
		switch parent {
		case Root, Include, Import, AnonMark, NamedMark:
			return true
		}
		return inExpr
	case k == Identifier:
		switch parent {
		case Root, DefB, DefW:
			return true
		}
		return inExpr
	case k == Register:
		return parent == At
	case k == MacroBody, k == MacroIdent, k == Repeat:
		return parent == MacroCall
	}
	return false
}

var spellings = func() map[Kind]string {
	m := make(map[Kind]string, len(words))
	for w, k := range words {
		// NOT and ! share a kind; keep the first in byte order.
		if prev, ok := m[k]; ok && prev < w {
			continue
		}
		m[k] = w
	}
	return m
}()

// Word returns the source spelling of a reserved kind.
func (k Kind) Word() (string, bool) {
	w, ok := spellings[k]
	return w, ok
}

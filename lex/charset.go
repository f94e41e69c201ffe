package lex

import "unicode"

// CheckedStr is a string that went through one of the Check functions.
// It can't be built outside this package, which makes forgetting a check harder.
type CheckedStr struct {
	value string
}

// String returns the wrapped value.
func (c CheckedStr) String() string { return c.value }

// NoCheck wraps strings that need no validation.
func NoCheck(s string) CheckedStr { return CheckedStr{value: s} }

// extraSpaces are separators unicode.IsSpace does not report.
var extraSpaces = map[rune]bool{
	0x180E: true, // Mongolian vowel separator
	0x200B: true, // zero width space
	0x200C: true, // zero width non-joiner
	0x200D: true, // zero width joiner
	0x2060: true, // word joiner
	0xFEFF: true, // byte order mark
}

// IsSpace reports whether r separates words.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || extraSpaces[r]
}

// IsWordBreak reports whether r always forms a word on its own.
func IsWordBreak(r rune) bool {
	switch r {
	case '(', ')', '*', '/', '+', '-':
		return true
	}
	return false
}

// IsNum reports whether r is a decimal digit.
func IsNum(r rune) bool { return r >= '0' && r <= '9' }

// IsHex reports whether r is a hexadecimal digit.
func IsHex(r rune) bool {
	return IsNum(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// IsBin reports whether r may appear in a binary literal.
func IsBin(r rune) bool { return r == '0' || r == '1' || r == '_' }

// IsIdentFirst reports whether r can start an identifier.
func IsIdentFirst(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsIdent reports whether r can continue an identifier.
func IsIdent(r rune) bool { return IsIdentFirst(r) || IsNum(r) }

func check(word string, first, rest func(rune) bool) (CheckedStr, bool) {
	if word == "" {
		return CheckedStr{}, false
	}
	for i, r := range word {
		f := rest
		if i == 0 {
			f = first
		}
		if !f(r) {
			return CheckedStr{}, false
		}
	}
	return CheckedStr{value: word}, true
}

// CheckIdent validates an identifier.
func CheckIdent(word string) (CheckedStr, bool) { return check(word, IsIdentFirst, IsIdent) }

// CheckDec validates the digits of a decimal literal.
func CheckDec(word string) (CheckedStr, bool) { return check(word, IsNum, IsNum) }

// CheckHex validates the digits of a hexadecimal literal.
func CheckHex(word string) (CheckedStr, bool) { return check(word, IsHex, IsHex) }

// CheckBin validates the digits of a binary literal, underscores included.
func CheckBin(word string) (CheckedStr, bool) { return check(word, IsBin, IsBin) }

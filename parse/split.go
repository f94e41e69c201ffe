// Package parse turns source text into typed tokens: Split cuts it into words,
// Prepare classifies them and extracts literal values.
package parse

import (
	"slices"
	"strings"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
	"github.com/Urethramancer/gbasm/source"
)

// Word is a slice of source text along with where it came from.
type Word struct {
	Value string
	// Line is the enclosing line with surrounding whitespace trimmed.
	Line       string
	LineNumber int
	File       string
	// Column is the byte offset of Value in Line.
	Column int
}

// Context describes the word for diagnostics.
func (w Word) Context(k lex.Kind) diag.Context {
	return diag.Context{
		Kind:       k,
		File:       w.File,
		LineNumber: w.LineNumber,
		Line:       w.Line,
		Word:       w.Value,
		Column:     w.Column,
	}
}

const (
	dirIf    = "#if"
	dirElse  = "#else"
	dirEndif = "#endif"
)

func isConditional(w string) bool {
	return w == dirIf || w == dirElse || w == dirEndif
}

// condFrame is one open #if block.
type condFrame struct {
	cond   bool
	inElse bool
	opener Word
}

type splitter struct {
	file    string
	symbols []string
	stack   []condFrame
	words   []Word
	errs    diag.List
}

// Split cuts the file into words. Lines disabled by #if/#else/#endif are skipped,
// symbols being the names that are considered defined.
// Errors don't stop the walk; every word that could be split is returned.
func Split(f *source.File, symbols []string) ([]Word, diag.List) {
	s := &splitter{file: f.Name, symbols: symbols}
	for i, raw := range f.Lines() {
		s.line(raw, i+1)
	}
	for _, fr := range s.stack {
		s.errs.Add(diag.Newf(diag.InvalidDirective, fr.opener.Context(lex.Root), "#if without #endif"))
	}
	return s.words, s.errs
}

func (s *splitter) emitting() bool {
	for _, fr := range s.stack {
		if fr.cond == fr.inElse {
			return false
		}
	}
	return true
}

// line splits one physical line then applies it.
func (s *splitter) line(raw string, number int) {
	start := len(raw) - len(strings.TrimLeftFunc(raw, lex.IsSpace))
	trimmed := strings.TrimFunc(raw, lex.IsSpace)

	var words []Word
	push := func(from, to int) {
		words = append(words, Word{
			Value:      raw[from:to],
			Line:       trimmed,
			LineNumber: number,
			File:       s.file,
			Column:     from - start,
		})
	}

	wordStart := -1
	flush := func(at int) {
		if wordStart >= 0 {
			push(wordStart, at)
			wordStart = -1
		}
	}

	inStr := false
	for i, r := range raw {
		if inStr {
			if r == '"' {
				push(wordStart, i+1)
				wordStart = -1
				inStr = false
			}
			continue
		}
		switch {
		case r == '"':
			flush(i)
			wordStart = i
			inStr = true
		case r == ';':
			flush(i)
			s.apply(words)
			return
		case lex.IsWordBreak(r):
			flush(i)
			push(i, i+1)
		case lex.IsSpace(r):
			flush(i)
		case wordStart < 0:
			wordStart = i
		}
	}
	// An unterminated string runs to the end of the line.
	flush(len(raw))
	s.apply(words)
}

// apply handles conditional directives on the line and keeps the words when emitting.
func (s *splitter) apply(words []Word) {
	if len(words) == 0 {
		return
	}

	if isConditional(words[0].Value) {
		s.directive(words)
		return
	}

	if !s.emitting() {
		return
	}

	for _, w := range words {
		if isConditional(w.Value) {
			s.errs.Add(diag.New(diag.MisplacedDirective, w.Context(lex.Root)))
			continue
		}
		s.words = append(s.words, w)
	}
}

func (s *splitter) directive(words []Word) {
	head := words[0]
	bad := func(detail string) {
		s.errs.Add(diag.Newf(diag.InvalidDirective, head.Context(lex.Root), "%s", detail))
	}

	switch head.Value {
	case dirIf:
		if len(words) != 2 {
			bad("#if takes exactly one symbol")
			return
		}
		s.stack = append(s.stack, condFrame{
			cond:   slices.Contains(s.symbols, words[1].Value),
			opener: head,
		})

	case dirElse:
		if len(words) != 1 {
			bad("#else takes no arguments")
			return
		}
		if len(s.stack) == 0 {
			bad("#else without #if")
			return
		}
		top := &s.stack[len(s.stack)-1]
		if top.inElse {
			bad("#else repeated")
			return
		}
		top.inElse = true

	case dirEndif:
		if len(words) != 1 {
			bad("#endif takes no arguments")
			return
		}
		if len(s.stack) == 0 {
			bad("#endif without #if")
			return
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
}

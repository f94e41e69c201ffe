// Package diag holds the structured errors reported by every assembly stage.
package diag

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Urethramancer/gbasm/lex"
)

// MaxIterations bounds loops and recursions that could spin on a malformed tree.
const MaxIterations = 1000

// Context locates the offending token in the assembly source.
type Context struct {
	Kind       lex.Kind
	File       string
	LineNumber int
	// Line is the trimmed source line.
	Line string
	// Word is the offending slice of Line.
	Word string
	// Column is the byte offset of Word in Line, or -1 when unknown.
	Column int
}

// Origin is the place in the assembler that produced an error.
type Origin struct {
	File string
	Line int
}

func (o Origin) String() string {
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

// Error is one diagnostic.
type Error struct {
	Kind   Kind
	Ctx    Context
	Origin Origin
	// Detail adds free-form information, such as a wrapped I/O error.
	Detail string
}

func origin(skip int) Origin {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Origin{File: "?"}
	}
	return Origin{File: filepath.Base(file), Line: line}
}

// New creates an error of kind k for the token described by ctx.
func New(k Kind, ctx Context) *Error {
	return &Error{Kind: k, Ctx: ctx, Origin: origin(1)}
}

// Newf is New with a detail message.
func Newf(k Kind, ctx Context, format string, args ...any) *Error {
	return &Error{Kind: k, Ctx: ctx, Origin: origin(1), Detail: fmt.Sprintf(format, args...)}
}

// Bug reports a broken invariant inside the assembler itself.
func Bug(format string, args ...any) *Error {
	return &Error{
		Kind:   InternalBug,
		Ctx:    Context{Column: -1},
		Origin: origin(1),
		Detail: fmt.Sprintf(format, args...),
	}
}

// IsBug reports whether e is an internal error.
func (e *Error) IsBug() bool { return e.Kind == InternalBug }

func (e *Error) Error() string {
	var b strings.Builder
	if e.Ctx.File != "" || e.Ctx.LineNumber > 0 {
		fmt.Fprintf(&b, "%s:%d: ", e.Ctx.File, e.Ctx.LineNumber)
	}
	b.WriteString(e.Kind.Message())
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Ctx.Word != "" {
		fmt.Fprintf(&b, " (%q)", e.Ctx.Word)
	}
	return b.String()
}

// List collects the errors of one stage in traversal order.
type List []*Error

// Add appends an error.
func (l *List) Add(e *Error) { *l = append(*l, e) }

// HasBug reports whether the list holds an internal error.
func (l List) HasBug() bool {
	for _, e := range l {
		if e.IsBug() {
			return true
		}
	}
	return false
}

// Err returns nil for an empty list.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.Error()
	}
	return fmt.Sprintf("%d errors:\n%s", len(l), strings.Join(lines, "\n"))
}

// Kinds lists the kind of every error, mostly for tests.
func (l List) Kinds() []Kind {
	out := make([]Kind, len(l))
	for i, e := range l {
		out[i] = e.Kind
	}
	return out
}

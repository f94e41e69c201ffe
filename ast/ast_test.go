package ast

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
	"github.com/Urethramancer/gbasm/parse"
	"github.com/Urethramancer/gbasm/source"
)

func parsed(t *testing.T, src string) ([]parse.Parsed, *source.Source) {
	t.Helper()
	s := source.FromString("test.gb", src)
	words, errs := parse.Split(s.Main(), nil)
	if len(errs) > 0 {
		t.Fatalf("split: %v", errs)
	}
	ps, errs := parse.Prepare(words)
	if len(errs) > 0 {
		t.Fatalf("prepare: %v", errs)
	}
	return ps, s
}

// tree runs every tree stage and returns the root view along with all errors.
func tree(t *testing.T, src string) (*Ast, *Ref, diag.List) {
	t.Helper()
	ps, s := parsed(t, src)
	a, m, errs := Build(ps, s)
	if len(errs) > 0 {
		return a, nil, errs
	}
	if errs := m.Expand(a); len(errs) > 0 {
		return a, nil, errs
	}
	root := Refs(a)
	return a, root, Validate(root)
}

func TestTreeShape(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"nop", "nop", "Root{Instruction{InstrName{Nop}}}"},
		{"immediate", "ld a &2A", "Root{Instruction{InstrName{Ld} Argument{Register{A}} Argument{Lit{LitHex}}}}"},
		{"indirect", "ld a (hl)", "Root{Instruction{InstrName{Ld} Argument{Register{A}} Argument{At{Register{Hl}}}}}"},
		{"flag", "jp NZ start", "Root{Instruction{InstrName{Jp} Argument{Flag{FlagNz}} Argument{Identifier}}}"},
		{"anon mark", "&0100:\nnop", "Root{Marker{AnonMark{Lit{LitHex}}} Instruction{InstrName{Nop}}}"},
		{"named mark", "&0150:start nop", "Root{Marker{NamedMark{Lit{LitHex}}} Instruction{InstrName{Nop}}}"},
		{"label", ":loop\njr loop", "Root{Marker{Label} Instruction{InstrName{Jr} Argument{Identifier}}}"},
		{"data", `"HELLO" &10 X`, "Root{Lit{LitStr} Lit{LitHex} Identifier}"},
		{"include", `#include "a.bin"`, "Root{Directive{Include{Lit{LitStr}}}}"},
		{"precedence", "#db X 10 + 2 * 3",
			"Root{Directive{DefB{Identifier Expr{BinAdd{Lit{LitDec} BinMul{Lit{LitDec} Lit{LitDec}}}}}}}"},
		{"left assoc", "#dw X 8 - 2 - 1",
			"Root{Directive{DefW{Identifier Expr{BinSub{BinSub{Lit{LitDec} Lit{LitDec}} Lit{LitDec}}}}}}"},
		{"parens", "#db X (1 + 2) * 3",
			"Root{Directive{DefB{Identifier Expr{BinMul{At{BinAdd{Lit{LitDec} Lit{LitDec}}} Lit{LitDec}}}}}}"},
		{"unary chain", "#db X - - 1",
			"Root{Directive{DefB{Identifier Expr{UnNeg{UnNeg{Lit{LitDec}}}}}}}"},
		{"negative operand", "#db X 1 - -2",
			"Root{Directive{DefB{Identifier Expr{BinSub{Lit{LitDec} UnNeg{Lit{LitDec}}}}}}}"},
		{"loose operators", "#db X 1 + 2 SHL 3 AND 4",
			"Root{Directive{DefB{Identifier Expr{BinAnd{BinShl{BinAdd{Lit{LitDec} Lit{LitDec}} Lit{LitDec}} Lit{LitDec}}}}}}"},
		{"not", "#dw X NOT Y", "Root{Directive{DefW{Identifier Expr{UnNot{Identifier}}}}}"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, root, errs := tree(t, tc.src)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if got := root.String(); got != tc.want {
				t.Errorf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

const swapMacro = `#macro swap_a a b
ld a .a
ld .a .b
ld .b a
#macro
swap_a. b c`

func TestMacroExpansion(t *testing.T) {
	a, root, errs := tree(t, swapMacro)
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	want := "Root{MacroCall{MacroIdent Register{B} Register{C} MacroBody{" +
		"Instruction{InstrName{Ld} Argument{Register{A}} Argument{Register{B}}} " +
		"Instruction{InstrName{Ld} Argument{Register{B}} Argument{Register{C}}} " +
		"Instruction{InstrName{Ld} Argument{Register{C}} Argument{Register{A}}}}}}"
	if got := root.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	checkArena(t, a)
}

func TestMacroExpansionLocations(t *testing.T) {
	_, root, errs := tree(t, swapMacro)
	if len(errs) > 0 {
		t.Fatal(errs)
	}

	// Substituted arguments point at the call, body words at the declaration.
	body := root.First().FirstOf(lex.MacroBody)
	for i, instr := range body.Children() {
		name := instr.FirstOf(lex.InstrName)
		if got := name.Token().LineNumber; got != i+2 {
			t.Errorf("instruction %d on line %d, want %d", i, got, i+2)
		}
	}
	body.Walk(func(r *Ref) bool {
		line := r.Token().LineNumber
		switch r.Kind() {
		case lex.B, lex.C:
			if line != 6 {
				t.Errorf("argument %v on line %d", r.Kind(), line)
			}
		case lex.A:
			if line == 6 {
				t.Errorf("body register %v stamped with the call line", r.Kind())
			}
		}
		return true
	})
}

func TestMacroRepeatAndNesting(t *testing.T) {
	src := `#macro pad
nop
#macro
#macro twice r
inc .r
3pad.
#macro
twice. b`
	a, root, errs := tree(t, src)
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	want := "Root{MacroCall{MacroIdent Register{B} MacroBody{" +
		"Instruction{InstrName{Inc} Argument{Register{B}}} " +
		"MacroCall{Repeat MacroIdent MacroBody{" +
		"Instruction{InstrName{Nop}} Instruction{InstrName{Nop}} Instruction{InstrName{Nop}}}}}}}"
	if got := root.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	checkArena(t, a)
}

func TestTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diag.Kind
	}{
		{"open paren", "ld a (hl", diag.UnmatchedParen},
		{"close paren", "ld a hl)", diag.UnmatchedParen},
		{"no lhs", "#db X * 2", diag.BinaryWithoutLhs},
		{"no rhs", "#db X 2 *", diag.BinaryWithoutRhs},
		{"no unary rhs", "#db X 2 !", diag.UnaryWithoutRhs},
		{"unclosed macro", "#macro m\nnop", diag.UnclosedMacro},
		{"empty", "; nothing", diag.NoTokens},
		{"unknown macro", "nope.", diag.DeclNotFound},
		{"arity", "#macro m a\nnop\n#macro\nm.", diag.ArgCountMismatch},
		{"unknown arg", "#macro m a\nld .b a\n#macro\nm. b", diag.ArgNotFound},
		{"recursion", "#macro m\nm.\n#macro\nm.", diag.RecursiveMacro},
		{"mutual recursion", "#macro m\nn.\n#macro\n#macro n\nm.\n#macro\nm.", diag.RecursiveMacro},
		{"duplicate macro", "#macro m\nnop\n#macro\n#macro m\nnop\n#macro", diag.DuplicateMacro},
		{"duplicate arg", "#macro m a a\nnop\n#macro", diag.BadDecl},
		{"stray arg", ".a", diag.InvalidParent},
		{"stray operator", "+", diag.InvalidParent},
		{"label in parens", "ld a (:x)", diag.InvalidParent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, errs := tree(t, tc.src)
			if !slices.Contains(errs.Kinds(), tc.kind) {
				t.Errorf("got %v, want %v", errs.Kinds(), tc.kind)
			}
		})
	}
}

func TestRefNavigation(t *testing.T) {
	_, root, errs := tree(t, "ld a &2A\nnop")
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	ld := root.First()
	if ld.Parent() != root || root.Parent() != root {
		t.Error("parent links are wrong")
	}
	if ld.Right() != root.Get(1) || root.Get(1).Right() != nil {
		t.Error("right sibling links are wrong")
	}
	if ld.Leaf().Kind().String() != "Ld" {
		t.Errorf("leaf is %v", ld.Leaf().Kind())
	}
	if _, ok := root.TryGet(5); ok {
		t.Error("TryGet out of range should fail")
	}
	if lit := ld.Get(2).Leaf(); lit.Value().Num != 0x2A {
		t.Errorf("literal value %v", lit.Value())
	}
}

// checkArena verifies that parent and child links agree.
func checkArena(t *testing.T, a *Ast) {
	t.Helper()
	if a.Root().Parent != 0 {
		t.Error("root is not its own parent")
	}
	claimed := make(map[int]int)
	for _, tok := range a.Tokens {
		seen := map[int]bool{}
		for _, c := range tok.Children {
			if seen[c] {
				t.Fatalf("token %d lists child %d twice", tok.Index, c)
			}
			seen[c] = true
			if a.Tokens[c].Parent != tok.Index {
				t.Fatalf("child %d of %d has parent %d", c, tok.Index, a.Tokens[c].Parent)
			}
			if p, ok := claimed[c]; ok {
				t.Fatalf("token %d claimed by %d and %d", c, p, tok.Index)
			}
			claimed[c] = tok.Index
		}
	}
	for _, tok := range a.Tokens[1:] {
		if tok.Parent != tok.Index && claimed[tok.Index] != tok.Parent {
			t.Fatalf("token %d points at %d which does not list it", tok.Index, tok.Parent)
		}
	}
}

func TestArenaIntegrity(t *testing.T) {
	for _, src := range []string{
		swapMacro,
		"#db X (1 + (2 * 3)) MOD 4\nX X",
		"&0100:\nnop\n:main\njp main\n&0150:entry\nld bc &1234",
	} {
		a, _, errs := tree(t, src)
		if len(errs) > 0 {
			t.Fatal(errs)
		}
		checkArena(t, a)
	}
}

// Shuffled valid tokens must never hang or corrupt the arena.
func TestBuildRandomPermutations(t *testing.T) {
	ps, s := parsed(t, swapMacro+"\n#db X (1 + 2) * -3\n&0100:\n:l\nld a (hl)\njp NZ l\n2swap_a. d e")
	rng := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		shuffled := slices.Clone(ps)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		// Keep line numbers ascending so the shuffle also crosses line boundaries.
		for i := range shuffled {
			shuffled[i].Src.LineNumber = ps[i].Src.LineNumber
		}

		a, m, errs := Build(shuffled, s)
		if errs.HasBug() {
			t.Fatalf("internal error: %v", errs)
		}
		if len(errs) == 0 {
			m.Expand(a)
		}
		checkArena(t, a)
	}
}

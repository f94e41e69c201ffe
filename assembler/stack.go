package assembler

import "github.com/Urethramancer/gbasm/lex"

// stackOps covers PUSH and POP. The register field swaps SP for AF.
func stackOps() Table {
	pairs := [4]Shape{ty(lex.Bc), ty(lex.De), ty(lex.Hl), ty(lex.Af)}
	var push, pop []Entry
	for i, rr := range pairs {
		push = append(push, op(0xC5|byte(i)<<4, 1, rr))
		pop = append(pop, op(0xC1|byte(i)<<4, 1, rr))
	}
	return Table{lex.Push: push, lex.Pop: pop}
}

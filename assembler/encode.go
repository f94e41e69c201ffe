package assembler

import (
	"github.com/Urethramancer/gbasm/ast"
	"github.com/Urethramancer/gbasm/diag"
	"github.com/Urethramancer/gbasm/lex"
)

// Filler is written between the end of the code and the next marker.
const Filler = 0xFF

// Encode writes the program and patches the header checksum.
func Encode(ns []Node, ops OpMap, c *Constants) ([]byte, diag.List) {
	var errs diag.List
	var out []byte
	for _, n := range ns {
		var err *diag.Error
		switch n.Type {
		case NodeInstruction:
			out, err = encodeInstruction(out, n, ops, c)

		case NodeMarker:
			out, err = pad(out, n.Inner())

		case NodeData:
			var data []byte
			if data, err = c.dataBytes(n.Ref); err == nil {
				out = append(out, data...)
			}

		case NodeDirective:
			var data []byte
			if data, err = c.directiveBytes(n); err == nil {
				out = append(out, data...)
			}
		}

		if err != nil {
			errs.Add(err)
			if err.IsBug() {
				return nil, errs
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	patchChecksum(out)
	return out, nil
}

// pad fills the output up to a marker's pin. Labels write nothing.
func pad(out []byte, mark *ast.Ref) ([]byte, *diag.Error) {
	if mark == nil || mark.Kind() == lex.Label {
		return out, nil
	}
	pin, err := markerPin(mark)
	if err != nil {
		return out, err
	}
	if len(out) > int(pin) {
		return out, diag.Bug("marker %#04x behind output length %#04x", pin, len(out))
	}
	for len(out) < int(pin) {
		out = append(out, Filler)
	}
	return out, nil
}

// encodeInstruction writes the prefix, the opcode and the immediate, if any.
// Immediates take whatever length the encoding has left. An encoding longer
// than its opcode with no immediate argument is padded with zeroes.
func encodeInstruction(out []byte, n Node, ops OpMap, c *Constants) ([]byte, *diag.Error) {
	o, ok := ops[n.Ref.Index()]
	if !ok {
		return out, diag.Bug("instruction at line %d has no opcode", n.Ref.Token().LineNumber)
	}
	start := len(out)
	if o.CB {
		out = append(out, 0xCB)
	}
	out = append(out, o.Code)

	rest := o.Length - o.opBytes()
	if rest <= 0 {
		return out, nil
	}
	if rest > int(Word) {
		return out, diag.Bug("%v leaves %d bytes for its immediate", o, rest)
	}
	w := Width(rest)

	var r *ast.Ref
	for _, arg := range n.Arguments() {
		if r = immediateOf(arg); r != nil {
			break
		}
	}
	if r == nil {
		return append(out, make([]byte, rest)...), nil
	}

	v, err := c.immediate(r)
	if err != nil {
		return out, err
	}

	if relative(n.Mnemonic()) && r.Kind() == lex.Identifier && v.Type == lex.U16 {
		disp := int(v.Num) - (start + o.Length)
		if disp < -128 || disp > 127 {
			return out, diag.Newf(diag.JumpOutOfRange, r.Context(), "%s is %d bytes away", r.Value().Text, disp)
		}
		return append(out, byte(int8(disp))), nil
	}

	num := int(v.Num)
	if v.Type == lex.Str {
		num = int(v.Text[0])
	}
	if !fits(num, w) {
		return out, diag.Newf(diag.ValueOverflow, r.Context(), "%#x does not fit in %d byte(s)", num, w)
	}
	return littleEndian(out, num, w), nil
}

// immediate returns the value of a literal or a constant used as an operand.
func (c *Constants) immediate(r *ast.Ref) (lex.Value, *diag.Error) {
	v := r.Leaf().Value()
	if r.Kind() == lex.Identifier {
		k, ok := c.Get(r.Value().Text)
		if !ok {
			return v, diag.Newf(diag.ConstantNotFound, r.Context(), "%s", r.Value().Text)
		}
		if k.Kind != ConstValue {
			return v, diag.Bug("constant %s is still %v", r.Value().Text, k)
		}
		v = k.Value
	}
	if v.Type == lex.Str {
		if len(v.Text) != 1 {
			return v, diag.Newf(diag.ValueOverflow, r.Context(), "string %q as immediate", v.Text)
		}
		if v.Text[0] > 0x7F {
			return v, diag.New(diag.NonASCII, r.Context())
		}
	}
	return v, nil
}

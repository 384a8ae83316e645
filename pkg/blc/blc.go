// Package blc implements the Binary Lambda Calculus bit-level codec:
// `00` + body encodes a Lambda, `01` + left + right encodes an Apply,
// and a Term's de Bruijn index k encodes as k one-bits followed by a
// zero-bit.
package blc

import (
	"fmt"
	"strings"

	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
)

// EncodeBits flattens e into its raw BLC bitstream.
func EncodeBits(e *expr.Expr) []bool {
	var bits []bool
	appendBits(&bits, e)
	return bits
}

func appendBits(bits *[]bool, e *expr.Expr) {
	switch e.Kind() {
	case expr.KindTerm:
		for i := uint64(0); i < e.Index(); i++ {
			*bits = append(*bits, true)
		}
		*bits = append(*bits, false)

	case expr.KindLambda:
		*bits = append(*bits, false, false)
		appendBits(bits, e.Body())

	case expr.KindApply:
		*bits = append(*bits, false, true)
		appendBits(bits, e.Func())
		appendBits(bits, e.Arg())
	}
}

// Encode renders e as text in the given alphabet.
func Encode(e *expr.Expr, alphabet Alphabet) string {
	var sb strings.Builder
	for _, bit := range EncodeBits(e) {
		alphabet.Append(&sb, bit)
	}
	return sb.String()
}

// EncodeBytes packs e's bitstream into bytes, most significant bit
// first, padding the final byte with zero bits.
func EncodeBytes(e *expr.Expr) []byte {
	bits := EncodeBits(e)
	out := make([]byte, 0, (len(bits)+7)/8)
	var cur byte
	var n int
	for _, bit := range bits {
		cur <<= 1
		if bit {
			cur |= 1
		}
		n++
		if n == 8 {
			out = append(out, cur)
			cur, n = 0, 0
		}
	}
	if n > 0 {
		out = append(out, cur<<(8-n))
	}
	return out
}

// decoder walks a bool iterator against the BLC grammar, tracking how
// many Lambda binders currently enclose the position being decoded so
// a Term's index can be checked against it.
type decoder struct {
	f     *expr.Factory
	bits  []bool
	pos   int
	scope uint64
}

func (d *decoder) next() (bool, bool) {
	if d.pos >= len(d.bits) {
		return false, false
	}
	b := d.bits[d.pos]
	d.pos++
	return b, true
}

func (d *decoder) decodeExpr() (*expr.Expr, error) {
	first, ok := d.next()
	if !ok {
		return nil, &diagnostics.MalformedBLCError{Reason: "unexpected end of input"}
	}
	if first {
		return d.decodeTerm()
	}
	second, ok := d.next()
	if !ok {
		return nil, &diagnostics.MalformedBLCError{Reason: "unexpected end of input"}
	}
	if second {
		return d.decodeApply()
	}
	return d.decodeLambda()
}

func (d *decoder) decodeTerm() (*expr.Expr, error) {
	index := uint64(1)
	for {
		bit, ok := d.next()
		if !ok {
			return nil, &diagnostics.MalformedBLCError{Reason: "unexpected end of input in term"}
		}
		if !bit {
			break
		}
		index++
	}
	if index > d.scope {
		return nil, &diagnostics.MalformedBLCError{
			Reason: fmt.Sprintf("term index %d exceeds enclosing binder count %d", index, d.scope),
		}
	}
	return expr.NewTerm(index), nil
}

func (d *decoder) decodeLambda() (*expr.Expr, error) {
	d.scope++
	body, err := d.decodeExpr()
	d.scope--
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("x%d", d.scope+1)
	return d.f.Lambda(name, body), nil
}

func (d *decoder) decodeApply() (*expr.Expr, error) {
	left, err := d.decodeExpr()
	if err != nil {
		return nil, err
	}
	right, err := d.decodeExpr()
	if err != nil {
		return nil, err
	}
	return d.f.Apply(left, right), nil
}

// DecodeBits parses a raw BLC bitstream into an Expr, allocated
// through f.
func DecodeBits(bits []bool, f *expr.Factory) (*expr.Expr, error) {
	d := &decoder{f: f, bits: bits}
	e, err := d.decodeExpr()
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Decode parses text encoded in the given alphabet into an Expr.
func Decode(s string, alphabet Alphabet, f *expr.Factory) (*expr.Expr, error) {
	return DecodeBits(alphabet.Extract(s), f)
}

// DecodeBytes parses a packed byte stream into an Expr.
func DecodeBytes(data []byte, f *expr.Factory) (*expr.Expr, error) {
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, (b>>shift)&1 == 1)
		}
	}
	return DecodeBits(bits, f)
}

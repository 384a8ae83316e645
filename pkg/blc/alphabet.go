package blc

import "strings"

// Alphabet renders a BLC bitstream as text and recovers it again. The
// same longest-match, ignore-everything-else scan works for every
// token choice: the default ASCII alphabet's habit of skipping
// whitespace and comments between bits is not special-cased, it falls
// out of scanning for the next zero or one token wherever it occurs.
type Alphabet interface {
	Append(sb *strings.Builder, bit bool)
	Extract(s string) []bool
}

type textAlphabet struct {
	zero, one string
}

// ASCII is the default alphabet: "0" for a zero bit, "1" for a one
// bit, anything else ignored.
func ASCII() Alphabet { return textAlphabet{zero: "0", one: "1"} }

// CustomAlphabet uses the given strings as the zero and one tokens.
// zero and one must be non-empty and different.
func CustomAlphabet(zero, one string) Alphabet { return textAlphabet{zero: zero, one: one} }

// ZeroWidth uses the zero-width unicode characters U+FFA0 (HALFWIDTH
// HANGUL FILLER) and U+3164 (HANGUL FILLER) as its tokens, letting an
// encoded program hide inside ordinary-looking whitespace.
func ZeroWidth() Alphabet { return textAlphabet{zero: "ﾠ", one: "ㅤ"} }

func (t textAlphabet) Append(sb *strings.Builder, bit bool) {
	if bit {
		sb.WriteString(t.one)
	} else {
		sb.WriteString(t.zero)
	}
}

func (t textAlphabet) Extract(s string) []bool {
	var bits []bool
	for {
		zeroIdx := strings.Index(s, t.zero)
		oneIdx := strings.Index(s, t.one)
		if zeroIdx < 0 && oneIdx < 0 {
			return bits
		}
		if zeroIdx >= 0 && (oneIdx < 0 || zeroIdx < oneIdx || (zeroIdx == oneIdx && len(t.zero) > len(t.one))) {
			bits = append(bits, false)
			s = s[zeroIdx+len(t.zero):]
		} else {
			bits = append(bits, true)
			s = s[oneIdx+len(t.one):]
		}
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package trit

import (
	"strings"
)

const (
	WORD_TRITS = 27 // Trits per machine word.

	POW3_27   = 7_625_597_484_987 // 3^27
	MAX_VALUE = (POW3_27 - 1) / 2 // Largest representable word value.
	MIN_VALUE = -MAX_VALUE        // Smallest representable word value.
)

// Word is a 27-trit balanced-ternary machine word. Trit 0 is the least
// significant digit. Words are values; arithmetic returns new words.
type Word [WORD_TRITS]Trit

// Add returns x + y and the overflow trit: the carry, if any, that would
// have propagated out of the most significant position.
func (x Word) Add(y Word) (sum Word, overflow Trit) {
	carry := ZERO
	for i := range sum {
		sum[i], carry = AddTrits(x[i], y[i], carry)
	}
	overflow = carry
	return
}

// Neg returns -x. Negation inverts every trit and is always exact; balanced
// ternary needs no two's-complement style bias.
func (x Word) Neg() (out Word) {
	for i, t := range x {
		out[i] = -t
	}
	return
}

// Sub returns x - y and the overflow trit.
func (x Word) Sub(y Word) (diff Word, overflow Trit) {
	return x.Add(y.Neg())
}

// Mul returns the low 27 trits of x * y via ternary long multiplication.
// The overflow trit is the sign of the discarded high half, or ZERO when
// the product fit exactly.
func (x Word) Mul(y Word) (low Word, overflow Trit) {
	var acc [2 * WORD_TRITS]Trit

	for i, yt := range y {
		if yt == ZERO {
			continue
		}
		part := x
		if yt == NEG {
			part = x.Neg()
		}
		carry := ZERO
		for j := range WORD_TRITS {
			acc[i+j], carry = AddTrits(acc[i+j], part[j], carry)
		}
		for k := i + WORD_TRITS; carry != ZERO && k < len(acc); k++ {
			acc[k], carry = AddTrits(acc[k], ZERO, carry)
		}
	}

	copy(low[:], acc[:WORD_TRITS])
	for i := len(acc) - 1; i >= WORD_TRITS; i-- {
		if acc[i] != ZERO {
			overflow = acc[i]
			break
		}
	}
	return
}

// Cmp returns the sign of x - y as a trit. When the subtraction overflows
// the escaping carry is the true most significant digit, so comparison
// itself can never overflow.
func (x Word) Cmp(y Word) Trit {
	diff, overflow := x.Sub(y)
	if overflow != ZERO {
		return overflow
	}
	return diff.Sign()
}

// Sign returns the sign of the word: its most significant nonzero trit,
// or ZERO for the zero word.
func (x Word) Sign() Trit {
	for i := WORD_TRITS - 1; i >= 0; i-- {
		if x[i] != ZERO {
			return x[i]
		}
	}
	return ZERO
}

// Min returns the per-trit Kleene minimum of x and y.
func (x Word) Min(y Word) (out Word) {
	for i := range out {
		out[i] = Min(x[i], y[i])
	}
	return
}

// Max returns the per-trit Kleene maximum of x and y.
func (x Word) Max(y Word) (out Word) {
	for i := range out {
		out[i] = Max(x[i], y[i])
	}
	return
}

// Shl shifts left by n trit positions (multiplies by 3^n). The overflow
// trit is the sign of the trits shifted out of the top. Shift counts are
// clamped to [0, 27].
func (x Word) Shl(n int) (out Word, overflow Trit) {
	if n < 0 {
		n = 0
	}
	if n > WORD_TRITS {
		n = WORD_TRITS
	}
	for i := WORD_TRITS - 1; i >= WORD_TRITS-n; i-- {
		if x[i] != ZERO {
			overflow = x[i]
			break
		}
	}
	copy(out[n:], x[:WORD_TRITS-n])
	return
}

// Shr shifts right by n trit positions. Dropping the low n balanced trits
// rounds the value to the nearest multiple of 3^n; a tie is impossible.
// Shift counts are clamped to [0, 27].
func (x Word) Shr(n int) (out Word) {
	if n < 0 {
		n = 0
	}
	if n > WORD_TRITS {
		n = WORD_TRITS
	}
	copy(out[:WORD_TRITS-n], x[n:])
	return
}

// Int64 returns the signed integer value of the word.
func (x Word) Int64() (value int64) {
	power := int64(1)
	for _, t := range x {
		value += int64(t) * power
		power *= 3
	}
	return
}

// Field returns the signed value of the trit subrange [lo, hi), used for
// instruction field extraction.
func (x Word) Field(lo, hi int) (value int64) {
	power := int64(1)
	for i := lo; i < hi && i < WORD_TRITS; i++ {
		value += int64(x[i]) * power
		power *= 3
	}
	return
}

// FromInt64 converts a signed integer into a word, failing with ErrRange
// when the value exceeds the representable range.
func FromInt64(value int64) (w Word, err error) {
	if value > MAX_VALUE || value < MIN_VALUE {
		err = ErrRange
		return
	}

	n := value
	for i := 0; n != 0; i++ {
		rem := n % 3
		n /= 3
		if rem > 1 {
			rem -= 3
			n++
		} else if rem < -1 {
			rem += 3
			n--
		}
		w[i] = Trit(rem)
	}
	return
}

// String formats the word most-significant trit first, in three groups of
// nine digits.
func (x Word) String() string {
	var sb strings.Builder
	for i := WORD_TRITS - 1; i >= 0; i-- {
		sb.WriteString(x[i].String())
		if i%9 == 0 && i != 0 {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Parse converts a most-significant-first trit string of '+', '0' and '-'
// digits into a word. Underscores are ignored as grouping.
func Parse(text string) (w Word, err error) {
	pos := 0
	for n := len(text) - 1; n >= 0; n-- {
		c := text[n]
		if c == '_' {
			continue
		}
		if pos >= WORD_TRITS {
			err = ErrParseWord(text)
			return
		}
		switch c {
		case '+':
			w[pos] = POS
		case '0':
			w[pos] = ZERO
		case '-':
			w[pos] = NEG
		default:
			err = ErrParseWord(text)
			return
		}
		pos++
	}
	return
}

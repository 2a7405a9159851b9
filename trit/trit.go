// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package trit

// Trit is a single balanced-ternary digit.
type Trit int8

//go:generate go tool stringer -linecomment -type=Trit
const (
	NEG  = Trit(-1) // -
	ZERO = Trit(0)  // 0
	POS  = Trit(1)  // +
)

// tritSum is one entry of the full adder table.
type tritSum struct {
	Sum   Trit
	Carry Trit
}

// The full adder table, indexed by [a+1][b+1][carry+1].
//
// Each entry satisfies a + b + carry == Sum + 3*Carry. The digit sums
// -3..3 map to:
//
//	-3 -> ( 0, -1)    -2 -> (+1, -1)    -1 -> (-1, 0)
//	 0 -> ( 0,  0)
//	+1 -> (+1,  0)    +2 -> (-1, +1)    +3 -> ( 0, +1)
var _adder = [3][3][3]tritSum{
	{ // a = -1
		{{ZERO, NEG}, {POS, NEG}, {NEG, ZERO}},   // b = -1
		{{POS, NEG}, {NEG, ZERO}, {ZERO, ZERO}},  // b =  0
		{{NEG, ZERO}, {ZERO, ZERO}, {POS, ZERO}}, // b = +1
	},
	{ // a = 0
		{{POS, NEG}, {NEG, ZERO}, {ZERO, ZERO}},  // b = -1
		{{NEG, ZERO}, {ZERO, ZERO}, {POS, ZERO}}, // b =  0
		{{ZERO, ZERO}, {POS, ZERO}, {NEG, POS}},  // b = +1
	},
	{ // a = +1
		{{NEG, ZERO}, {ZERO, ZERO}, {POS, ZERO}}, // b = -1
		{{ZERO, ZERO}, {POS, ZERO}, {NEG, POS}},  // b =  0
		{{POS, ZERO}, {NEG, POS}, {ZERO, POS}},   // b = +1
	},
}

// AddTrits adds two trits and a carry trit, returning the sum digit and
// the carry out. Unlike a binary full adder, the carry out may be negative.
func AddTrits(a, b, carry Trit) (sum Trit, carryOut Trit) {
	entry := _adder[a+1][b+1][carry+1]
	return entry.Sum, entry.Carry
}

// Neg returns the additive inverse of the trit.
func (t Trit) Neg() Trit {
	return -t
}

// Min returns the Kleene minimum of two trits, with NEG < ZERO < POS.
// This is balanced ternary's analogue of logical AND.
func Min(a, b Trit) Trit {
	if a < b {
		return a
	}
	return b
}

// Max returns the Kleene maximum of two trits, the analogue of logical OR.
func Max(a, b Trit) Trit {
	if a > b {
		return a
	}
	return b
}

// Pow3 returns 3^n as an int64.
func Pow3(n int) (power int64) {
	power = 1
	for range n {
		power *= 3
	}
	return
}

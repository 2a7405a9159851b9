// Package trit implements balanced-ternary arithmetic for the ternvm system.
//
// The primitive is the Trit, a digit in {-1, 0, +1}. The machine datum is
// the Word, a fixed field of 27 trits stored least-significant first. All
// word arithmetic is carried out digit-by-digit through a table-driven full
// trit adder, so carries propagate exactly as they would in hardware; a
// carry out of the most significant position is reported as an overflow
// trit, never silently wrapped into the result.
package trit

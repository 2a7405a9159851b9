// Package cpu implements the ternvm balanced-ternary processor.
//
// The machine is 27 general-purpose 27-trit registers (r0 reads as zero
// and discards writes), a program counter, a status word holding the sign
// and overflow trits of the last ALU result, and a bounded word-addressable
// memory. Step drives one fetch/decode/execute cycle; decode and memory
// faults surface as trapped outcomes that leave the machine untouched,
// while arithmetic overflow is status information and never a fault.
package cpu

package cpu

import (
	"github.com/ezrec/ternvm/trit"
)

const (
	REG_COUNT = 27 // General-purpose registers r0..r26.
)

// Status is the machine status word: the sign trit of the last ALU result
// and the direction of the last arithmetic overflow.
type Status struct {
	Sign     trit.Trit
	Overflow trit.Trit
}

// Word packs the status into a word: trit 0 is the sign, trit 1 the
// overflow direction.
func (st Status) Word() (w trit.Word) {
	w[0] = st.Sign
	w[1] = st.Overflow
	return
}

// Registers is the register file: 27 general-purpose words plus the
// program counter and status word. r0 always reads as the zero word and
// discards writes, giving programs a free zero source and a discard
// target. The PC and status are reachable only through their accessors,
// never through the indexed namespace.
type Registers struct {
	gpr    [REG_COUNT]trit.Word
	pc     trit.Word
	status Status
}

// Read returns the value of a general-purpose register.
func (reg *Registers) Read(index int) (value trit.Word, err error) {
	if index < 0 || index >= REG_COUNT {
		err = ErrRegisterRange
		return
	}
	value = reg.read(index)
	return
}

// Write sets a general-purpose register. A write to r0 is accepted and
// discarded.
func (reg *Registers) Write(index int, value trit.Word) (err error) {
	if index < 0 || index >= REG_COUNT {
		err = ErrRegisterRange
		return
	}
	reg.write(index, value)
	return
}

// read is the engine-side read; the decoder has already bounded the index.
func (reg *Registers) read(index int) trit.Word {
	return reg.gpr[index]
}

func (reg *Registers) write(index int, value trit.Word) {
	if index == 0 {
		return
	}
	reg.gpr[index] = value
}

// PC returns the program counter.
func (reg *Registers) PC() trit.Word {
	return reg.pc
}

// SetPC sets the program counter.
func (reg *Registers) SetPC(pc trit.Word) {
	reg.pc = pc
}

// Status returns the status word.
func (reg *Registers) Status() Status {
	return reg.status
}

// SetStatus sets the status word.
func (reg *Registers) SetStatus(st Status) {
	reg.status = st
}

// Reset zeros every register, the PC and the status word.
func (reg *Registers) Reset() {
	*reg = Registers{}
}

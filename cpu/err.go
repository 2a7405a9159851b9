package cpu

import (
	"errors"

	"github.com/ezrec/ternvm/translate"
	"github.com/ezrec/ternvm/trit"
)

var f = translate.From

var (
	// Engine errors
	ErrMachineHalted = errors.New(f("machine halted"))
	ErrFetch         = errors.New(f("fetch"))
	ErrSnapshot      = errors.New(f("snapshot capacity mismatch"))

	// Register file errors
	ErrRegisterRange = errors.New(f("register index out of range"))

	// Encoder errors
	ErrImmediate = errors.New(f("immediate out of range"))
)

// ErrAddress reports a memory access outside [0, capacity).
type ErrAddress int64

func (err ErrAddress) Error() string {
	return f("address %v out of memory range", int64(err))
}

func (err ErrAddress) Is(other error) (ok bool) {
	_, ok = other.(ErrAddress)
	return
}

// ErrBadOpcode reports an opcode group with no assigned operation.
type ErrBadOpcode int64

func (err ErrBadOpcode) Error() string {
	return f("opcode group %v unassigned", int64(err))
}

func (err ErrBadOpcode) Is(other error) (ok bool) {
	_, ok = other.(ErrBadOpcode)
	return
}

// ErrBadRegister reports a register field outside [0, 26].
type ErrBadRegister int64

func (err ErrBadRegister) Error() string {
	return f("register field %v invalid", int64(err))
}

func (err ErrBadRegister) Is(other error) (ok bool) {
	_, ok = other.(ErrBadRegister)
	return
}

// ErrInstruction carries the word that failed to decode or execute.
type ErrInstruction trit.Word

func (err ErrInstruction) Error() string {
	return f("bad instruction %v", trit.Word(err))
}

func (err ErrInstruction) Is(other error) (ok bool) {
	_, ok = other.(ErrInstruction)
	return
}

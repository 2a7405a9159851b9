package cpu

import (
	"github.com/ezrec/ternvm/trit"
)

// Memory is a bounded, word-addressable ternary memory. Capacity is fixed
// at construction and contents are zero until written. Addresses are the
// non-negative integer values of address words; anything outside
// [0, capacity) faults rather than wrapping.
type Memory struct {
	words []trit.Word
}

// NewMemory creates a zeroed memory of the given capacity in words.
func NewMemory(capacity int) (mem *Memory) {
	mem = &Memory{
		words: make([]trit.Word, capacity),
	}
	return
}

// Size returns the capacity in words.
func (mem *Memory) Size() int {
	return len(mem.words)
}

// ReadWord returns the word at address, or ErrAddress when the address is
// outside the memory.
func (mem *Memory) ReadWord(address int64) (value trit.Word, err error) {
	if address < 0 || address >= int64(len(mem.words)) {
		err = ErrAddress(address)
		return
	}
	value = mem.words[address]
	return
}

// WriteWord stores a word at address, with the same fault policy as
// ReadWord.
func (mem *Memory) WriteWord(address int64, value trit.Word) (err error) {
	if address < 0 || address >= int64(len(mem.words)) {
		err = ErrAddress(address)
		return
	}
	mem.words[address] = value
	return
}

// Load bulk-writes a program image starting at base. The whole span is
// bounds-checked before anything is written, so a failed load changes
// nothing. Loaders use this; the execution path never does.
func (mem *Memory) Load(base int64, words []trit.Word) (err error) {
	if base < 0 {
		err = ErrAddress(base)
		return
	}
	end := base + int64(len(words))
	if end > int64(len(mem.words)) {
		err = ErrAddress(end - 1)
		return
	}
	copy(mem.words[base:], words)
	return
}

// Reset zeros the entire memory.
func (mem *Memory) Reset() {
	clear(mem.words)
}

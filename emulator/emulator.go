// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/ternvm/cpu"
	"github.com/ezrec/ternvm/image"
	"github.com/ezrec/ternvm/internal"
)

const (
	DEFAULT_MEM_WORDS = 19683 // 3^9 words of memory.
)

// Emulator drives one machine with a loaded memory image, annotating
// faults with the source line that placed the faulting instruction.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // The machine being emulated.
	Image    *image.Image // The currently loaded memory image.
}

// NewEmulator creates a new emulator. A memWords of zero or less selects
// the default memory size.
func NewEmulator(memWords int) (emu *Emulator) {
	if memWords <= 0 {
		memWords = DEFAULT_MEM_WORDS
	}
	emu = &Emulator{
		Cpu:   cpu.NewCpu(memWords),
		Image: &image.Image{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"MEM_WORDS": fmt.Sprintf("%v", emu.Cpu.Mem.Size()),
	}
	return internal.IterSeq2Concat(maps.All(defines),
		emu.Cpu.Defines(),
	)
}

// LoadImage places an image into memory and remembers it for Reset. An
// image with any out-of-range address loads nothing.
func (emu *Emulator) LoadImage(img *image.Image) (err error) {
	size := int64(emu.Cpu.Mem.Size())
	for addr := range img.Words() {
		if addr < 0 || addr >= size {
			err = cpu.ErrAddress(addr)
			return
		}
	}

	for addr, word := range img.Words() {
		err = emu.Cpu.Mem.WriteWord(addr, word)
		if err != nil {
			return
		}
	}
	emu.Image = img

	return
}

// Reset returns the machine to power-on state and reloads the image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	err = emu.LoadImage(emu.Image)

	return
}

// LineNo returns the source line of the word at the PC, or 0.
func (emu *Emulator) LineNo() int {
	entry := emu.Image.Debug(emu.Cpu.Reg.PC().Int64())
	if entry == nil {
		return 0
	}

	return entry.LineNo
}

// Step executes a single instruction of the emulator.
func (emu *Emulator) Step() (outcome cpu.Outcome, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	outcome, err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{LineNo: lineno, Err: err}
	}

	return
}

// Run steps the emulator until it halts, traps, or maxSteps instructions
// have completed.
func (emu *Emulator) Run(maxSteps int) (sum cpu.Summary) {
	for sum.Steps < maxSteps {
		outcome, err := emu.Step()
		if outcome == cpu.OUTCOME_CONTINUED {
			sum.Steps++
			continue
		}
		sum.Final = outcome
		sum.Fault = err
		if outcome == cpu.OUTCOME_HALTED && err == nil {
			sum.Steps++
		}
		return
	}
	sum.Final = cpu.OUTCOME_CONTINUED

	return
}

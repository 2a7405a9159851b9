// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/ternvm/trit"
)

// Outcome reports how a step concluded.
type Outcome int

//go:generate go tool stringer -linecomment -type=Outcome
const (
	OUTCOME_CONTINUED = Outcome(0) // continued
	OUTCOME_HALTED    = Outcome(1) // halted
	OUTCOME_TRAPPED   = Outcome(2) // trapped
)

// Summary describes a Run invocation.
type Summary struct {
	Steps int     // Instructions completed.
	Final Outcome // Outcome of the last step taken.
	Fault error   // Trap detail, or ErrMachineHalted for a run on a halted machine.
}

// Cpu is one balanced-ternary execution context: a register file and a
// memory unit driven by a fetch/decode/execute loop. A Cpu shares no state
// with any other; run several machines by constructing several.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Reg Registers // Register file, exclusively owned.
	Mem *Memory   // Word-addressable memory, exclusively owned.

	Steps int // Instructions completed since reset.

	halted bool
}

var _cpu_defines = map[string]string{
	"WORD_TRITS": fmt.Sprintf("%v", trit.WORD_TRITS),
	"REG_COUNT":  fmt.Sprintf("%v", REG_COUNT),
	"RD_SCALE":   fmt.Sprintf("%v", RD_SCALE),
	"RS1_SCALE":  fmt.Sprintf("%v", RS1_SCALE),
	"RS2_SCALE":  fmt.Sprintf("%v", RS2_SCALE),
	"IMM_SCALE":  fmt.Sprintf("%v", IMM_SCALE),
	"IMM_MAX":    fmt.Sprintf("%v", IMM_MAX),
	"IMM_MIN":    fmt.Sprintf("%v", IMM_MIN),
}

func init() {
	// Opcode groups are published as the biased field values an encoder
	// sums with the scales above.
	for group := range Opcode(OPCODE_COUNT) {
		name := "OP_" + strings.ToUpper(group.String())
		_cpu_defines[name] = fmt.Sprintf("%v", int64(group)-OPCODE_BIAS)
	}
}

// NewCpu creates a machine with the given memory capacity in words.
func NewCpu(memWords int) (cpu *Cpu) {
	cpu = &Cpu{
		Mem: NewMemory(memWords),
	}
	return
}

// Defines for the machine constants, consumed by program loaders.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Halted reports whether the machine has executed a halt.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// Reset returns the machine to its initial running state: zeroed
// registers, status, memory and counters, PC at zero.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Reg.Reset()
	cpu.Mem.Reset()
	cpu.Steps = 0
	cpu.halted = false
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "   pc: %v\n", cpu.Reg.PC().Int64())
	st := cpu.Reg.Status()
	fmt.Fprintf(&sb, " sign: %v\n", st.Sign)
	fmt.Fprintf(&sb, " over: %v\n", st.Overflow)
	for n := range REG_COUNT {
		w := cpu.Reg.read(n)
		fmt.Fprintf(&sb, "  r%02d: %v (%v)\n", n, w, w.Int64())
	}
	text = sb.String()
	return
}

// Step executes a single instruction: fetch, decode, execute and writeback
// as one atomic step. A trapped step leaves every register, the status
// word, the memory and the PC exactly as they were before it began.
func (cpu *Cpu) Step() (outcome Outcome, err error) {
	if cpu.halted {
		return OUTCOME_HALTED, ErrMachineHalted
	}

	pc := cpu.Reg.PC().Int64()
	word, err := cpu.Mem.ReadWord(pc)
	if err != nil {
		outcome = OUTCOME_TRAPPED
		err = errors.Join(ErrFetch, err)
		return
	}

	inst, err := Decode(word)
	if err != nil {
		outcome = OUTCOME_TRAPPED
		err = errors.Join(ErrInstruction(word), err)
		return
	}

	if cpu.Verbose {
		log.Printf("%9d: %v", pc, inst)
	}

	err = cpu.execute(pc, inst)
	if err != nil {
		outcome = OUTCOME_TRAPPED
		err = errors.Join(ErrInstruction(word), err)
		return
	}

	cpu.Steps++
	if cpu.halted {
		outcome = OUTCOME_HALTED
	}
	return
}

// Run steps the machine until it halts, traps, or maxSteps instructions
// have completed. The machine is never left mid-instruction; a caller may
// stop calling between steps at any point.
func (cpu *Cpu) Run(maxSteps int) (sum Summary) {
	for sum.Steps < maxSteps {
		outcome, err := cpu.Step()
		if outcome == OUTCOME_CONTINUED {
			sum.Steps++
			continue
		}
		sum.Final = outcome
		sum.Fault = err
		if outcome == OUTCOME_HALTED && err == nil {
			// The halt instruction itself completed.
			sum.Steps++
		}
		return
	}
	sum.Final = OUTCOME_CONTINUED
	return
}

// immWord converts an immediate field value; decode bounds it well inside
// the word range.
func immWord(value int64) (w trit.Word) {
	w, _ = trit.FromInt64(value)
	return
}

// wordFromTrit widens a trit to a word.
func wordFromTrit(t trit.Trit) (w trit.Word) {
	w[0] = t
	return
}

// execute dispatches one decoded instruction. Anything that can fault is
// checked before the first mutation, so a returned error implies an
// untouched machine.
func (cpu *Cpu) execute(pc int64, inst Inst) (err error) {
	reg := &cpu.Reg

	// A successful fetch bounds pc below the memory size, so pc+1 always
	// fits in a word.
	next := pc + 1

	switch inst.Op {
	case OP_NOP:
		// pass
	case OP_HALT:
		cpu.halted = true
		return
	case OP_ADD, OP_SUB, OP_ADDI:
		a := reg.read(inst.Rs1)
		b := reg.read(inst.Rs2)
		switch inst.Op {
		case OP_ADDI:
			b = immWord(inst.Imm)
		case OP_SUB:
			b = b.Neg()
		}
		sum, overflow := a.Add(b)
		reg.write(inst.Rd, sum)
		reg.SetStatus(Status{Sign: sum.Sign(), Overflow: overflow})
	case OP_MUL:
		low, overflow := reg.read(inst.Rs1).Mul(reg.read(inst.Rs2))
		reg.write(inst.Rd, low)
		reg.SetStatus(Status{Sign: low.Sign(), Overflow: overflow})
	case OP_NEG:
		out := reg.read(inst.Rs1).Neg()
		reg.write(inst.Rd, out)
		reg.SetStatus(Status{Sign: out.Sign()})
	case OP_CMP:
		order := reg.read(inst.Rs1).Cmp(reg.read(inst.Rs2))
		reg.write(inst.Rd, wordFromTrit(order))
		reg.SetStatus(Status{Sign: order})
	case OP_TMIN:
		out := reg.read(inst.Rs1).Min(reg.read(inst.Rs2))
		reg.write(inst.Rd, out)
		reg.SetStatus(Status{Sign: out.Sign()})
	case OP_TMAX:
		out := reg.read(inst.Rs1).Max(reg.read(inst.Rs2))
		reg.write(inst.Rd, out)
		reg.SetStatus(Status{Sign: out.Sign()})
	case OP_LUI:
		// The immediate fills the top 12 trits; no spill is possible.
		out, _ := immWord(inst.Imm).Shl(IMM_SHIFT)
		reg.write(inst.Rd, out)
		reg.SetStatus(Status{Sign: out.Sign()})
	case OP_SHLI:
		out, overflow := reg.read(inst.Rs1).Shl(int(inst.Imm))
		reg.write(inst.Rd, out)
		reg.SetStatus(Status{Sign: out.Sign(), Overflow: overflow})
	case OP_SHRI:
		out := reg.read(inst.Rs1).Shr(int(inst.Imm))
		reg.write(inst.Rd, out)
		reg.SetStatus(Status{Sign: out.Sign()})
	case OP_LOAD:
		address := reg.read(inst.Rs1).Int64() + inst.Imm
		var value trit.Word
		value, err = cpu.Mem.ReadWord(address)
		if err != nil {
			return
		}
		reg.write(inst.Rd, value)
	case OP_STORE:
		address := reg.read(inst.Rs1).Int64() + inst.Imm
		err = cpu.Mem.WriteWord(address, reg.read(inst.Rd))
		if err != nil {
			return
		}
	case OP_JUMP:
		next = reg.read(inst.Rs1).Int64() + inst.Imm
	case OP_JAL:
		var link trit.Word
		link, err = trit.FromInt64(next)
		if err != nil {
			return
		}
		reg.write(inst.Rd, link)
		next = pc + inst.Imm
	case OP_BRN, OP_BRZ, OP_BRP:
		want := trit.ZERO
		switch inst.Op {
		case OP_BRN:
			want = trit.NEG
		case OP_BRP:
			want = trit.POS
		}
		// rs1 selects the register whose sign is tested; rs1 = 0 tests
		// the status sign trit, since r0's own sign is always zero.
		sign := reg.Status().Sign
		if inst.Rs1 != 0 {
			sign = reg.read(inst.Rs1).Sign()
		}
		if sign == want {
			next = pc + inst.Imm
		}
	}

	// A jump through a register can name any word value; targets beyond
	// the word range trap here, before the PC moves.
	nextWord, err := trit.FromInt64(next)
	if err != nil {
		err = ErrAddress(next)
		return
	}
	reg.SetPC(nextWord)
	return
}

// Snapshot is a complete copy of machine state.
type Snapshot struct {
	Reg    Registers
	Mem    []trit.Word
	Steps  int
	Halted bool
}

// Snapshot copies the entire machine state; the machine is a value.
func (cpu *Cpu) Snapshot() (snap *Snapshot) {
	snap = &Snapshot{
		Reg:    cpu.Reg,
		Mem:    slices.Clone(cpu.Mem.words),
		Steps:  cpu.Steps,
		Halted: cpu.halted,
	}
	return
}

// Restore overwrites the machine state from a snapshot taken on a machine
// of the same memory capacity.
func (cpu *Cpu) Restore(snap *Snapshot) (err error) {
	if len(snap.Mem) != len(cpu.Mem.words) {
		err = ErrSnapshot
		return
	}
	cpu.Reg = snap.Reg
	copy(cpu.Mem.words, snap.Mem)
	cpu.Steps = snap.Steps
	cpu.halted = snap.Halted
	return
}

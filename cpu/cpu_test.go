package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ternvm/trit"
)

const testMemWords = 729

// loadProgram assembles encoded words into memory at address 0.
func loadProgram(t *testing.T, cpu *Cpu, words ...trit.Word) {
	if err := cpu.Mem.Load(0, words); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func codeR(t *testing.T, op Opcode, rd, rs1, rs2 int) trit.Word {
	w, err := EncodeR(op, rd, rs1, rs2)
	if err != nil {
		t.Fatalf("EncodeR(%v): %v", op, err)
	}
	return w
}

func codeI(t *testing.T, op Opcode, rd, rs1 int, imm int64) trit.Word {
	w, err := EncodeI(op, rd, rs1, imm)
	if err != nil {
		t.Fatalf("EncodeI(%v): %v", op, err)
	}
	return w
}

func regValue(t *testing.T, cpu *Cpu, index int) int64 {
	value, err := cpu.Reg.Read(index)
	if err != nil {
		t.Fatalf("read r%d: %v", index, err)
	}
	return value.Int64()
}

func TestCpu_AddScenario(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, 5), // r1 = 5
		codeI(t, OP_ADDI, 2, 0, 3), // r2 = 3
		codeR(t, OP_ADD, 3, 1, 2),  // r3 = r1 + r2
	)

	sum := cpu.Run(3)
	assert.Equal(3, sum.Steps)
	assert.Equal(OUTCOME_CONTINUED, sum.Final)

	assert.Equal(int64(8), regValue(t, cpu, 3))
	st := cpu.Reg.Status()
	assert.Equal(trit.POS, st.Sign)
	assert.Equal(trit.ZERO, st.Overflow)
	assert.Equal(int64(3), cpu.Reg.PC().Int64())
}

func TestCpu_AddOverflowScenario(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)

	// The maximum word cannot be built from immediates; preload r1.
	assert.NoError(cpu.Reg.Write(1, word(t, trit.MAX_VALUE)))
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 2, 0, 1), // r2 = 1
		codeR(t, OP_ADD, 3, 1, 2),  // r3 = MAX + 1
	)

	sum := cpu.Run(2)
	assert.Equal(2, sum.Steps)

	assert.Equal(int64(trit.MIN_VALUE), regValue(t, cpu, 3))
	st := cpu.Reg.Status()
	assert.Equal(trit.POS, st.Overflow)
	assert.Equal(trit.NEG, st.Sign)
}

func TestCpu_SubMulNeg(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, 10),
		codeI(t, OP_ADDI, 2, 0, 14),
		codeR(t, OP_SUB, 3, 1, 2), // r3 = -4
		codeR(t, OP_MUL, 4, 1, 2), // r4 = 140
		codeR(t, OP_NEG, 5, 4, 0), // r5 = -140
	)

	sum := cpu.Run(5)
	assert.Equal(5, sum.Steps)

	assert.Equal(int64(-4), regValue(t, cpu, 3))
	assert.Equal(int64(140), regValue(t, cpu, 4))
	assert.Equal(int64(-140), regValue(t, cpu, 5))
	assert.Equal(trit.NEG, cpu.Reg.Status().Sign)
}

func TestCpu_CmpAndLogic(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, 5),
		codeI(t, OP_ADDI, 2, 0, 3),
		codeR(t, OP_CMP, 3, 1, 2),  // r3 = +1, sign +
		codeR(t, OP_CMP, 4, 2, 1),  // r4 = -1, sign -
		codeR(t, OP_CMP, 5, 1, 1),  // r5 = 0, sign 0
		codeR(t, OP_TMIN, 6, 1, 2), // per-trit min of 5 and 3
		codeR(t, OP_TMAX, 7, 1, 2), // per-trit max of 5 and 3
	)

	sum := cpu.Run(7)
	assert.Equal(7, sum.Steps)

	assert.Equal(int64(1), regValue(t, cpu, 3))
	assert.Equal(int64(-1), regValue(t, cpu, 4))
	assert.Equal(int64(0), regValue(t, cpu, 5))
	assert.Equal(int64(-4), regValue(t, cpu, 6))
	assert.Equal(int64(12), regValue(t, cpu, 7))
}

func TestCpu_LuiShifts(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_LUI, 1, 0, 2),  // r1 = 2 * 3^15
		codeI(t, OP_ADDI, 2, 0, 7), // r2 = 7
		codeI(t, OP_SHLI, 3, 2, 4), // r3 = 7 * 81
		codeI(t, OP_SHRI, 4, 3, 4), // r4 = 7
	)

	sum := cpu.Run(4)
	assert.Equal(4, sum.Steps)

	assert.Equal(2*trit.Pow3(IMM_SHIFT), regValue(t, cpu, 1))
	assert.Equal(int64(7*81), regValue(t, cpu, 3))
	assert.Equal(int64(7), regValue(t, cpu, 4))
}

func TestCpu_LoadStore(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, 42),   // r1 = 42
		codeI(t, OP_STORE, 1, 0, 100), // mem[100] = r1
		codeI(t, OP_LOAD, 2, 0, 100),  // r2 = mem[100]
	)

	sum := cpu.Run(3)
	assert.Equal(3, sum.Steps)

	value, err := cpu.Mem.ReadWord(100)
	assert.NoError(err)
	assert.Equal(int64(42), value.Int64())
	assert.Equal(int64(42), regValue(t, cpu, 2))
}

func TestCpu_LoadStore_Fault(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, 42),
		codeI(t, OP_STORE, 1, 0, int64(testMemWords)), // out of range
	)

	outcome, err := cpu.Step()
	assert.Equal(OUTCOME_CONTINUED, outcome)
	assert.NoError(err)

	outcome, err = cpu.Step()
	assert.Equal(OUTCOME_TRAPPED, outcome)
	assert.ErrorIs(err, ErrAddress(0))

	// The trapped step left the machine untouched: PC still at the store.
	assert.Equal(int64(1), cpu.Reg.PC().Int64())
	assert.False(cpu.Halted())
}

func TestCpu_Branches(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, -7), // r1 = -7, sign -
		codeI(t, OP_BRN, 0, 1, 2),   // taken: r1 sign is -
		codeR(t, OP_HALT, 0, 0, 0),  // skipped
		codeI(t, OP_ADDI, 2, 0, 1),  // r2 = 1
		codeI(t, OP_BRZ, 0, 2, 5),   // not taken: r2 sign is +
		codeI(t, OP_BRP, 0, 2, 2),   // taken
		codeR(t, OP_HALT, 0, 0, 0),  // skipped
		codeR(t, OP_SUB, 3, 2, 2),   // r3 = 0, status sign 0
		codeI(t, OP_BRZ, 0, 0, 2),   // rs1=0 tests status sign: taken
		codeR(t, OP_HALT, 0, 0, 0),  // skipped
		codeI(t, OP_ADDI, 4, 0, 9),  // r4 = 9
	)

	sum := cpu.Run(100)
	assert.Equal(OUTCOME_HALTED, sum.Final)
	assert.Equal(int64(9), regValue(t, cpu, 4))
	// Halted by running into zeroed memory past the program.
	assert.Equal(int64(11), cpu.Reg.PC().Int64())
}

func TestCpu_JumpAndLink(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_JAL, 26, 0, 3),  // link r26 = 1, pc = 3
		codeR(t, OP_HALT, 0, 0, 0),  // return target
		codeR(t, OP_HALT, 0, 0, 0),  // skipped
		codeI(t, OP_ADDI, 1, 0, 5),  // subroutine body
		codeI(t, OP_JUMP, 0, 26, 0), // pc = r26 = 1
	)

	sum := cpu.Run(100)
	assert.Equal(OUTCOME_HALTED, sum.Final)
	assert.Equal(int64(1), regValue(t, cpu, 26))
	assert.Equal(int64(5), regValue(t, cpu, 1))
	assert.Equal(int64(1), cpu.Reg.PC().Int64())
}

func TestCpu_HaltScenario(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, 5),
		codeR(t, OP_HALT, 0, 0, 0),
	)

	outcome, err := cpu.Step()
	assert.Equal(OUTCOME_CONTINUED, outcome)
	assert.NoError(err)

	outcome, err = cpu.Step()
	assert.Equal(OUTCOME_HALTED, outcome)
	assert.NoError(err)
	assert.True(cpu.Halted())
	assert.Equal(2, cpu.Steps)

	// Stepping a halted machine fails without mutating anything.
	before := cpu.Snapshot()
	outcome, err = cpu.Step()
	assert.Equal(OUTCOME_HALTED, outcome)
	assert.ErrorIs(err, ErrMachineHalted)
	after := cpu.Snapshot()
	assert.Equal(before, after)
}

func TestCpu_InvalidOpcodeTrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)

	// Opcode field value +13 selects unassigned group 26.
	assert.NoError(cpu.Mem.WriteWord(0, word(t, 13)))

	outcome, err := cpu.Step()
	assert.Equal(OUTCOME_TRAPPED, outcome)
	assert.ErrorIs(err, ErrBadOpcode(0))
	assert.ErrorIs(err, ErrInstruction{})

	// PC unchanged, machine still running.
	assert.Equal(int64(0), cpu.Reg.PC().Int64())
	assert.False(cpu.Halted())
	assert.Equal(0, cpu.Steps)
}

func TestCpu_InvalidRegisterTrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)

	// add with rd field -1.
	assert.NoError(cpu.Mem.WriteWord(0, word(t, int64(OP_ADD)-OPCODE_BIAS+-1*RD_SCALE)))

	outcome, err := cpu.Step()
	assert.Equal(OUTCOME_TRAPPED, outcome)
	assert.ErrorIs(err, ErrBadRegister(0))
	assert.Equal(int64(0), cpu.Reg.PC().Int64())
}

func TestCpu_FetchFault(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	cpu.Reg.SetPC(word(t, int64(testMemWords)))

	outcome, err := cpu.Step()
	assert.Equal(OUTCOME_TRAPPED, outcome)
	assert.ErrorIs(err, ErrFetch)
	assert.ErrorIs(err, ErrAddress(0))
}

func TestCpu_ZeroRegisterDiscards(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 0, 0, 5), // write to r0 discarded
		codeR(t, OP_ADD, 1, 0, 0),  // r1 = r0 + r0 = 0
	)

	sum := cpu.Run(2)
	assert.Equal(2, sum.Steps)
	assert.Equal(int64(0), regValue(t, cpu, 0))
	assert.Equal(int64(0), regValue(t, cpu, 1))
}

func TestCpu_RunBudget(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)

	// An infinite loop: jump to self.
	assert.NoError(cpu.Mem.WriteWord(0, codeI(t, OP_JUMP, 0, 0, 0)))

	sum := cpu.Run(1000)
	assert.Equal(1000, sum.Steps)
	assert.Equal(OUTCOME_CONTINUED, sum.Final)
	assert.NoError(sum.Fault)
	assert.False(cpu.Halted())
}

func TestCpu_RunAfterHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	// Zeroed memory: the first step halts.
	sum := cpu.Run(10)
	assert.Equal(1, sum.Steps)
	assert.Equal(OUTCOME_HALTED, sum.Final)
	assert.NoError(sum.Fault)

	sum = cpu.Run(10)
	assert.Equal(0, sum.Steps)
	assert.Equal(OUTCOME_HALTED, sum.Final)
	assert.ErrorIs(sum.Fault, ErrMachineHalted)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu, codeI(t, OP_ADDI, 1, 0, 5))
	cpu.Run(10)
	assert.True(cpu.Halted())

	cpu.Reset()
	assert.False(cpu.Halted())
	assert.Equal(0, cpu.Steps)
	assert.Equal(int64(0), cpu.Reg.PC().Int64())
	assert.Equal(int64(0), regValue(t, cpu, 1))

	value, err := cpu.Mem.ReadWord(0)
	assert.NoError(err)
	assert.Equal(trit.Word{}, value)
}

func TestCpu_SnapshotRestore(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(testMemWords)
	loadProgram(t, cpu,
		codeI(t, OP_ADDI, 1, 0, 5),
		codeI(t, OP_ADDI, 2, 0, 3),
		codeR(t, OP_ADD, 3, 1, 2),
	)

	cpu.Run(1)
	snap := cpu.Snapshot()
	cpu.Run(2)
	assert.Equal(int64(8), regValue(t, cpu, 3))

	assert.NoError(cpu.Restore(snap))
	assert.Equal(1, cpu.Steps)
	assert.Equal(int64(0), regValue(t, cpu, 3))

	// Replaying from the snapshot reaches the same state.
	cpu.Run(2)
	assert.Equal(int64(8), regValue(t, cpu, 3))

	other := NewCpu(3)
	assert.ErrorIs(other.Restore(snap), ErrSnapshot)
}

package cpu

import (
	"fmt"

	"github.com/ezrec/ternvm/trit"
)

// Instruction field layout, least significant trit first.
const (
	OPCODE_SHIFT = 0
	OPCODE_TRITS = 3
	RD_SHIFT     = 3
	RS1_SHIFT    = 7
	RS2_SHIFT    = 11
	REG_TRITS    = 4
	IMM_SHIFT    = 15
	IMM_TRITS    = 12

	// The opcode group is the biased value of the opcode field, so the
	// all-zero word decodes as halt and running into zeroed memory stops
	// the machine instead of trapping.
	OPCODE_BIAS = 13

	IMM_MAX = (531_441 - 1) / 2 // 12-trit immediate bound, (3^12-1)/2
	IMM_MIN = -IMM_MAX
)

// Field scales for hand-encoding instruction words; a valid instruction is
// the sum of its field values times these scales.
var (
	RD_SCALE  = trit.Pow3(RD_SHIFT)
	RS1_SCALE = trit.Pow3(RS1_SHIFT)
	RS2_SCALE = trit.Pow3(RS2_SHIFT)
	IMM_SCALE = trit.Pow3(IMM_SHIFT)
)

// Opcode is an instruction group selector.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP   = Opcode(0)  // nop
	OP_ADD   = Opcode(1)  // add
	OP_SUB   = Opcode(2)  // sub
	OP_MUL   = Opcode(3)  // mul
	OP_NEG   = Opcode(4)  // neg
	OP_CMP   = Opcode(5)  // cmp
	OP_TMIN  = Opcode(6)  // tmin
	OP_TMAX  = Opcode(7)  // tmax
	OP_ADDI  = Opcode(8)  // addi
	OP_LUI   = Opcode(9)  // lui
	OP_LOAD  = Opcode(10) // load
	OP_STORE = Opcode(11) // store
	OP_JUMP  = Opcode(12) // jump
	OP_HALT  = Opcode(13) // halt
	OP_JAL   = Opcode(14) // jal
	OP_BRN   = Opcode(15) // brn
	OP_BRZ   = Opcode(16) // brz
	OP_BRP   = Opcode(17) // brp
	OP_SHLI  = Opcode(18) // shli
	OP_SHRI  = Opcode(19) // shri
)

const (
	OPCODE_COUNT = 20 // Assigned opcode groups; groups 20..26 fault.
)

// Inst is a decoded instruction. One is produced fresh each fetch cycle
// and discarded after execute.
type Inst struct {
	Op  Opcode
	Rd  int
	Rs1 int
	Rs2 int
	Imm int64
}

// Decode splits an instruction word into its fields. It is pure and total
// except that an unassigned opcode group or an out-of-range register field
// fails; no decode is ever a silent no-op.
func Decode(word trit.Word) (inst Inst, err error) {
	group := word.Field(OPCODE_SHIFT, OPCODE_SHIFT+OPCODE_TRITS) + OPCODE_BIAS
	if group < 0 || group >= OPCODE_COUNT {
		err = ErrBadOpcode(group)
		return
	}

	rd := word.Field(RD_SHIFT, RD_SHIFT+REG_TRITS)
	rs1 := word.Field(RS1_SHIFT, RS1_SHIFT+REG_TRITS)
	rs2 := word.Field(RS2_SHIFT, RS2_SHIFT+REG_TRITS)
	for _, field := range []int64{rd, rs1, rs2} {
		if field < 0 || field >= REG_COUNT {
			err = ErrBadRegister(field)
			return
		}
	}

	inst = Inst{
		Op:  Opcode(group),
		Rd:  int(rd),
		Rs1: int(rs1),
		Rs2: int(rs2),
		Imm: word.Field(IMM_SHIFT, trit.WORD_TRITS),
	}
	return
}

// encode assembles an instruction word from validated fields. Fields
// occupy disjoint trit ranges, so summing the scaled values can never
// carry between fields.
func encode(op Opcode, rd, rs1, rs2 int, imm int64) (word trit.Word, err error) {
	if op < 0 || op >= OPCODE_COUNT {
		err = ErrBadOpcode(int64(op))
		return
	}
	for _, field := range []int{rd, rs1, rs2} {
		if field < 0 || field >= REG_COUNT {
			err = ErrBadRegister(int64(field))
			return
		}
	}
	if imm < IMM_MIN || imm > IMM_MAX {
		err = ErrImmediate
		return
	}

	value := int64(op) - OPCODE_BIAS +
		int64(rd)*RD_SCALE +
		int64(rs1)*RS1_SCALE +
		int64(rs2)*RS2_SCALE +
		imm*IMM_SCALE
	return trit.FromInt64(value)
}

// EncodeR builds a register-form instruction word.
func EncodeR(op Opcode, rd, rs1, rs2 int) (word trit.Word, err error) {
	return encode(op, rd, rs1, rs2, 0)
}

// EncodeI builds an immediate-form instruction word.
func EncodeI(op Opcode, rd, rs1 int, imm int64) (word trit.Word, err error) {
	return encode(op, rd, rs1, 0, imm)
}

// String returns the disassembly of the instruction.
func (inst Inst) String() (out string) {
	switch inst.Op {
	case OP_NOP, OP_HALT:
		out = inst.Op.String()
	case OP_ADD, OP_SUB, OP_MUL, OP_CMP, OP_TMIN, OP_TMAX:
		out = fmt.Sprintf("%v r%d, r%d, r%d", inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
	case OP_NEG:
		out = fmt.Sprintf("%v r%d, r%d", inst.Op, inst.Rd, inst.Rs1)
	case OP_ADDI, OP_LOAD, OP_STORE, OP_SHLI, OP_SHRI:
		out = fmt.Sprintf("%v r%d, r%d, %d", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
	case OP_LUI, OP_JAL:
		out = fmt.Sprintf("%v r%d, %d", inst.Op, inst.Rd, inst.Imm)
	case OP_JUMP, OP_BRN, OP_BRZ, OP_BRP:
		out = fmt.Sprintf("%v r%d, %d", inst.Op, inst.Rs1, inst.Imm)
	default:
		out = fmt.Sprintf("%v?", inst.Op)
	}
	return
}

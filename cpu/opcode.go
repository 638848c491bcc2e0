package cpu

import (
	"fmt"

	"github.com/ezrec/isasim/word"
)

// CodeOp is the 4-bit opcode field of an instruction.
type CodeOp uint8

const (
	OP_RTYPE = CodeOp(0b0000) // Register-register class, see CodeFunc.
	OP_LA    = CodeOp(0b0001) // Load immediate (address).
	OP_MR    = CodeOp(0b0010) // Memory read.
	OP_ADDI  = CodeOp(0b0100) // Add immediate.
	OP_MW    = CodeOp(0b0110) // Memory write.
	OP_BEQ   = CodeOp(0b0111) // Branch if register zero.
	OP_J     = CodeOp(0b1000) // Jump.
)

// CodeFunc is the 4-bit function field of a register-register instruction.
type CodeFunc uint8

const (
	FUNC_SUB = CodeFunc(0b0001)
	FUNC_NOR = CodeFunc(0b0010)
	FUNC_ADD = CodeFunc(0b1000)
)

// Instruction field positions, MSB first.
const (
	FIELD_OP_LO   = 0
	FIELD_OP_HI   = 4
	FIELD_A_LO    = 4
	FIELD_A_HI    = 8
	FIELD_B_LO    = 8
	FIELD_B_HI    = 12
	FIELD_FUNC_LO = 12
	FIELD_FUNC_HI = 16
	FIELD_IMM_LO  = 8
	FIELD_IMM_HI  = 16
	FIELD_JUMP_LO = 4
	FIELD_JUMP_HI = 16
)

var opMnemonic = map[CodeOp]string{
	OP_LA:   "la",
	OP_MR:   "mr",
	OP_ADDI: "addi",
	OP_MW:   "mw",
	OP_BEQ:  "beq",
	OP_J:    "j",
}

var funcMnemonic = map[CodeFunc]string{
	FUNC_ADD: "add",
	FUNC_SUB: "sub",
	FUNC_NOR: "nor",
}

// Code is a single 16-bit instruction word.
type Code uint16

// CodeOf converts an instruction memory word to a Code.
func CodeOf(w word.Word) Code {
	return Code(w.Resize(INSTRUCTION_WIDTH).Unsigned())
}

// Word returns the instruction as a memory word.
func (code Code) Word() word.Word {
	return word.New(INSTRUCTION_WIDTH, uint64(code))
}

// MakeCodeR creates a register-register instruction.
func MakeCodeR(fn CodeFunc, reg_a, reg_b uint8) Code {
	return Code((uint16(OP_RTYPE) << 12) | (uint16(reg_a&0xf) << 8) | (uint16(reg_b&0xf) << 4) | uint16(fn&0xf))
}

// MakeCodeI creates an instruction with a register and an 8-bit immediate.
func MakeCodeI(op CodeOp, reg_a uint8, imm uint8) Code {
	return Code((uint16(op&0xf) << 12) | (uint16(reg_a&0xf) << 8) | uint16(imm))
}

// MakeCodeJ creates a jump to a 12-bit target.
func MakeCodeJ(target uint16) Code {
	return Code((uint16(OP_J) << 12) | (target & 0xfff))
}

// Op returns the opcode field.
func (code Code) Op() CodeOp {
	return CodeOp((code >> 12) & 0xf)
}

// RegA returns the register A field.
func (code Code) RegA() uint8 {
	return uint8((code >> 8) & 0xf)
}

// RegB returns the register B field.
func (code Code) RegB() uint8 {
	return uint8((code >> 4) & 0xf)
}

// Func returns the function field.
func (code Code) Func() CodeFunc {
	return CodeFunc(code & 0xf)
}

// Immediate returns the sign-extended 8-bit immediate field.
func (code Code) Immediate() int {
	return int(int8(code & 0xff))
}

// Target returns the 12-bit jump field.
func (code Code) Target() uint16 {
	return uint16(code & 0xfff)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	if code == 0 {
		return "halt"
	}

	op := code.Op()
	switch op {
	case OP_RTYPE:
		name, ok := funcMnemonic[code.Func()]
		if !ok {
			return "invalid"
		}
		out = fmt.Sprintf("%v r%d r%d", name, code.RegA(), code.RegB())
	case OP_J:
		out = fmt.Sprintf("j %d", code.Target())
	case OP_MR, OP_MW:
		out = fmt.Sprintf("%v r%d", opMnemonic[op], code.RegA())
		if code.Immediate() != 0 {
			out += fmt.Sprintf(" %d", code.Immediate())
		}
	default:
		name, ok := opMnemonic[op]
		if !ok {
			return "invalid"
		}
		out = fmt.Sprintf("%v r%d %d", name, code.RegA(), code.Immediate())
	}

	return
}

// Opcode is a line of assembled source with the instructions it produced.
type Opcode struct {
	LineNo    int      // Source line.
	Ip        int      // Address of the first instruction.
	Words     []string // Source words, after equate substitution.
	Codes     []Code   // Generated instructions.
	LinkLabel string   // Label resolved into the last instruction, if any.
}

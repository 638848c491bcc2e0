package cpu

import (
	"github.com/ezrec/isasim/word"
)

// AluOp is an ALU operation, as carried by the two ALUop control lines.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_ADD  = AluOp(0b00) // add
	ALU_OP_SUB  = AluOp(0b01) // sub
	ALU_OP_NOR  = AluOp(0b10) // nor
	ALU_OP_PASS = AluOp(0b11) // pass
)

// Alu is the arithmetic logic unit. All results are the width of the
// first operand, with silent wraparound.
type Alu struct {
	Opcode AluOp // Current operation.
}

// SetOpcode selects the operation for the following Operate calls.
func (alu *Alu) SetOpcode(op AluOp) {
	alu.Opcode = op
}

// Operate computes the current operation over a and b.
func (alu *Alu) Operate(a, b word.Word) (result word.Word) {
	switch alu.Opcode {
	case ALU_OP_ADD:
		result = a.Add(b)
	case ALU_OP_SUB:
		result = a.Add(b.Negate())
	case ALU_OP_NOR:
		result = a.Nor(b)
	default:
		result = a
	}

	return
}

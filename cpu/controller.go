package cpu

import (
	"github.com/ezrec/isasim/word"
)

const (
	MCW_WIDTH = 9 // Width of an encoded mode control word.
)

// Mcw is the mode control word: the control signals for one instruction.
type Mcw struct {
	PcSrc    bool  // Jump mux: take the jump target.
	Branch   bool  // Branch enable: PC + immediate when register A is zero.
	MemWrite bool  // Data memory write enable.
	AluSrc   bool  // ALU operand B: the immediate instead of register B.
	AluOp    AluOp // ALU operation.
	MarWrite bool  // Latch the ALU result into MAR.
	RegWrite bool  // Write register A.
	RegSel   bool  // Writeback: ALU result instead of data memory.
}

// Named control words, one per instruction.
var (
	MCW_ADD  = Mcw{AluOp: ALU_OP_ADD, RegWrite: true, RegSel: true}
	MCW_SUB  = Mcw{AluOp: ALU_OP_SUB, RegWrite: true, RegSel: true}
	MCW_NOR  = Mcw{AluOp: ALU_OP_NOR, RegWrite: true, RegSel: true}
	MCW_LA   = Mcw{AluSrc: true, AluOp: ALU_OP_ADD, MarWrite: true, RegWrite: true, RegSel: true}
	MCW_MR   = Mcw{RegWrite: true}
	MCW_MW   = Mcw{MemWrite: true}
	MCW_ADDI = Mcw{AluSrc: true, AluOp: ALU_OP_ADD, RegWrite: true, RegSel: true}
	MCW_BEQ  = Mcw{Branch: true}
	MCW_J    = Mcw{PcSrc: true}
)

// decodeTable is the instruction set. R-type opcodes are further decoded
// by decodeFunc.
var decodeTable = map[CodeOp]Mcw{
	OP_LA:   MCW_LA,
	OP_MR:   MCW_MR,
	OP_MW:   MCW_MW,
	OP_ADDI: MCW_ADDI,
	OP_BEQ:  MCW_BEQ,
	OP_J:    MCW_J,
}

var decodeFunc = map[CodeFunc]Mcw{
	FUNC_ADD: MCW_ADD,
	FUNC_SUB: MCW_SUB,
	FUNC_NOR: MCW_NOR,
}

// Controller is the control unit.
type Controller struct{}

// Decode returns the control word for an opcode and function field pair.
// Combinations missing from the instruction set return ErrDecode.
func (Controller) Decode(op CodeOp, fn CodeFunc) (mcw Mcw, err error) {
	var ok bool
	if op == OP_RTYPE {
		mcw, ok = decodeFunc[fn]
	} else {
		mcw, ok = decodeTable[op]
	}
	if !ok {
		err = ErrDecode
	}

	return
}

// Word encodes the control word as
// [PCsrc][Branch][Memory][ALUsrc][ALUop:2][MAR][Rwrite][Rsel].
func (mcw Mcw) Word() word.Word {
	bit := func(line bool) word.Word {
		return word.New(1, uint64(signal(line)))
	}

	return bit(mcw.PcSrc).Concat(
		bit(mcw.Branch),
		bit(mcw.MemWrite),
		bit(mcw.AluSrc),
		word.New(2, uint64(mcw.AluOp)),
		bit(mcw.MarWrite),
		bit(mcw.RegWrite),
		bit(mcw.RegSel),
	)
}

// McwOf decodes a 9-bit control word.
func McwOf(w word.Word) Mcw {
	w = w.Resize(MCW_WIDTH)
	return Mcw{
		PcSrc:    w.Bit(0),
		Branch:   w.Bit(1),
		MemWrite: w.Bit(2),
		AluSrc:   w.Bit(3),
		AluOp:    AluOp(w.Slice(4, 6).Unsigned()),
		MarWrite: w.Bit(6),
		RegWrite: w.Bit(7),
		RegSel:   w.Bit(8),
	}
}

// String returns the encoded control word.
func (mcw Mcw) String() string {
	return mcw.Word().String()
}

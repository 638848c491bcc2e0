// Package cpu implements a single-cycle 16-bit processor and its assembler.
//
// The datapath has a program counter (PC) addressing instruction memory, a
// memory address register (MAR) addressing data memory, a sixteen entry
// register file, an ALU, a PC adder, and four 2:1 muxes. The Controller
// decodes each instruction into a mode control word (Mcw) which drives them.
// Every Processor.Tick executes exactly one instruction.
//
// The assembler translates mnemonic text into the 16-bit instruction
// stream, supporting macros, labels, equates, and compile-time expression
// evaluation.
//
// Immediates are 8 bits. Literals from -128 to 255 are accepted, and the
// datapath sign-extends the 8-bit pattern, so 128 through 255 execute as
// -128 through -1. A Verbose assembler logs each such immediate.
//
// The lw and sw pseudo-ops with a base register expand to three words:
//
//	lw rD rB imm  =>  la rB imm; addi rB -imm; mr rD
//	sw rS rB imm  =>  la rB imm; addi rB -imm; mw rS
//
// la sets MAR and rB to rB+imm, and the addi restores rB before the access.
// An offset of -128 cannot be restored, and is rejected.
package cpu

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/isasim/internal"
	"github.com/ezrec/isasim/io"
	"github.com/ezrec/isasim/word"
)

// Processor is the single-cycle datapath: PC, MAR, the register file,
// instruction and data memories, the ALU, the PC adder, four muxes and
// the control unit.
type Processor struct {
	Verbose bool // Set to enable verbose logging.

	Config Config // Geometry.

	PC       *Register   // Program counter, addresses instruction memory.
	MAR      *Register   // Memory address register, addresses data memory.
	Register []*Register // Register file.

	InstructionMemory *Memory
	DataMemory        *Memory

	Ticks int // Cycles executed since reset.

	controller Controller
	alu        Alu
	pcAdder    Alu

	aluMux    Mux // ALU operand B: register B or immediate.
	branchMux Mux // PC addend: +1 or immediate.
	regMux    Mux // Writeback: data memory or ALU.
	jumpMux   Mux // Next PC: PC adder or jump target.

	halted bool
}

// NewProcessor creates a processor, and loads both memories from their
// backing stores. A store that fails to load leaves its memory zeroed;
// the processor is returned along with the error.
func NewProcessor(config Config, instructions, data io.Store) (proc *Processor, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	proc = &Processor{
		Config: config,
		PC:     NewRegister(config.RegisterWidth),
		MAR:    NewRegister(config.RegisterWidth),
	}

	proc.Register = make([]*Register, config.RegisterFileSize)
	for n := range proc.Register {
		proc.Register[n] = NewRegister(config.RegisterWidth)
	}

	proc.alu.SetOpcode(ALU_OP_ADD)
	proc.pcAdder.SetOpcode(ALU_OP_ADD)

	var ierr, derr error
	proc.InstructionMemory, ierr = NewMemory("imem", config.InstructionMemorySize, config.WordWidth, instructions, proc.PC)
	proc.DataMemory, derr = NewMemory("dmem", config.DataMemorySize, config.WordWidth, data, proc.MAR)
	err = errors.Join(ierr, derr)

	return
}

// Defines for the processor and its memories.
func (proc *Processor) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"REGISTER_FILE_SIZE": fmt.Sprintf("%d", len(proc.Register)),
	}

	return internal.IterSeq2Concat(maps.All(defines),
		proc.InstructionMemory.Defines(),
		proc.DataMemory.Defines(),
	)
}

// Halted is true once the processor has stopped, until the next Reset.
func (proc *Processor) Halted() bool {
	return proc.halted
}

// Registers iterates over the register file.
func (proc *Processor) Registers() iter.Seq2[int, word.Word] {
	return func(yield func(index int, value word.Word) bool) {
		for n, reg := range proc.Register {
			if !yield(n, reg.Value()) {
				return
			}
		}
	}
}

// Running is true if the PC addresses instruction memory.
func (proc *Processor) Running() bool {
	if proc.halted {
		return false
	}
	pc := proc.PC.Value().Integer()
	return pc >= 0 && pc < int64(proc.InstructionMemory.Capacity())
}

// Code returns the instruction at the PC, if the PC is in range.
func (proc *Processor) Code() (code Code, ok bool) {
	if !proc.Running() {
		return
	}
	code = CodeOf(proc.InstructionMemory.Read())
	ok = true
	return
}

// halt stops the processor and persists data memory.
func (proc *Processor) halt() (err error) {
	proc.halted = true
	if proc.Verbose {
		log.Printf("%03x: halt", proc.PC.Value().Integer())
	}
	err = proc.Finalize()
	return
}

// Tick executes one clock cycle. It returns false once the processor has
// halted: the PC left instruction memory, or the instruction was all zero.
// An instruction missing from the decode table halts with an ErrOpcode.
func (proc *Processor) Tick() (running bool, err error) {
	if proc.halted {
		return
	}

	if !proc.Running() {
		err = proc.halt()
		return
	}

	// Fetch
	instruction := proc.InstructionMemory.Read()
	if instruction.Integer() == 0 {
		err = proc.halt()
		return
	}

	if proc.Verbose {
		log.Printf("%03x: %v", proc.PC.Value().Integer(), CodeOf(instruction))
	}

	// Decode
	opfunc := instruction.Slice(FIELD_OP_LO, FIELD_OP_HI).Concat(instruction.Slice(FIELD_FUNC_LO, FIELD_FUNC_HI))
	zero := word.Zero(1)
	addrA := zero.Concat(instruction.Slice(FIELD_A_LO, FIELD_A_HI))
	addrB := zero.Concat(instruction.Slice(FIELD_B_LO, FIELD_B_HI))
	addrJ := instruction.Slice(FIELD_JUMP_LO, FIELD_JUMP_HI)
	immediate := instruction.Slice(FIELD_IMM_LO, FIELD_IMM_HI).SignExtend(INSTRUCTION_WIDTH)

	mcw, err := proc.controller.Decode(CodeOp(opfunc.Slice(0, 4).Unsigned()), CodeFunc(opfunc.Slice(4, 8).Unsigned()))
	if err != nil {
		proc.halted = true
		err = errors.Join(ErrOpcode(CodeOf(instruction)), err)
		return
	}

	// Register fetch
	ra := proc.Register[addrA.Integer()]
	rb := proc.Register[addrB.Integer()]

	// Branch condition
	branch := mcw.Branch && ra.Value().Integer() == 0

	// Operand selection
	proc.aluMux.Update(rb.Value(), immediate)
	proc.branchMux.Update(word.FromInteger(INSTRUCTION_WIDTH, 1), immediate)

	aluInputB, err := proc.aluMux.Output(signal(mcw.AluSrc))
	if err != nil {
		return
	}
	pcAddend, err := proc.branchMux.Output(signal(branch))
	if err != nil {
		return
	}

	// PC-relative add
	newPc := proc.pcAdder.Operate(proc.PC.Value(), pcAddend)

	// Execute
	proc.alu.SetOpcode(mcw.AluOp)
	aluResult := proc.alu.Operate(ra.Value(), aluInputB)

	// Data memory, addressed by the MAR of the prior cycle.
	if mcw.MemWrite {
		proc.DataMemory.Write(ra.Value())
	}
	proc.regMux.Update(proc.DataMemory.Read(), aluResult)

	// Writeback
	if mcw.RegWrite {
		var value word.Word
		value, err = proc.regMux.Output(signal(mcw.RegSel))
		if err != nil {
			return
		}
		ra.Update(value)
	}

	if mcw.MarWrite {
		proc.MAR.Update(aluResult)
	}

	// Next PC
	jump := proc.PC.Value().Slice(0, 4).Concat(addrJ)
	proc.jumpMux.Update(newPc, jump)
	nextPc, err := proc.jumpMux.Output(signal(mcw.PcSrc))
	if err != nil {
		return
	}
	proc.PC.Update(nextPc)

	proc.Ticks++
	running = true

	return
}

// Run ticks until the processor halts.
func (proc *Processor) Run() (err error) {
	for running := true; running; {
		running, err = proc.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Reset the processor.
// - Zeros the PC, MAR and register file.
// - Reloads instruction memory from its backing store.
// - Zeros the tick counter and leaves the halted state.
func (proc *Processor) Reset() (err error) {
	if proc.Verbose {
		log.Printf("cpu: reset")
	}

	proc.PC.Clear()
	proc.MAR.Clear()
	for _, reg := range proc.Register {
		reg.Clear()
	}
	proc.Ticks = 0
	proc.halted = false

	err = proc.InstructionMemory.Reload()

	return
}

// ClearData zeros and persists data memory. Registers and PC are untouched.
func (proc *Processor) ClearData() (err error) {
	err = proc.DataMemory.Clear()
	return
}

// Finalize persists data memory to its backing store. It may be called any
// number of times.
func (proc *Processor) Finalize() (err error) {
	err = proc.DataMemory.Persist()
	return
}

// String returns the current processor state as a string.
func (proc *Processor) String() (text string) {
	show := func(name string, w word.Word) string {
		return fmt.Sprintf("%5s: %v | %d\n", name, w, w.Integer())
	}

	text += show("pc", proc.PC.Value())
	text += show("mar", proc.MAR.Value())
	for n, value := range proc.Registers() {
		text += show(fmt.Sprintf("r%d", n), value)
	}

	code, ok := proc.Code()
	if ok {
		text += fmt.Sprintf("%5s: %v\n", "next", code)
	} else {
		text += fmt.Sprintf("%5s: NONE\n", "next")
	}

	return
}

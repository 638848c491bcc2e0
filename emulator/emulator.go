// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/isasim/cpu"
	"github.com/ezrec/isasim/internal"
	"github.com/ezrec/isasim/io"
)

const (
	JUMP_PAGE_SIZE = 1 << 12 // Span of a jump target.
)

var _emulator_defines = map[string]string{
	"JUMP_PAGE_SIZE": fmt.Sprintf("%d", JUMP_PAGE_SIZE),
}

// Emulator state. Processor + program listing + backing stores.
type Emulator struct {
	Verbose        bool         // If set, enables verbose logging.
	*cpu.Processor              // Reference to the processor simulation.
	Program        *cpu.Program // Reference to the currently loaded program listing.

	Instructions io.Store // Instruction memory backing store.
	Data         io.Store // Data memory backing store.
}

// NewEmulator creates a new emulator, loading both memories from their
// stores. A store error is returned along with a usable emulator; an
// invalid configuration returns no emulator.
func NewEmulator(config cpu.Config, instructions, data io.Store) (emu *Emulator, err error) {
	proc, err := cpu.NewProcessor(config, instructions, data)
	if proc == nil {
		return
	}

	emu = &Emulator{
		Processor:    proc,
		Program:      &cpu.Program{},
		Instructions: instructions,
		Data:         data,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Processor.Defines(),
	)
}

// Assembler returns an assembler with the emulator defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	return
}

// Close the emulator, persisting data memory.
func (emu *Emulator) Close() (err error) {
	err = emu.Processor.Finalize()

	return
}

// Load writes the program image to the instruction store, and resets the
// processor to run it.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	if emu.Instructions == nil {
		err = io.ErrStoreInvalid
		return
	}

	lines, err := prog.Lines(emu.InstructionMemory.Capacity())
	if err != nil {
		return
	}

	err = emu.Instructions.Save(lines)
	if err != nil {
		return
	}

	emu.Program = prog

	err = emu.Reset()

	return
}

// Reset the processor, reloading instruction memory.
func (emu *Emulator) Reset() (err error) {
	emu.setVerbose()

	err = emu.Processor.Reset()

	return
}

func (emu *Emulator) setVerbose() {
	emu.Processor.Verbose = emu.Verbose
	emu.InstructionMemory.Verbose = emu.Verbose
	emu.DataMemory.Verbose = emu.Verbose
}

// Ip returns current instruction address.
func (emu *Emulator) Ip() int {
	return int(emu.PC.Value().Integer())
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Ip())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator. Runtime faults are
// reported with the source line of the faulting instruction.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.setVerbose()

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	running, err := emu.Processor.Tick()
	done = !running

	return
}

// Run ticks until the processor halts.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

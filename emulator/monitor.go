package emulator

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/isasim/cpu"
)

// Monitor is a line oriented command interpreter over an Emulator.
type Monitor struct {
	Emulator *Emulator
	Output   io.Writer                                // Command output.
	Open     func(name string) (io.ReadCloser, error) // Source file opener for 'load'. Defaults to os.Open.

	quit bool
}

type monitorCommand struct {
	usage string
	help  string
	run   func(mon *Monitor, args []string) error
}

var monitorCommands map[string]monitorCommand

func init() {
	monitorCommands = map[string]monitorCommand{
		"step":  {"step [n]", "execute n instructions (default 1)", (*Monitor).step},
		"run":   {"run", "execute until halted", (*Monitor).run},
		"reset": {"reset", "reset the processor and reload instruction memory", (*Monitor).reset},
		"clear": {"clear", "zero data memory", (*Monitor).clear},
		"regs":  {"regs", "show PC, MAR and registers", (*Monitor).regs},
		"imem":  {"imem [from [to]]", "list instruction memory", (*Monitor).imem},
		"dmem":  {"dmem [from [to]]", "list data memory", (*Monitor).dmem},
		"load":  {"load FILE", "assemble FILE into instruction memory", (*Monitor).load},
		"help":  {"help", "list commands", (*Monitor).help},
		"quit":  {"quit", "save data memory and exit", (*Monitor).exit},
	}
}

// Quit is true once the 'quit' command has run.
func (mon *Monitor) Quit() bool {
	return mon.quit
}

// Execute runs a single command line. Empty lines are ignored.
func (mon *Monitor) Execute(line string) (err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	cmd, ok := monitorCommands[words[0]]
	if !ok {
		err = ErrCommand(words[0])
		return
	}

	err = cmd.run(mon, words[1:])

	return
}

func (mon *Monitor) printf(format string, args ...any) {
	if mon.Output == nil {
		return
	}
	fmt.Fprintf(mon.Output, format, args...)
}

// count parses an optional positive count argument.
func count(args []string, defValue int) (n int, err error) {
	n = defValue
	if len(args) > 1 {
		err = ErrCommandArgs
		return
	}
	if len(args) == 1 {
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			err = ErrCommandArgs
			return
		}
	}
	return
}

// span parses an optional address range within [0, capacity).
func span(args []string, capacity int) (from, to int, err error) {
	to = capacity
	if len(args) > 2 {
		err = ErrCommandArgs
		return
	}

	bounds := []*int{&from, &to}
	for n, arg := range args {
		var value int64
		value, err = strconv.ParseInt(arg, 0, 32)
		if err != nil {
			err = ErrCommandArgs
			return
		}
		*bounds[n] = int(value)
	}

	from = max(from, 0)
	to = min(to, capacity)
	if len(args) == 1 {
		to = min(from+1, capacity)
	}

	return
}

func (mon *Monitor) showNext() {
	emu := mon.Emulator
	code, ok := emu.Code()
	if !ok {
		mon.printf("halted after %d ticks\n", emu.Ticks)
		return
	}
	mon.printf("%03x: %v\n", emu.Ip(), code)
}

func (mon *Monitor) step(args []string) (err error) {
	n, err := count(args, 1)
	if err != nil {
		return
	}

	for range n {
		var done bool
		done, err = mon.Emulator.Tick()
		if err != nil || done {
			break
		}
	}

	mon.showNext()

	return
}

func (mon *Monitor) run(args []string) (err error) {
	if len(args) > 0 {
		err = ErrCommandArgs
		return
	}

	err = mon.Emulator.Run()
	mon.showNext()

	return
}

func (mon *Monitor) reset(args []string) (err error) {
	if len(args) > 0 {
		err = ErrCommandArgs
		return
	}

	err = mon.Emulator.Reset()
	if err != nil {
		return
	}
	mon.showNext()

	return
}

func (mon *Monitor) clear(args []string) (err error) {
	if len(args) > 0 {
		err = ErrCommandArgs
		return
	}

	err = mon.Emulator.ClearData()

	return
}

func (mon *Monitor) regs(args []string) (err error) {
	if len(args) > 0 {
		err = ErrCommandArgs
		return
	}

	mon.printf("%v", mon.Emulator.Processor.String())
	mon.printf("%5s: %d\n", "ticks", mon.Emulator.Ticks)

	return
}

func (mon *Monitor) imem(args []string) (err error) {
	memory := mon.Emulator.InstructionMemory
	from, to, err := span(args, memory.Capacity())
	if err != nil {
		return
	}

	for address := from; address < to; address++ {
		w := memory.Word(address)
		code := mon.Emulator.Program.Debug(address)
		if code.Opcode != nil && code.Index == 0 {
			mon.printf("%03x: %v %-16v ; line %d\n", address, w, cpu.CodeOf(w), code.LineNo)
		} else {
			mon.printf("%03x: %v %v\n", address, w, cpu.CodeOf(w))
		}
	}

	return
}

func (mon *Monitor) dmem(args []string) (err error) {
	memory := mon.Emulator.DataMemory
	from, to, err := span(args, memory.Capacity())
	if err != nil {
		return
	}

	for address := from; address < to; address++ {
		w := memory.Word(address)
		mon.printf("%03x: %v | %d\n", address, w, w.Integer())
	}

	return
}

func (mon *Monitor) load(args []string) (err error) {
	if len(args) != 1 {
		err = ErrCommandArgs
		return
	}

	open := mon.Open
	if open == nil {
		open = func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		}
	}

	inf, err := open(args[0])
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err := mon.Emulator.Assembler().Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", args[0], err)
		return
	}

	err = mon.Emulator.Load(prog)
	if err != nil {
		return
	}

	mon.printf("%v: %d instructions\n", args[0], len(prog.Binary()))
	mon.showNext()

	return
}

func (mon *Monitor) help(args []string) (err error) {
	for _, name := range []string{"step", "run", "reset", "clear", "regs", "imem", "dmem", "load", "help", "quit"} {
		cmd := monitorCommands[name]
		mon.printf("%-18v %v\n", cmd.usage, f(cmd.help))
	}

	return
}

func (mon *Monitor) exit(args []string) (err error) {
	mon.quit = true
	err = mon.Emulator.Close()

	return
}

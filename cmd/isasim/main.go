// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ezrec/isasim/cpu"
	"github.com/ezrec/isasim/emulator"
	"github.com/ezrec/isasim/io"
)

// console joins stdin and stdout for the monitor line editor.
type console struct{}

func (console) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (console) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func monitor(emu *emulator.Emulator) (err error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, state)
	}

	tty := term.NewTerminal(console{}, "isasim> ")
	mon := &emulator.Monitor{
		Emulator: emu,
		Output:   tty,
	}

	for !mon.Quit() {
		var line string
		line, err = tty.ReadLine()
		if err != nil {
			// End of input.
			err = emu.Close()
			return
		}

		err = mon.Execute(line)
		if err != nil {
			fmt.Fprintf(tty, "%v\n", err)
		}
	}

	err = nil
	return
}

// options are the command line settings.
type options struct {
	compile     string
	imemPath    string
	dmemPath    string
	configPath  string
	save        bool
	interactive bool
	zero        bool
	verbose     bool
}

func run(opt options) (err error) {
	config := cpu.DefaultConfig()
	if len(opt.configPath) != 0 {
		var data []byte
		data, err = os.ReadFile(opt.configPath)
		if err != nil {
			return fmt.Errorf("%v: %w", opt.configPath, err)
		}
		config, err = cpu.ParseConfig(data)
		if err != nil {
			return fmt.Errorf("%v: %w", opt.configPath, err)
		}
	}

	emu, err := emulator.NewEmulator(config, io.NewFile(opt.imemPath), io.NewFile(opt.dmemPath))
	if emu == nil {
		return
	}
	if err != nil {
		log.Printf("%v", err)
	}
	emu.Verbose = opt.verbose

	// Compile a new instruction stream.
	if len(opt.compile) != 0 {
		var inf *os.File
		inf, err = os.Open(opt.compile)
		if err != nil {
			return fmt.Errorf("%v: %w", opt.compile, err)
		}
		defer inf.Close()

		var prog *cpu.Program
		prog, err = emu.Assembler().Parse(inf)
		if err != nil {
			return fmt.Errorf("%v: %w", opt.compile, err)
		}

		err = emu.Load(prog)
		if err != nil {
			return fmt.Errorf("%v: %w", opt.imemPath, err)
		}
	}

	if opt.save {
		return nil
	}

	if opt.zero {
		err = emu.ClearData()
		if err != nil {
			return fmt.Errorf("%v: %w", opt.dmemPath, err)
		}
	}

	if opt.interactive {
		return monitor(emu)
	}

	err = emu.Run()
	if err != nil {
		log.Print(err)
	}

	fmt.Print(emu.Processor.String())

	err = emu.Close()
	if err != nil {
		return fmt.Errorf("%v: %w", opt.dmemPath, err)
	}

	return nil
}

func main() {
	var opt options
	var trace string

	flag.StringVar(&opt.compile, "c", "", "assembly file to compile")
	flag.StringVar(&opt.imemPath, "i", "Imem.dat", "instruction memory file")
	flag.StringVar(&opt.dmemPath, "d", "Dmem.dat", "data memory file")
	flag.StringVar(&opt.configPath, "f", "", "YAML machine configuration")
	flag.BoolVar(&opt.save, "s", false, "Save compiled program, do not execute")
	flag.BoolVar(&opt.interactive, "m", false, "Interactive monitor")
	flag.BoolVar(&opt.zero, "z", false, "Zero data memory before execution")
	flag.BoolVar(&opt.verbose, "v", false, "Verbose mode")
	flag.StringVar(&trace, "t", "", "Write the verbose trace to a rotating log file")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var logger *lumberjack.Logger
	if len(trace) != 0 {
		logger = &lumberjack.Logger{
			Filename:   trace,
			MaxSize:    16, // megabytes
			MaxBackups: 3,
		}
		log.SetOutput(logger)
		opt.verbose = true
	}

	err := run(opt)

	// The trace file is closed before any exit.
	if logger != nil {
		if err != nil {
			log.Print(err)
		}
		logger.Close()
		log.SetOutput(os.Stderr)
	}

	if err != nil {
		log.Fatal(err)
	}
}

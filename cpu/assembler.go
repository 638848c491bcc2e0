// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	IMMEDIATE_MIN        = -128      // Smallest immediate literal.
	IMMEDIATE_MAX        = 255       // Largest immediate literal, as an 8-bit pattern.
	IMMEDIATE_SIGNED_MAX = 127       // Largest immediate that keeps its value after sign extension.
	TARGET_MAX           = 1<<12 - 1 // Largest jump target.
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":            "0",
	"INSTRUCTION_WIDTH": fmt.Sprintf("%d", INSTRUCTION_WIDTH),
	"REGISTER_COUNT":    fmt.Sprintf("%d", 1<<REGISTER_FIELD),
	"IMMEDIATE_MIN":     fmt.Sprintf("%d", IMMEDIATE_MIN),
	"IMMEDIATE_MAX":     fmt.Sprintf("%d", IMMEDIATE_MAX),
}

var rtypeMap = map[string]CodeFunc{
	"add": FUNC_ADD,
	"sub": FUNC_SUB,
	"nor": FUNC_NOR,
}

var itypeMap = map[string]CodeOp{
	"la":   OP_LA,
	"mr":   OP_MR,
	"mw":   OP_MW,
	"addi": OP_ADDI,
	"beq":  OP_BEQ,
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// Assembler is a single pass macro assembler for the simulated processor.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to instruction addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate, applied
// at the start of every Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(text string) (value int64, err error) {
	invert := false
	if strings.HasPrefix(text, "~") {
		invert = true
		text = text[1:]
	}
	if strings.HasPrefix(text, "'") {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseNumber(text)
		return
	}

	value, err = strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// registerOf decodes a register name, written as 'rN' or '&rN'.
func registerOf(text string) (reg uint8, err error) {
	name := strings.TrimPrefix(text, "&")
	if !strings.HasPrefix(name, "r") {
		err = ErrRegisterInvalid
		return
	}

	index, perr := strconv.ParseUint(name[1:], 10, 8)
	if perr != nil || index >= 1<<REGISTER_FIELD {
		err = ErrRegisterInvalid
		return
	}

	reg = uint8(index)
	return
}

// immediateOf decodes an optional 8-bit immediate. Missing immediates are 0.
func (asm *Assembler) immediateOf(args ...string) (imm uint8, err error) {
	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	if len(args) == 0 {
		return
	}

	value, err := asm.valueOf(args[0])
	if err != nil {
		return
	}

	if value < IMMEDIATE_MIN || value > IMMEDIATE_MAX {
		err = ErrImmediateRange
		return
	}

	if value > IMMEDIATE_SIGNED_MAX && asm.Verbose {
		log.Printf("%v: immediate %d sign-extends to %d\n", asm.Equate["LINENO"], value, int8(value))
	}

	imm = uint8(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, ip := range asm.Label {
		if labelRegexp.MatchString(key) {
			pred[key] = starlark.MakeInt(ip)
		}
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%d", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(quoted string) string {
		str := quoted[1 : len(quoted)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return quoted
			}
		} else if len(str) != 1 {
			return quoted
		}
		return fmt.Sprintf("%d", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, text := range words {
		// Check for equate next
		equate, ok := asm.Equate[text]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + len(last.Codes)
}

// stripComment removes '#' and ';' comments.
func stripComment(text string) string {
	index := strings.IndexAny(text, "#;")
	if index >= 0 {
		text = text[:index]
	}
	return strings.TrimSpace(text)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = stripComment(text)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		target, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}

		ip := op.Ip + len(op.Codes) - 1
		linked := &op.Codes[len(op.Codes)-1]
		*linked, err = linkCode(*linked, ip, target)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// linkCode resolves a label address into a jump or branch.
// Branches are relative to their own address.
func linkCode(code Code, ip int, target int) (linked Code, err error) {
	switch code.Op() {
	case OP_J:
		if target < 0 || target > TARGET_MAX {
			err = ErrTargetRange
			return
		}
		linked = MakeCodeJ(uint16(target))
	case OP_BEQ:
		offset := target - ip
		if offset < -128 || offset > 127 {
			err = ErrTargetRange
			return
		}
		linked = MakeCodeI(OP_BEQ, code.RegA(), uint8(int8(offset)))
	default:
		err = ErrInstructionInvalid
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := slices.Clone(words)

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	args := words[1:]

	var reg_a, reg_b, imm uint8

	switch words[0] {
	case "halt":
		if len(args) > 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, Code(0))
	case "add", "sub", "nor":
		if len(args) < 2 {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		reg_a, err = registerOf(args[0])
		if err != nil {
			return
		}
		reg_b, err = registerOf(args[1])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeR(rtypeMap[words[0]], reg_a, reg_b))
	case "la", "mr", "mw", "addi":
		if len(args) < 1 {
			err = ErrOpcodeMissing
			return
		}
		reg_a, err = registerOf(args[0])
		if err != nil {
			return
		}
		imm, err = asm.immediateOf(args[1:]...)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(itypeMap[words[0]], reg_a, imm))
	case "beq":
		if len(args) < 1 {
			err = ErrOpcodeMissing
			return
		}
		reg_a, err = registerOf(args[0])
		if err != nil {
			return
		}
		if len(args) == 2 && labelRegexp.MatchString(args[1]) {
			label = args[1]
		} else {
			imm, err = asm.immediateOf(args[1:]...)
			if err != nil {
				return
			}
		}
		codes = append(codes, MakeCodeI(OP_BEQ, reg_a, imm))
	case "j":
		if len(args) < 1 {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var target int64
		if labelRegexp.MatchString(args[0]) {
			label = args[0]
		} else {
			target, err = asm.valueOf(args[0])
			if err != nil {
				return
			}
			if target < 0 || target > TARGET_MAX {
				err = ErrTargetRange
				return
			}
		}
		codes = append(codes, MakeCodeJ(uint16(target)))
	case "lw", "sw":
		op := OP_MR
		if words[0] == "sw" {
			op = OP_MW
		}
		if len(args) < 1 {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > 3 {
			err = ErrOpcodeExtraArgs
			return
		}
		reg_a, err = registerOf(args[0])
		if err != nil {
			return
		}
		if len(args) < 3 {
			// lw rD [imm] => mr rD [imm]
			imm, err = asm.immediateOf(args[1:]...)
			if err != nil {
				return
			}
			codes = append(codes, MakeCodeI(op, reg_a, imm))
			break
		}
		// lw rD rB imm => la rB imm; addi rB -imm; mr rD imm
		reg_b, err = registerOf(args[1])
		if err != nil {
			return
		}
		imm, err = asm.immediateOf(args[2])
		if err != nil {
			return
		}
		// la also loads rB, so it is restored before the access.
		if imm == 0x80 {
			err = ErrImmediateRange
			return
		}
		codes = append(codes,
			MakeCodeI(OP_LA, reg_b, imm),
			MakeCodeI(OP_ADDI, reg_b, -imm),
			MakeCodeI(op, reg_a, imm),
		)
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}

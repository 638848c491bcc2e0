package cpu

import (
	"iter"
	"slices"
)

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode that produced an instruction address.
type Debug struct {
	*Opcode
	Index int // Index into Opcode.Codes.
}

func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= op.Ip && ip < op.Ip+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  ip - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the instruction words, in address order.
func (prog *Program) Binary() (bins []Code) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Lines returns the instruction memory image of the program, padded with
// halt words to 'capacity' lines.
func (prog *Program) Lines(capacity int) (lines []string, err error) {
	bins := prog.Binary()
	if len(bins) > capacity {
		err = ErrProgramSize
		return
	}

	lines = make([]string, 0, capacity)
	for _, code := range bins {
		lines = append(lines, code.Word().String())
	}
	halt := Code(0).Word().String()
	lines = append(lines, slices.Repeat([]string{halt}, capacity-len(bins))...)

	return
}

func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Ip+n, code) {
					return
				}
			}
		}
	}
}

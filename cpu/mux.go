package cpu

import (
	"github.com/ezrec/isasim/word"
)

// Mux is a 2:1 multiplexer with a one bit select signal.
type Mux struct {
	inputs [2]word.Word
}

// Update stores the two inputs.
func (mux *Mux) Update(zero, one word.Word) {
	mux.inputs[0] = zero
	mux.inputs[1] = one
}

// Output returns the input chosen by 'sel'. Only 0 and 1 are valid.
func (mux *Mux) Output(sel uint8) (value word.Word, err error) {
	if int(sel) >= len(mux.inputs) {
		err = ErrMuxSelect
		return
	}

	value = mux.inputs[sel]
	return
}

// signal converts a control line to a mux select.
func signal(line bool) uint8 {
	if line {
		return 1
	}
	return 0
}

package cpu

import (
	"github.com/ezrec/isasim/word"
)

// Register is a fixed-width storage cell.
type Register struct {
	width uint
	value word.Word
}

// NewRegister creates a zeroed register.
func NewRegister(width uint) (reg *Register) {
	reg = &Register{width: width}
	reg.Clear()
	return
}

// Width of the register in bits.
func (reg *Register) Width() uint {
	return reg.width
}

// Value returns the latched word.
func (reg *Register) Value() word.Word {
	return reg.value
}

// Update latches a new value. Wider values keep their leftmost bits,
// narrower values are zero padded on the left. The empty word clears the
// register.
func (reg *Register) Update(value word.Word) {
	reg.value = value.Resize(reg.width)
}

// Clear sets the register to zero.
func (reg *Register) Clear() {
	reg.Update(word.Word{})
}

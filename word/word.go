// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package word implements fixed-width two's-complement binary words.
//
// A Word is a bit string of an explicit width, most significant bit first.
// Bit positions used by Bit, Slice and friends count from the MSB (position
// 0) towards the LSB (position Width-1), which matches the way instruction
// fields are documented for the isasim processor.
package word

import (
	"strings"
)

const (
	MAX_WIDTH = 64 // Widest representable word.
)

// Word is a fixed-width bit string.
type Word struct {
	Width uint   // Width in bits.
	Bits  uint64 // Bits, right aligned. Bits above Width are always zero.
}

// mask returns the mask of the low 'width' bits.
func mask(width uint) uint64 {
	if width >= MAX_WIDTH {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// New creates a word of the given width from the low-order bits of 'bits'.
func New(width uint, bits uint64) Word {
	if width > MAX_WIDTH {
		width = MAX_WIDTH
	}
	return Word{Width: width, Bits: bits & mask(width)}
}

// Zero returns the all-zero word of the given width.
func Zero(width uint) Word {
	return New(width, 0)
}

// FromInteger encodes a signed value as a two's-complement word.
// Values that do not fit are reduced modulo 2^width: they wrap, and are
// neither clamped nor saturated to the largest magnitude. Callers range
// check values that must not wrap.
func FromInteger(width uint, value int64) Word {
	return New(width, uint64(value))
}

// Parse converts a string of '0' and '1' characters to a word of the same
// width. Any character other than '1' is read as a zero bit. Text wider than
// MAX_WIDTH keeps its leftmost MAX_WIDTH characters.
func Parse(text string) (w Word) {
	if len(text) > MAX_WIDTH {
		text = text[:MAX_WIDTH]
	}

	w.Width = uint(len(text))
	for n := range len(text) {
		w.Bits <<= 1
		if text[n] == '1' {
			w.Bits |= 1
		}
	}

	return
}

// String returns the word as a string of '0' and '1' characters.
func (w Word) String() string {
	var sb strings.Builder
	sb.Grow(int(w.Width))
	for n := range w.Width {
		if w.Bit(n) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Integer interprets the word as a two's-complement signed value.
func (w Word) Integer() int64 {
	if w.Width == 0 {
		return 0
	}
	shift := MAX_WIDTH - w.Width
	return int64(w.Bits<<shift) >> shift
}

// Unsigned interprets the word as an unsigned magnitude.
func (w Word) Unsigned() uint64 {
	return w.Bits
}

// IsZero is true if no bit is set.
func (w Word) IsZero() bool {
	return w.Bits == 0
}

// Sign returns the most significant bit.
func (w Word) Sign() bool {
	if w.Width == 0 {
		return false
	}
	return w.Bit(0)
}

// Bit returns the bit at MSB-first position 'pos'.
func (w Word) Bit(pos uint) bool {
	if pos >= w.Width {
		return false
	}
	return ((w.Bits >> (w.Width - 1 - pos)) & 1) != 0
}

// Negate returns the two's-complement negation. Zero negates to itself.
//
// Equivalently: every bit above the lowest set bit is inverted, the lowest
// set bit and the bits below it are kept.
func (w Word) Negate() Word {
	return New(w.Width, -w.Bits)
}

// Not returns the bitwise complement.
func (w Word) Not() Word {
	return New(w.Width, ^w.Bits)
}

// Add returns w + other, truncated to the width of w. Carry out of the MSB
// is discarded.
func (w Word) Add(other Word) Word {
	return New(w.Width, w.Bits+other.Bits)
}

// Nor returns the bitwise NOR of w and other, at the width of w.
func (w Word) Nor(other Word) Word {
	return New(w.Width, ^(w.Bits | other.Bits))
}

// Slice returns the bits at MSB-first positions [from, to).
func (w Word) Slice(from, to uint) Word {
	if to > w.Width {
		to = w.Width
	}
	if from >= to {
		return Word{}
	}
	return New(to-from, w.Bits>>(w.Width-to))
}

// Concat appends the bits of each word in 'tail' after the bits of w.
func (w Word) Concat(tail ...Word) Word {
	for _, t := range tail {
		w = New(w.Width+t.Width, (w.Bits<<t.Width)|t.Bits)
	}
	return w
}

// SignExtend widens the word to 'width' by replicating the sign bit on the
// left. Words already at least 'width' wide are returned unchanged.
func (w Word) SignExtend(width uint) Word {
	if w.Width >= width {
		return w
	}
	bits := w.Bits
	if w.Sign() {
		bits |= mask(width) &^ mask(w.Width)
	}
	return New(width, bits)
}

// Resize fits the word into 'width' bits the way a register latches a value:
// wider words keep their leftmost 'width' bits, narrower words are padded on
// the left with zeros.
func (w Word) Resize(width uint) Word {
	if w.Width > width {
		return w.Slice(0, width)
	}
	return New(width, w.Bits)
}

package word

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		width uint
		bits  uint64
		str   string
	}){
		{"", 0, 0, ""},
		{"0", 1, 0, "0"},
		{"1", 1, 1, "1"},
		{"0001000000000101", 16, 0x1005, "0001000000000101"},
		{"1111111111111111", 16, 0xffff, "1111111111111111"},
		{"10x1", 4, 0b1001, "1001"},
		{"  11", 4, 0b0011, "0011"},
	}

	for _, entry := range table {
		w := Parse(entry.text)
		assert.Equal(entry.width, w.Width, entry.text)
		assert.Equal(entry.bits, w.Bits, entry.text)
		assert.Equal(entry.str, w.String(), entry.text)
	}
}

func TestParse_Wide(t *testing.T) {
	assert := assert.New(t)

	text := ""
	for range 70 {
		text += "1"
	}
	w := Parse(text)
	assert.Equal(uint(MAX_WIDTH), w.Width)
	assert.Equal(^uint64(0), w.Bits)
}

func TestInteger(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		value int64
	}){
		{"0000000000000000", 0},
		{"0000000000000101", 5},
		{"1111111111111111", -1},
		{"1000000000000000", -32768},
		{"0111111111111111", 32767},
		{"11111011", -5},
		{"1000", -8},
		{"01111", 15},
		{"", 0},
	}

	for _, entry := range table {
		assert.Equal(entry.value, Parse(entry.text).Integer(), entry.text)
	}
}

func TestFromInteger(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0000000000000001", FromInteger(16, 1).String())
	assert.Equal("1111111111111011", FromInteger(16, -5).String())
	assert.Equal("1000000000000000", FromInteger(16, -32768).String())
	assert.Equal("00000101", FromInteger(8, 5).String())
	assert.Equal("10000000", FromInteger(8, -128).String())

	// Out of range values wrap modulo 2^width.
	assert.Equal("0000", FromInteger(4, 16).String())
	assert.Equal("0100", FromInteger(4, 20).String())
}

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for bits := range uint64(1 << 16) {
		w := New(16, bits)
		v := w.Integer()
		assert.Equal(v, FromInteger(16, v).Integer())
		assert.Equal(w, FromInteger(16, v))
	}
}

func TestNegate(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		in  string
		out string
	}){
		{"0000", "0000"},
		{"0001", "1111"},
		{"0100", "1100"},
		{"1000", "1000"},
		{"0110", "1010"},
		{"0000000000000101", "1111111111111011"},
	}

	for _, entry := range table {
		assert.Equal(entry.out, Parse(entry.in).Negate().String(), entry.in)
	}

	for bits := range uint64(1 << 16) {
		w := New(16, bits)
		assert.Equal(w, w.Negate().Negate())
		if w.Integer() != -32768 {
			assert.Equal(-w.Integer(), w.Negate().Integer())
		}
	}
}

func TestSignExtend(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0000000000000101", Parse("00000101").SignExtend(16).String())
	assert.Equal("1111111111111011", Parse("11111011").SignExtend(16).String())
	assert.Equal("1111111111111111", Parse("1").SignExtend(16).String())
	assert.Equal("0101", Parse("0101").SignExtend(4).String())
	// Never truncates.
	assert.Equal("110101", Parse("110101").SignExtend(4).String())

	for width := uint(1); width <= 16; width++ {
		for bits := range uint64(1) << width {
			w := New(width, bits)
			ext := w.SignExtend(16)
			assert.Equal(uint(16), ext.Width)
			for n := range 16 - width {
				assert.Equal(w.Sign(), ext.Bit(n))
			}
			assert.Equal(w, ext.Slice(16-width, 16))
		}
	}
}

func TestResize(t *testing.T) {
	assert := assert.New(t)

	// Longer keeps the leftmost bits.
	assert.Equal("0001", Parse("00011111").Resize(4).String())
	assert.Equal("1010", Parse("1010").Resize(4).String())
	// Shorter pads with zero on the left.
	assert.Equal("00000110", Parse("110").Resize(8).String())
	// Empty becomes all-zero.
	assert.Equal("0000000000000000", Word{}.Resize(16).String())
	// Register addressing fields survive.
	assert.Equal("00101", Parse("0").Concat(Parse("0101")).Resize(5).String())
}

func TestSliceConcat(t *testing.T) {
	assert := assert.New(t)

	w := Parse("0001001000110100")
	assert.Equal("0001", w.Slice(0, 4).String())
	assert.Equal("0010", w.Slice(4, 8).String())
	assert.Equal("0011", w.Slice(8, 12).String())
	assert.Equal("0100", w.Slice(12, 16).String())
	assert.Equal("001000110100", w.Slice(4, 16).String())
	assert.Equal("", w.Slice(8, 8).String())
	assert.Equal("0100", w.Slice(12, 20).String())

	assert.Equal(w, w.Slice(0, 4).Concat(w.Slice(4, 8), w.Slice(8, 16)))
	assert.Equal("00010100", w.Slice(0, 4).Concat(w.Slice(12, 16)).String())
	assert.Equal(w, Word{}.Concat(w))
}

func TestAddNor(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(FromInteger(16, 8), FromInteger(16, 5).Add(FromInteger(16, 3)))
	assert.Equal(FromInteger(16, -32768), FromInteger(16, 32767).Add(FromInteger(16, 1)))
	assert.Equal(Zero(16), FromInteger(16, -1).Add(FromInteger(16, 1)))
	assert.Equal("1000", Parse("0101").Nor(Parse("0011")).String())
	assert.Equal("1010", Parse("0101").Not().String())
}

func FuzzWord(f *testing.F) {
	f.Add(uint16(0), uint16(0))
	f.Add(uint16(0x8000), uint16(0x7fff))
	f.Add(uint16(0xffff), uint16(1))

	f.Fuzz(func(t *testing.T, a, b uint16) {
		assert := assert.New(t)

		wa := New(16, uint64(a))
		wb := New(16, uint64(b))

		sum := wa.Add(wb)
		assert.Equal(int16(int16(a)+int16(b)), int16(sum.Integer()))

		nor := wa.Nor(wb)
		for n := range uint(16) {
			assert.Equal(!wa.Bit(n) && !wb.Bit(n), nor.Bit(n), fmt.Sprintf("bit %d", n))
		}

		assert.Equal(wa, Parse(wa.String()))
	})
}

package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/isasim/word"
)

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegister(16)
	assert.Equal(uint(16), reg.Width())
	assert.Equal(word.Zero(16), reg.Value())

	reg.Update(word.FromInteger(16, -3))
	assert.Equal(int64(-3), reg.Value().Integer())

	// Narrow values are zero padded.
	reg.Update(word.Parse("101"))
	assert.Equal("0000000000000101", reg.Value().String())

	// Wide values keep their leftmost bits.
	reg.Update(word.Parse("10100000000000001111"))
	assert.Equal("1010000000000000", reg.Value().String())

	reg.Clear()
	assert.True(reg.Value().IsZero())
	assert.Equal(uint(16), reg.Value().Width)
}

func TestMux(t *testing.T) {
	assert := assert.New(t)

	mux := &Mux{}
	zero := word.FromInteger(16, 10)
	one := word.FromInteger(16, 20)
	mux.Update(zero, one)

	value, err := mux.Output(0)
	assert.NoError(err)
	assert.Equal(zero, value)

	value, err = mux.Output(1)
	assert.NoError(err)
	assert.Equal(one, value)

	_, err = mux.Output(2)
	assert.ErrorIs(err, ErrMuxSelect)

	assert.Equal(uint8(1), signal(true))
	assert.Equal(uint8(0), signal(false))
}

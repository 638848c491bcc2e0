package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/isasim/word"
)

func TestController_Decode(t *testing.T) {
	assert := assert.New(t)

	type testCase struct {
		op  CodeOp
		fn  CodeFunc
		mcw string
	}

	table := [...]testCase{
		{OP_RTYPE, FUNC_ADD, "000000011"},
		{OP_RTYPE, FUNC_SUB, "000001011"},
		{OP_RTYPE, FUNC_NOR, "000010011"},
		{OP_LA, 0, "000100111"},
		{OP_MR, 0, "000000010"},
		{OP_MR, FUNC_SUB, "000000010"},
		{OP_ADDI, 0, "000100011"},
		{OP_MW, 0, "001000000"},
		{OP_BEQ, 0, "010000000"},
		{OP_J, 0, "100000000"},
	}

	ctl := Controller{}
	for _, entry := range table {
		mcw, err := ctl.Decode(entry.op, entry.fn)
		assert.NoError(err)
		assert.Equal(entry.mcw, mcw.String(), "%04b %04b", entry.op, entry.fn)
		assert.Equal(mcw, McwOf(word.Parse(entry.mcw)))
	}

	for _, op := range []CodeOp{0b0011, 0b0101, 0b1001, 0b1111} {
		_, err := ctl.Decode(op, 0)
		assert.ErrorIs(err, ErrDecode)
	}

	for _, fn := range []CodeFunc{0b0000, 0b0011, 0b0100, 0b1111} {
		_, err := ctl.Decode(OP_RTYPE, fn)
		assert.ErrorIs(err, ErrDecode)
	}
}

func TestMcw(t *testing.T) {
	assert := assert.New(t)

	w := MCW_LA.Word()
	assert.Equal(uint(MCW_WIDTH), w.Width)
	assert.True(MCW_LA.AluSrc)
	assert.True(MCW_LA.MarWrite)
	assert.Equal(ALU_OP_ADD, MCW_LA.AluOp)

	mcw := McwOf(word.Parse("111111111"))
	assert.Equal(Mcw{PcSrc: true, Branch: true, MemWrite: true, AluSrc: true,
		AluOp: ALU_OP_PASS, MarWrite: true, RegWrite: true, RegSel: true}, mcw)
	assert.Equal("111111111", mcw.String())
}

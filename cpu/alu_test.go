package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/isasim/word"
)

func TestAlu(t *testing.T) {
	assert := assert.New(t)

	type testCase struct {
		op     AluOp
		a, b   int64
		result int64
	}

	table := [...]testCase{
		{ALU_OP_ADD, 2, 3, 5},
		{ALU_OP_ADD, 0x7fff, 1, -0x8000},
		{ALU_OP_ADD, -1, 1, 0},
		{ALU_OP_SUB, 5, 3, 2},
		{ALU_OP_SUB, 3, 5, -2},
		{ALU_OP_SUB, -0x8000, 1, 0x7fff},
		{ALU_OP_SUB, 7, 0, 7},
		{ALU_OP_NOR, 0, 0, -1},
		{ALU_OP_NOR, 0x00ff, 0x0f00, -0x1000},
		{ALU_OP_NOR, -1, 0, 0},
		{ALU_OP_PASS, 9, 3, 9},
	}

	alu := &Alu{}
	for _, entry := range table {
		alu.SetOpcode(entry.op)
		a := word.FromInteger(16, entry.a)
		b := word.FromInteger(16, entry.b)
		result := alu.Operate(a, b)
		assert.Equal(uint(16), result.Width)
		assert.Equal(entry.result, result.Integer(), "%v %d %d", entry.op, entry.a, entry.b)
	}
}

func TestAluOp_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("add", ALU_OP_ADD.String())
	assert.Equal("sub", ALU_OP_SUB.String())
	assert.Equal("nor", ALU_OP_NOR.String())
	assert.Equal("pass", ALU_OP_PASS.String())
	assert.Equal("AluOp(7)", AluOp(7).String())
}

func FuzzAlu(f *testing.F) {
	f.Add(int16(0), int16(0))
	f.Add(int16(1), int16(-1))
	f.Add(int16(-32768), int16(32767))

	f.Fuzz(func(t *testing.T, a int16, b int16) {
		wa := word.FromInteger(16, int64(a))
		wb := word.FromInteger(16, int64(b))

		alu := &Alu{}

		alu.SetOpcode(ALU_OP_ADD)
		if got := alu.Operate(wa, wb).Integer(); got != int64(a+b) {
			t.Errorf("add %d %d: got %d", a, b, got)
		}

		alu.SetOpcode(ALU_OP_SUB)
		if got := alu.Operate(wa, wb).Integer(); got != int64(a-b) {
			t.Errorf("sub %d %d: got %d", a, b, got)
		}

		alu.SetOpcode(ALU_OP_NOR)
		if got := alu.Operate(wa, wb).Integer(); got != int64(^(a | b)) {
			t.Errorf("nor %d %d: got %d", a, b, got)
		}
	})
}

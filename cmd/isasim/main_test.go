package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/isasim/cpu"
)

func testOptions(t *testing.T, program string) (opt options) {
	dir := t.TempDir()

	opt = options{
		imemPath: filepath.Join(dir, "Imem.dat"),
		dmemPath: filepath.Join(dir, "Dmem.dat"),
	}

	if len(program) != 0 {
		opt.compile = filepath.Join(dir, "prog.s")
		err := os.WriteFile(opt.compile, []byte(program), 0o644)
		if err != nil {
			t.Fatal(err)
		}
	}

	return
}

func readImage(t *testing.T, path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Fields(string(data))
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	opt := testOptions(t, "addi r1 3\nsw r1 r0 2\nhalt\n")

	err := run(opt)
	assert.NoError(err)

	imem := readImage(t, opt.imemPath)
	assert.Equal(128, len(imem))
	assert.Equal(cpu.MakeCodeI(cpu.OP_ADDI, 1, 3).Word().String(), imem[0])

	dmem := readImage(t, opt.dmemPath)
	assert.Equal(128, len(dmem))
	assert.Equal("0000000000000011", dmem[2])
}

func TestRun_Save(t *testing.T) {
	assert := assert.New(t)

	opt := testOptions(t, "addi r1 3\nsw r1 r0 2\n")
	opt.save = true

	err := run(opt)
	assert.NoError(err)

	assert.Equal(128, len(readImage(t, opt.imemPath)))
	_, err = os.Stat(opt.dmemPath)
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestRun_Errors(t *testing.T) {
	assert := assert.New(t)

	opt := testOptions(t, "")
	opt.compile = filepath.Join(filepath.Dir(opt.imemPath), "missing.s")
	err := run(opt)
	assert.ErrorIs(err, os.ErrNotExist)
	assert.Contains(err.Error(), "missing.s")

	opt = testOptions(t, "frob r1\n")
	err = run(opt)
	assert.ErrorIs(err, cpu.ErrInstructionInvalid)

	opt = testOptions(t, "")
	opt.configPath = filepath.Join(filepath.Dir(opt.imemPath), "config.yaml")
	err = os.WriteFile(opt.configPath, []byte("register_width: 12\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = run(opt)
	assert.ErrorIs(err, cpu.ErrConfig)
}

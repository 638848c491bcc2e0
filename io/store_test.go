package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer(t *testing.T) {
	assert := assert.New(t)

	buf := &Buffer{}
	lines, err := buf.Load()
	assert.NoError(err)
	assert.Empty(lines)

	image := []string{"0001", "0010"}
	assert.NoError(buf.Save(image))
	image[0] = "1111"
	assert.Equal([]string{"0001", "0010"}, buf.Lines)

	lines, err = buf.Load()
	assert.NoError(err)
	lines[1] = "1111"
	assert.Equal([]string{"0001", "0010"}, buf.Lines)
}

func TestUnmarshal(t *testing.T) {
	assert := assert.New(t)

	lines, err := Unmarshal(strings.NewReader("0001\r\n10\n\n111"))
	assert.NoError(err)
	assert.Equal([]string{"0001", "10", "", "111"}, lines)

	lines, err = Unmarshal(strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(lines)
}

func TestMarshal(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	err := Marshal(out, []string{"0001", "0010"})
	assert.NoError(err)
	assert.Equal("0001\n0010\n", out.String())
}

func TestFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	file := &File{FS: DirFS(dir), Name: "Dmem.dat"}

	// Missing file loads as empty.
	lines, err := file.Load()
	assert.NoError(err)
	assert.Empty(lines)

	err = file.Save([]string{"0000000000000001", "1000000000000000"})
	assert.NoError(err)

	data, err := os.ReadFile(filepath.Join(dir, "Dmem.dat"))
	assert.NoError(err)
	assert.Equal("0000000000000001\n1000000000000000\n", string(data))

	lines, err = file.Load()
	assert.NoError(err)
	assert.Equal([]string{"0000000000000001", "1000000000000000"}, lines)
}

func TestFile_Invalid(t *testing.T) {
	assert := assert.New(t)

	file := &File{}
	_, err := file.Load()
	assert.ErrorIs(err, ErrStoreInvalid)
	assert.ErrorIs(file.Save(nil), ErrStoreInvalid)

	file = &File{FS: DirFS(t.TempDir()), Name: "../escape.dat"}
	assert.Error(file.Save(nil))
	_, err = file.Load()
	assert.Error(err)
}

func TestNewFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "Imem.dat")
	assert.NoError(os.WriteFile(path, []byte("0001000000000101\n"), 0644))

	file := NewFile(path)
	assert.Equal("Imem.dat", file.Name)
	lines, err := file.Load()
	assert.NoError(err)
	assert.Equal([]string{"0001000000000101"}, lines)
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"strings"

	"github.com/ezrec/isasim/io"
	"github.com/ezrec/isasim/word"
)

// Memory is an addressable array of fixed-width words. The address of every
// access comes from the bound register.
type Memory struct {
	Verbose bool   // If set, log loads and persists.
	Name    string // Name used in diagnostics.

	capacity   int
	wordLength uint
	data       []word.Word
	register   *Register
	store      io.Store
}

// NewMemory creates a memory of 'capacity' words bound to a register, and
// loads it from the store. On a load error the memory is still usable, and
// holds zero words.
func NewMemory(name string, capacity int, wordLength uint, store io.Store, register *Register) (mem *Memory, err error) {
	mem = &Memory{
		Name:       name,
		capacity:   capacity,
		wordLength: wordLength,
		data:       make([]word.Word, capacity),
		register:   register,
		store:      store,
	}

	err = mem.Reload()

	return
}

// Capacity of the memory, in words.
func (mem *Memory) Capacity() int {
	return mem.capacity
}

// WordLength of each word, in bits.
func (mem *Memory) WordLength() uint {
	return mem.wordLength
}

// Word returns the word at an address, without using the bound register.
func (mem *Memory) Word(address int) word.Word {
	if address < 0 || address >= mem.capacity {
		return word.Zero(mem.wordLength)
	}
	return mem.data[address]
}

// Words iterates over every address and word.
func (mem *Memory) Words() iter.Seq2[int, word.Word] {
	return func(yield func(address int, w word.Word) bool) {
		for address, w := range mem.data {
			if !yield(address, w) {
				return
			}
		}
	}
}

// Defines for the memory, for use by the assembler.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return func(yield func(name string, value string) bool) {
		yield(strings.ToUpper(mem.Name)+"_SIZE", fmt.Sprintf("%d", mem.capacity))
	}
}

// address decodes the bound register as a two's-complement address.
func (mem *Memory) address() (address int, ok bool) {
	value := mem.register.Value().Integer()
	if value < 0 || value >= int64(mem.capacity) {
		return
	}

	address = int(value)
	ok = true
	return
}

// Read returns the word at the bound register's address, or the zero
// word when the address is out of range.
func (mem *Memory) Read() word.Word {
	address, ok := mem.address()
	if !ok {
		return word.Zero(mem.wordLength)
	}

	return mem.data[address]
}

// Write stores a word at the bound register's address. Out of range
// addresses are ignored.
func (mem *Memory) Write(value word.Word) {
	address, ok := mem.address()
	if !ok {
		return
	}

	mem.data[address] = value.Resize(mem.wordLength)
}

// fit pads a stored line on the left with '0', or keeps its first
// wordLength characters.
func (mem *Memory) fit(line string) word.Word {
	length := int(mem.wordLength)
	if len(line) < length {
		line = strings.Repeat("0", length-len(line)) + line
	}
	return word.Parse(line[:length])
}

// Reload replaces the contents with the backing store image. Missing words
// are zero, words beyond the capacity are ignored.
func (mem *Memory) Reload() (err error) {
	for n := range mem.data {
		mem.data[n] = word.Zero(mem.wordLength)
	}

	if mem.store == nil {
		return
	}

	lines, err := mem.store.Load()
	if err != nil {
		err = fmt.Errorf("%v: %w", mem.Name, err)
		return
	}

	for n, line := range lines {
		if n >= mem.capacity {
			break
		}
		mem.data[n] = mem.fit(line)
	}

	if mem.Verbose {
		log.Printf("%v: loaded %d of %d words", mem.Name, min(len(lines), mem.capacity), mem.capacity)
	}

	return
}

// Persist writes the contents to the backing store, one word per line in
// address order.
func (mem *Memory) Persist() (err error) {
	if mem.store == nil {
		return
	}

	lines := make([]string, 0, mem.capacity)
	for _, w := range mem.data {
		lines = append(lines, w.String())
	}

	err = mem.store.Save(lines)
	if err != nil {
		err = fmt.Errorf("%v: %w", mem.Name, err)
		return
	}

	if mem.Verbose {
		log.Printf("%v: persisted %d words", mem.Name, len(lines))
	}

	return
}

// Clear zeros every word and persists the result.
func (mem *Memory) Clear() (err error) {
	for n := range mem.data {
		mem.data[n] = word.Zero(mem.wordLength)
	}

	err = mem.Persist()

	return
}

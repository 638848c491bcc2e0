// Package io provides the backing stores for the isasim memories.
//
// A memory image is an ordered sequence of lines, one word per line, each
// line a string of '0' and '1' characters. Stores only move lines; padding,
// truncation and interpretation of the lines belong to the memory that owns
// the image.
package io

import (
	"errors"
	"io/fs"
	"slices"
)

// Store defines the interface for a memory image backing store.
type Store interface {
	// Load returns the lines of the stored image, in address order.
	Load() (lines []string, err error)
	// Save replaces the stored image.
	Save(lines []string) error
}

// Buffer is an in-memory Store.
type Buffer struct {
	Lines []string
}

var _ Store = (*Buffer)(nil)

// Load returns a copy of the buffered lines.
func (buf *Buffer) Load() (lines []string, err error) {
	lines = slices.Clone(buf.Lines)
	return
}

// Save replaces the buffered lines with a copy of 'lines'.
func (buf *Buffer) Save(lines []string) (err error) {
	buf.Lines = slices.Clone(lines)
	return
}

// File is a Store kept as a named file in a CreateFS.
// A file that does not exist yet loads as an empty image.
type File struct {
	FS   CreateFS
	Name string
}

var _ Store = (*File)(nil)

// Load reads the image from the file.
func (file *File) Load() (lines []string, err error) {
	if file.FS == nil {
		err = ErrStoreInvalid
		return
	}

	inf, err := file.FS.Open(file.Name)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
		return
	}
	if err != nil {
		return
	}
	defer inf.Close()

	lines, err = Unmarshal(inf)

	return
}

// Save writes the image to the file, replacing any prior content.
func (file *File) Save(lines []string) (err error) {
	if file.FS == nil {
		err = ErrStoreInvalid
		return
	}

	ouf, err := file.FS.Create(file.Name)
	if err != nil {
		return
	}

	err = Marshal(ouf, lines)
	if cerr := ouf.Close(); err == nil {
		err = cerr
	}

	return
}

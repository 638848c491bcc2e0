package io

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files.
// It extends fs.FS with the write capability needed to persist memory images.
type CreateFS interface {
	fs.FS
	// Create creates or truncates a file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

// Open opens a file for reading.
func (dir DirFS) Open(name string) (fs.File, error) {
	return os.DirFS(string(dir)).Open(name)
}

// Create creates or truncates a file for writing.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	if !fs.ValidPath(name) {
		err = &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
		return
	}

	file, err = os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
	return
}

// NewFile returns a File store for a host path.
func NewFile(path string) *File {
	return &File{
		FS:   DirFS(filepath.Dir(path)),
		Name: filepath.Base(path),
	}
}

// Package mmap maps read-only data files into memory.
//
// Open maps a private snapshot of the file, so the mapped bytes never
// change while they are in use, even when the original file is rewritten
// in place or truncated.
package mmap

import (
	"errors"
	"os"
)

// File - memory-mapped snapshot of a file
type File struct {
	data   []byte
	mapped bool
}

// Open - maps a read-only snapshot of the file at path.
// Empty files are returned with nil data and nothing mapped.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, size, err := snapshot(f)
	if err != nil {
		return nil, err
	}
	if snap != f {
		defer snap.Close()
	}

	if size == 0 {
		return &File{}, nil
	}
	if size < 0 || int64(int(size)) != size {
		return nil, errors.New("mmap: file size out of range")
	}

	data, mapped, err := mmap(snap, int(size))
	if err != nil {
		return nil, err
	}
	return &File{data: data, mapped: mapped}, nil
}

// Bytes - mapped content, valid until Close
func (m *File) Bytes() []byte {
	return m.data
}

// Mapped - reports whether the content is backed by a mapping
func (m *File) Mapped() bool {
	return m.mapped
}

// Close - unmaps the memory, safe to call more than once
func (m *File) Close() error {
	if m == nil || m.data == nil {
		return nil
	}
	var err error
	if m.mapped {
		err = munmap(m.data)
	}
	m.data = nil
	return err
}

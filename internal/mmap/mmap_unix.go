//go:build !windows

package mmap

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// snapshot copies f into an unlinked temporary file that no other process
// can open. The caller closes the returned file.
func snapshot(f *os.File) (*os.File, int64, error) {
	tmp, err := os.CreateTemp("", "geolite-*.map")
	if err != nil {
		return nil, 0, err
	}
	if err := os.Remove(tmp.Name()); err != nil {
		_ = tmp.Close()
		return nil, 0, err
	}
	n, err := io.Copy(tmp, f)
	if err != nil {
		_ = tmp.Close()
		return nil, 0, err
	}
	return tmp, n, nil
}

func mmap(f *os.File, size int) ([]byte, bool, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func munmap(data []byte) error {
	return unix.Munmap(data)
}

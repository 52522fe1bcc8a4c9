package geolite

import (
	"fmt"
	"io"
	"os"
)

type dbStream struct {
	file *os.File
	name string
}

func newDBStream(filename string) (*dbStream, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	return &dbStream{file: file, name: filename}, nil
}

func (stream *dbStream) getLength() (int64, error) {
	fi, err := stream.file.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// readCount - reads exactly count bytes from the current position
func (stream *dbStream) readCount(count int64) ([]byte, error) {
	buf := make([]byte, count)
	n, err := io.ReadFull(stream.file, buf)
	if err != nil {
		return buf[:n], fmt.Errorf("tried to read %d bytes from %s but got %d: %w", count, stream.name, n, err)
	}
	return buf, nil
}

// readAll - whole file into one contiguous buffer
func (stream *dbStream) readAll() ([]byte, error) {
	length, err := stream.getLength()
	if err != nil {
		return nil, err
	}
	if _, err := stream.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}
	return stream.readCount(length)
}

func (stream *dbStream) close() {
	_ = stream.file.Close()
}

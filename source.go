package geolite

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/proipinfo/golang-geolite/internal/mmap"
)

// Source - provides the raw data files of a dataset
type Source interface {
	// Open returns the full content of the named file.
	// A missing file yields an error satisfying errors.Is(err, ErrNotFound).
	Open(ctx context.Context, name string) (Blob, error)
	// Stat reports a change stamp for the named file.
	Stat(ctx context.Context, name string) (Stamp, error)
}

// Blob - read-only file content. Bytes stays valid until Close.
type Blob interface {
	Bytes() []byte
	Close() error
}

// Stamp - identifies one version of a file
type Stamp struct {
	Size    int64
	ModTime time.Time
	ETag    string
}

type memBlob []byte

func (b memBlob) Bytes() []byte { return b }
func (b memBlob) Close() error  { return nil }

// NewBlob - wraps heap bytes as a Blob
func NewBlob(data []byte) Blob {
	return memBlob(data)
}

// DirSource - reads data files from a local directory
type DirSource struct {
	dir  string
	mmap bool
}

// NewDirSource - creates a DirSource. With useMmap each file is copied to a
// private snapshot that is mapped read-only and released once the dataset
// holding it is collected. Rewriting or truncating a data file in place
// never changes a published dataset.
func NewDirSource(dir string, useMmap bool) *DirSource {
	return &DirSource{dir: dir, mmap: useMmap}
}

// Dir - returns the directory
func (s *DirSource) Dir() string {
	return s.dir
}

// Open - reads the named file
func (s *DirSource) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, name)
	if s.mmap {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	stream, err := newDBStream(path)
	if err != nil {
		return nil, err
	}
	defer stream.close()
	buf, err := stream.readAll()
	if err != nil {
		return nil, err
	}
	return memBlob(buf), nil
}

// Stat - stats the named file
func (s *DirSource) Stat(ctx context.Context, name string) (Stamp, error) {
	if err := ctx.Err(); err != nil {
		return Stamp{}, err
	}
	fi, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

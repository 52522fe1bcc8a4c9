package geolite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressed siblings tried, in order, when a plain data file is missing.
const (
	extZstd = ".zst"
	extLZ4  = ".lz4"
)

// fetchFile opens name from src. When the plain file does not exist the
// .zst and .lz4 siblings are tried and decompressed to the heap.
func fetchFile(ctx context.Context, src Source, name string) (Blob, error) {
	blob, err := src.Open(ctx, name)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return blob, err
	}
	notFound := err

	for _, ext := range []string{extZstd, extLZ4} {
		packed, err := src.Open(ctx, name+ext)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		data, err := decompress(ext, packed.Bytes())
		_ = packed.Close()
		if err != nil {
			return nil, fmt.Errorf("decompress %s%s: %w", name, ext, err)
		}
		return NewBlob(data), nil
	}
	return nil, notFound
}

func decompress(ext string, packed []byte) ([]byte, error) {
	switch ext {
	case extZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(packed, nil)
	case extLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(packed)))
	}
	return nil, fmt.Errorf("unknown compression %q", ext)
}

// stampFile stats name or, when missing, its compressed siblings.
func stampFile(ctx context.Context, src Source, name string) (Stamp, error) {
	st, err := src.Stat(ctx, name)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return st, err
	}
	for _, ext := range []string{extZstd, extLZ4} {
		if st, err := src.Stat(ctx, name+ext); err == nil {
			return st, nil
		}
	}
	return Stamp{}, err
}

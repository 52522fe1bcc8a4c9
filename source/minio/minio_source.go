// Package minio reads geolite data files from MinIO or any S3-compatible
// storage through minio-go.
package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	geolite "github.com/proipinfo/golang-geolite"
)

// Source implements geolite.Source for a bucket prefix.
type Source struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates a Source. prefix is prepended to every file name (e.g. "geoip/").
func New(client *minio.Client, bucket, prefix string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open downloads the whole object.
func (s *Source) Open(ctx context.Context, name string) (geolite.Blob, error) {
	key := s.key(name)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(key, err)
	}
	defer obj.Close()

	// GetObject is lazy, a missing key shows up on the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(key, err)
	}
	return geolite.NewBlob(data), nil
}

// Stat returns size, modification time and ETag of the object.
func (s *Source) Stat(ctx context.Context, name string) (geolite.Stamp, error) {
	key := s.key(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return geolite.Stamp{}, mapError(key, err)
	}
	return geolite.Stamp{
		Size:    info.Size,
		ModTime: info.LastModified,
		ETag:    info.ETag,
	}, nil
}

func mapError(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%s: %w", key, geolite.ErrNotFound)
	}
	return err
}

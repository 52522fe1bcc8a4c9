// Package s3 reads geolite data files from Amazon S3.
package s3

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	geolite "github.com/proipinfo/golang-geolite"
)

// Client is the subset of the S3 API used by Source.
type Client interface {
	manager.DownloadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Source implements geolite.Source for a bucket prefix.
type Source struct {
	client     Client
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// New creates a Source. prefix is prepended to every file name (e.g. "geoip/").
// Objects are fetched with ranged, concurrent GETs.
func New(client Client, bucket, prefix string) *Source {
	return &Source{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		prefix:     prefix,
	}
}

// NewFromConfig creates a Source using the default AWS configuration chain.
func NewFromConfig(ctx context.Context, bucket, prefix string, optFns ...func(*config.LoadOptions) error) (*Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open downloads the whole object.
func (s *Source) Open(ctx context.Context, name string) (geolite.Blob, error) {
	key := s.key(name)
	head, err := s.head(ctx, key)
	if err != nil {
		return nil, err
	}
	size := aws.ToInt64(head.ContentLength)
	if size == 0 {
		return geolite.NewBlob([]byte{}), nil
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, mapError(key, err)
	}
	return geolite.NewBlob(buf.Bytes()), nil
}

// Stat returns size, modification time and ETag of the object.
func (s *Source) Stat(ctx context.Context, name string) (geolite.Stamp, error) {
	head, err := s.head(ctx, s.key(name))
	if err != nil {
		return geolite.Stamp{}, err
	}
	return geolite.Stamp{
		Size:    aws.ToInt64(head.ContentLength),
		ModTime: aws.ToTime(head.LastModified),
		ETag:    aws.ToString(head.ETag),
	}, nil
}

func (s *Source) head(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(key, err)
	}
	return head, nil
}

func mapError(key string, err error) error {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%s: %w", key, geolite.ErrNotFound)
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%s: %w", key, geolite.ErrNotFound)
	}
	return err
}

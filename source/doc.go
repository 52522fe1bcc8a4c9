// Package source groups remote implementations of geolite.Source.
//
// The local directory source lives in the root package (geolite.DirSource);
// the subpackages minio and s3 read the same file set from object storage
// so that every instance of a fleet loads identical datasets:
//
//	src := s3.New(s3client.NewFromConfig(cfg), "geo-data", "geoip/")
//	client, err := geolite.Open(ctx, "", geolite.WithSource(src))
package source

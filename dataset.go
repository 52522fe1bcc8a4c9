package geolite

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"

	"lukechampine.com/uint128"
)

// Record sizes in bytes.
const (
	recordSize4        = 10
	recordSize4City    = 24
	recordSize6        = 34
	recordSize6City    = 48
	locationRecordSize = 88

	// noLocation marks a city record without location info
	noLocation = 0xFFFFFFFF
)

// errFallback - signals that the city schema is unavailable
var errFallback = errors.New("city schema unavailable")

type familyFiles struct {
	city        string
	country     string
	citySize    int
	countrySize int
}

var filesByFamily = map[Family]familyFiles{
	IPv4: {city: FileCity, country: FileCountry, citySize: recordSize4City, countrySize: recordSize4},
	IPv6: {city: FileCity6, country: FileCountry6, citySize: recordSize6City, countrySize: recordSize6},
}

// Dataset - one loaded address family. A Dataset is never modified after
// LoadDataset returns; reloads build a new one.
type Dataset struct {
	family     Family
	schema     Schema
	main       []byte
	locations  []byte
	recordSize int
	lastLine   int
	firstKey   uint128.Uint128
	lastKey    uint128.Uint128
	mapped     bool
	blobs      []Blob
}

// unloaded templates, copied by emptyDataset
var (
	template4 = Dataset{family: IPv4, schema: SchemaCity, recordSize: recordSize4City}
	template6 = Dataset{family: IPv6, schema: SchemaCity, recordSize: recordSize6City}
)

// emptyDataset - fresh copy of the unloaded template of a family
func emptyDataset(family Family) *Dataset {
	var ds Dataset
	if family == IPv6 {
		ds = template6
	} else {
		ds = template4
	}
	return &ds
}

// LoadDataset - reads the data files of one family from src. The city schema
// is used when both the names file and the family's city file are present
// and non-empty, otherwise the country file is loaded.
func LoadDataset(ctx context.Context, src Source, family Family) (*Dataset, error) {
	files, ok := filesByFamily[family]
	if !ok {
		return nil, fmt.Errorf("geolite: unsupported family %d", family)
	}

	ds := emptyDataset(family)
	main, locations, err := openDetailed(ctx, src, files.city)
	switch {
	case err == nil:
		ds.schema = SchemaCity
		ds.recordSize = files.citySize
		ds.blobs = append(ds.blobs, main, locations)
	case errors.Is(err, errFallback):
		main, err = fetchFile(ctx, src, files.country)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: %s: %w", ErrMissingData, files.country, err)
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, files.country, err)
		}
		ds.schema = SchemaCountry
		ds.recordSize = files.countrySize
		ds.blobs = append(ds.blobs, main)
	default:
		return nil, err
	}

	ds.main = main.Bytes()
	if locations != nil {
		ds.locations = locations.Bytes()
	}
	for _, b := range ds.blobs {
		if m, ok := b.(interface{ Mapped() bool }); ok && m.Mapped() {
			ds.mapped = true
		}
	}

	if err := ds.index(); err != nil {
		ds.release()
		return nil, err
	}
	if ds.mapped {
		runtime.SetFinalizer(ds, (*Dataset).release)
	}
	return ds, nil
}

// openDetailed - fetches the names file and the city file. Missing or empty
// files yield errFallback; other failures are corrupt data.
func openDetailed(ctx context.Context, src Source, cityFile string) (main, locations Blob, err error) {
	locations, err = openNonEmpty(ctx, src, FileCityNames)
	if err != nil {
		return nil, nil, err
	}
	main, err = openNonEmpty(ctx, src, cityFile)
	if err != nil {
		_ = locations.Close()
		return nil, nil, err
	}
	return main, locations, nil
}

func openNonEmpty(ctx context.Context, src Source, name string) (Blob, error) {
	blob, err := fetchFile(ctx, src, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errFallback
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, name, err)
	}
	if len(blob.Bytes()) == 0 {
		_ = blob.Close()
		return nil, errFallback
	}
	return blob, nil
}

// index - computes the last line and the first/last keys
func (ds *Dataset) index() error {
	count := len(ds.main) / ds.recordSize
	if count < 1 {
		return fmt.Errorf("%w: %s %s file holds no complete record", ErrCorruptData, ds.family, ds.schema)
	}
	ds.lastLine = count - 1
	if ds.family == IPv4 {
		ds.firstKey = uint128.From64(uint64(ds.read4(0, 0)))
		ds.lastKey = uint128.From64(uint64(ds.read4(ds.lastLine, 1)))
		return nil
	}
	ds.firstKey = uint128.New(0, ds.read6(0, 0))
	ds.lastKey = uint128.New(0, ds.read6(ds.lastLine, 1))
	return nil
}

// read4 - floor (slot 0) or ceil (slot 1) of an IPv4 record
func (ds *Dataset) read4(line, slot int) uint32 {
	return binary.BigEndian.Uint32(ds.main[line*ds.recordSize+slot*4:])
}

// read6 - the first two words of the floor (slot 0) or ceil (slot 1)
// 16 byte slot of an IPv6 record; the remaining 8 bytes are not read
func (ds *Dataset) read6(line, slot int) uint64 {
	return binary.BigEndian.Uint64(ds.main[line*ds.recordSize+slot*16:])
}

func (ds *Dataset) release() {
	for _, b := range ds.blobs {
		_ = b.Close()
	}
	ds.blobs = nil
}

// Family - returns the address family
func (ds *Dataset) Family() Family {
	return ds.family
}

// Schema - returns the record layout variant
func (ds *Dataset) Schema() Schema {
	return ds.schema
}

// Loaded - reports whether the dataset holds records
func (ds *Dataset) Loaded() bool {
	return ds != nil && ds.main != nil
}

// Info - returns the dataset metadata
func (ds *Dataset) Info() DatasetInfo {
	info := DatasetInfo{
		Family:        ds.family,
		Schema:        ds.schema,
		RecordSize:    ds.recordSize,
		MainBytes:     len(ds.main),
		LocationBytes: len(ds.locations),
		Mapped:        ds.mapped,
	}
	if ds.Loaded() {
		info.RecordCount = ds.lastLine + 1
		info.FirstKey = Key{Family: ds.family, Value: ds.firstKey}
		info.LastKey = Key{Family: ds.family, Value: ds.lastKey}
	}
	runtime.KeepAlive(ds)
	return info
}

package geolite

import (
	"bytes"
	"encoding/binary"
	"runtime"

	"lukechampine.com/uint128"
)

// Lookup4 - finds the range holding ip. Returns nil when ip is outside the
// dataset, reserved, or not covered by any range.
//
// Ranges must be sorted and non-overlapping; the search relies on the
// bracket shrinking on every step and does not terminate on unsorted data.
func (ds *Dataset) Lookup4(ip uint32) *Result {
	if !ds.Loaded() || ds.family != IPv4 {
		return nil
	}
	defer runtime.KeepAlive(ds)

	if ip > uint32(ds.lastKey.Lo) || ip < uint32(ds.firstKey.Lo) {
		return nil
	}
	if isReserved4(ip) {
		return nil
	}

	fline, cline := 0, ds.lastLine
	for {
		line := fline + (cline-fline+1)/2
		floor := ds.read4(line, 0)
		ceil := ds.read4(line, 1)

		if floor <= ip && ceil >= ip {
			return ds.decode4(line, floor, ceil)
		} else if fline == cline {
			return nil
		} else if fline == cline-1 {
			if line == fline {
				fline = cline
			} else {
				cline = fline
			}
		} else if floor > ip {
			cline = line
		} else if ceil < ip {
			fline = line
		}
	}
}

// Lookup6 - IPv6 counterpart of Lookup4. Only the upper 64 bits of ip and
// of the stored endpoints take part in the comparison.
func (ds *Dataset) Lookup6(ip Key6) *Result {
	if !ds.Loaded() || ds.family != IPv6 {
		return nil
	}
	defer runtime.KeepAlive(ds)

	hi := ip.Hi
	if hi > ds.lastKey.Hi || hi < ds.firstKey.Hi {
		return nil
	}
	if isReserved6(ip) {
		return nil
	}

	fline, cline := 0, ds.lastLine
	for {
		line := fline + (cline-fline+1)/2
		floor := ds.read6(line, 0)
		ceil := ds.read6(line, 1)

		if floor <= hi && ceil >= hi {
			return ds.decode6(line, floor, ceil)
		} else if fline == cline {
			return nil
		} else if fline == cline-1 {
			if line == fline {
				fline = cline
			} else {
				cline = fline
			}
		} else if floor > hi {
			cline = line
		} else if ceil < hi {
			fline = line
		}
	}
}

func (ds *Dataset) decode4(line int, floor, ceil uint32) *Result {
	res := &Result{Range: [2]Key{Key4(floor), Key4(ceil)}}
	rec := ds.main[line*ds.recordSize : (line+1)*ds.recordSize]

	if ds.schema == SchemaCountry {
		res.Country = string(rec[8:10])
		return res
	}

	locID := binary.BigEndian.Uint32(rec[8:])
	if locID == noLocation {
		return res
	}
	if !ds.decodeLocation(res, locID) {
		return res
	}
	res.LL[0] = float64(int32(binary.BigEndian.Uint32(rec[12:]))) / 10000
	res.LL[1] = float64(int32(binary.BigEndian.Uint32(rec[16:]))) / 10000
	res.Area = binary.BigEndian.Uint32(rec[20:])
	return res
}

// decode6 - has no "no location" check, every IPv6 city record is expected
// to carry a valid index
func (ds *Dataset) decode6(line int, floor, ceil uint64) *Result {
	res := &Result{Range: [2]Key{
		KeyOf6(uint128.New(0, floor)),
		KeyOf6(uint128.New(0, ceil)),
	}}
	rec := ds.main[line*ds.recordSize : (line+1)*ds.recordSize]

	if ds.schema == SchemaCountry {
		res.Country = cString(rec[32:34])
		return res
	}

	locID := binary.BigEndian.Uint32(rec[32:])
	if !ds.decodeLocation(res, locID) {
		return res
	}
	res.LL[0] = float64(int32(binary.BigEndian.Uint32(rec[36:]))) / 10000
	res.LL[1] = float64(int32(binary.BigEndian.Uint32(rec[40:]))) / 10000
	res.Area = binary.BigEndian.Uint32(rec[44:])
	return res
}

// decodeLocation - fills the location table fields. It reports false when
// the entry lies outside the table.
func (ds *Dataset) decodeLocation(res *Result, locID uint32) bool {
	start := uint64(locID) * locationRecordSize
	if start+locationRecordSize > uint64(len(ds.locations)) {
		return false
	}
	loc := ds.locations[start : start+locationRecordSize]

	res.Country = cString(loc[0:2])
	res.Region = cString(loc[2:5])
	res.Metro = int32(binary.BigEndian.Uint32(loc[5:9]))
	res.EU = cString(loc[9:10])
	res.Timezone = cString(loc[10:42])
	res.City = cString(loc[42:88])
	return true
}

// cString - text up to the first NUL, or the whole field
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

package geolite

import (
	"encoding/binary"
	"math"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type locEntry struct {
	country  string
	region   string
	metro    int32
	eu       string
	timezone string
	city     string
}

type country4Rec struct {
	floor, ceil string
	country     string
}

type city4Rec struct {
	floor, ceil string
	loc         uint32
	lat, lon    float64
	area        uint32
}

type country6Rec struct {
	floor, ceil string
	country     string
}

type city6Rec struct {
	floor, ceil string
	loc         uint32
	lat, lon    float64
	area        uint32
}

func putText(dst []byte, s string) {
	copy(dst, s)
}

func putCoord(dst []byte, v float64) {
	binary.BigEndian.PutUint32(dst, uint32(int32(math.Round(v*10000))))
}

func putV4(dst []byte, s string) {
	b := netip.MustParseAddr(s).As4()
	copy(dst, b[:])
}

func putV6(dst []byte, s string) {
	b := netip.MustParseAddr(s).As16()
	copy(dst, b[:])
}

func locationsFile(entries ...locEntry) []byte {
	buf := make([]byte, len(entries)*locationRecordSize)
	for i, e := range entries {
		rec := buf[i*locationRecordSize:]
		putText(rec[0:2], e.country)
		putText(rec[2:5], e.region)
		binary.BigEndian.PutUint32(rec[5:9], uint32(e.metro))
		putText(rec[9:10], e.eu)
		putText(rec[10:42], e.timezone)
		putText(rec[42:88], e.city)
	}
	return buf
}

func country4File(recs ...country4Rec) []byte {
	buf := make([]byte, len(recs)*recordSize4)
	for i, r := range recs {
		rec := buf[i*recordSize4:]
		putV4(rec[0:4], r.floor)
		putV4(rec[4:8], r.ceil)
		putText(rec[8:10], r.country)
	}
	return buf
}

func city4File(recs ...city4Rec) []byte {
	buf := make([]byte, len(recs)*recordSize4City)
	for i, r := range recs {
		rec := buf[i*recordSize4City:]
		putV4(rec[0:4], r.floor)
		putV4(rec[4:8], r.ceil)
		binary.BigEndian.PutUint32(rec[8:12], r.loc)
		putCoord(rec[12:16], r.lat)
		putCoord(rec[16:20], r.lon)
		binary.BigEndian.PutUint32(rec[20:24], r.area)
	}
	return buf
}

func country6File(recs ...country6Rec) []byte {
	buf := make([]byte, len(recs)*recordSize6)
	for i, r := range recs {
		rec := buf[i*recordSize6:]
		putV6(rec[0:16], r.floor)
		putV6(rec[16:32], r.ceil)
		putText(rec[32:34], r.country)
	}
	return buf
}

func city6File(recs ...city6Rec) []byte {
	buf := make([]byte, len(recs)*recordSize6City)
	for i, r := range recs {
		rec := buf[i*recordSize6City:]
		putV6(rec[0:16], r.floor)
		putV6(rec[16:32], r.ceil)
		binary.BigEndian.PutUint32(rec[32:36], r.loc)
		putCoord(rec[36:40], r.lat)
		putCoord(rec[40:44], r.lon)
		binary.BigEndian.PutUint32(rec[44:48], r.area)
	}
	return buf
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

var (
	testLocations = []locEntry{
		{country: "AU", region: "NSW", metro: 0, eu: "0", timezone: "Australia/Sydney", city: "Sydney"},
		{country: "US", region: "CA", metro: 807, eu: "0", timezone: "America/Los_Angeles", city: "Mountain View"},
		{country: "FR", region: "IDF", metro: 0, eu: "1", timezone: "Europe/Paris", city: "Paris"},
	}

	testCity4 = []city4Rec{
		{floor: "1.0.0.0", ceil: "1.0.0.255", loc: 0, lat: -33.8688, lon: 151.2093, area: 1000},
		{floor: "8.8.8.0", ceil: "8.8.8.255", loc: 1, lat: 37.386, lon: -122.0838, area: 1000},
		{floor: "10.0.0.0", ceil: "10.255.255.255", loc: 1, lat: 37.386, lon: -122.0838, area: 1},
		{floor: "81.0.0.0", ceil: "81.0.0.255", loc: 2, lat: 48.8566, lon: 2.3522, area: 20},
		{floor: "100.0.0.0", ceil: "100.0.0.255", loc: noLocation},
		{floor: "200.0.0.0", ceil: "200.0.0.255", loc: 99, lat: 1, lon: 1, area: 1},
	}

	testCountry4 = []country4Rec{
		{floor: "1.0.0.0", ceil: "1.0.0.255", country: "AU"},
		{floor: "8.8.8.0", ceil: "8.8.8.255", country: "US"},
	}

	testCity6 = []city6Rec{
		{floor: "2001:200::", ceil: "2001:200:ffff:ffff:ffff:ffff:ffff:ffff", loc: 0, lat: -33.8688, lon: 151.2093, area: 100},
		{floor: "2a00:1450::", ceil: "2a00:1450:ffff:ffff:ffff:ffff:ffff:ffff", loc: 2, lat: 48.8566, lon: 2.3522, area: 50},
		{floor: "fd00::", ceil: "fdff:ffff:ffff:ffff:ffff:ffff:ffff:ffff", loc: 1, lat: 37.386, lon: -122.0838, area: 1},
	}

	testCountry6 = []country6Rec{
		{floor: "2001:200::", ceil: "2001:200:ffff:ffff:ffff:ffff:ffff:ffff", country: "JP"},
		{floor: "2a00:1450::", ceil: "2a00:1450:ffff:ffff:ffff:ffff:ffff:ffff", country: "X\x00"},
	}
)

// writeCountryFixture writes only the country files of both families.
func writeCountryFixture(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, FileCountry, country4File(testCountry4...))
	writeFile(t, dir, FileCountry6, country6File(testCountry6...))
}

// writeCityFixture writes the complete file set of both families.
func writeCityFixture(t *testing.T, dir string) {
	t.Helper()
	writeCountryFixture(t, dir)
	writeFile(t, dir, FileCityNames, locationsFile(testLocations...))
	writeFile(t, dir, FileCity, city4File(testCity4...))
	writeFile(t, dir, FileCity6, city6File(testCity6...))
}

func cityFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeCityFixture(t, dir)
	return dir
}

func mustAton4(t *testing.T, s string) uint32 {
	t.Helper()
	n, err := Aton4(s)
	require.NoError(t, err)
	return n
}

func mustAton6(t *testing.T, s string) Key6 {
	t.Helper()
	k, err := Aton6(s)
	require.NoError(t, err)
	return k
}

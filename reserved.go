package geolite

import (
	"net/netip"

	"github.com/gaissmai/bart"
)

// reservedPrefixes never resolve to geographic data.
var reservedPrefixes = []struct {
	prefix string
	name   string
}{
	{"10.0.0.0/8", "private"},
	{"172.16.0.0/12", "private"},
	{"192.168.0.0/16", "private"},
	{"169.254.0.0/16", "link-local"},
	{"127.0.0.0/8", "loopback"},
	{"fd00::/8", "unique-local"},
	{"fe80::/10", "link-local"},
}

// reserved is built once and only read afterwards.
var reserved = newReservedTable()

func newReservedTable() *bart.Table[string] {
	tbl := new(bart.Table[string])
	for _, r := range reservedPrefixes {
		tbl.Insert(netip.MustParsePrefix(r.prefix), r.name)
	}
	return tbl
}

func isReserved4(ip uint32) bool {
	return reserved.Contains(intToIPV4(ip))
}

func isReserved6(ip Key6) bool {
	return reserved.Contains(intToIPV6(ip))
}

// IsReserved reports whether addr lies in a private, loopback or
// link-local range that is never looked up.
func IsReserved(addr netip.Addr) bool {
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	return addr.IsValid() && reserved.Contains(addr)
}

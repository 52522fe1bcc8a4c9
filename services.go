package geolite

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"

	"lukechampine.com/uint128"
)

// Key6 - ordered 128 bit key of an IPv6 address
type Key6 = uint128.Uint128

// v4 mapped prefixes, compared upper case
var v6MappedPrefixes = []string{"0:0:0:0:0:FFFF:", "::FFFF:"}

// DetectFamily - returns IPv4, IPv6 or FamilyInvalid for the textual address
func DetectFamily(ip string) Family {
	addr, err := netip.ParseAddr(ip)
	if err != nil || addr.Zone() != "" {
		return FamilyInvalid
	}
	if addr.Is4() {
		return IPv4
	}
	return IPv6
}

// Aton4 - dotted quad to uint32
func Aton4(ip string) (uint32, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return 0, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidAddress, ip)
	}
	return ipV4ToInt(addr), nil
}

// Aton6 - IPv6 text to 128 bit key
func Aton6(ip string) (Key6, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return Key6{}, fmt.Errorf("%w: %q is not an IPv6 address", ErrInvalidAddress, ip)
	}
	return ipV6ToInt(addr), nil
}

// Ntoa4 - uint32 to dotted quad
func Ntoa4(n uint32) string {
	return intToIPV4(n).String()
}

// Ntoa6 - 128 bit key to canonical IPv6 text
func Ntoa6(k Key6) string {
	return intToIPV6(k).String()
}

// Cmp6 - total order over 128 bit keys, -1, 0 or 1
func Cmp6(a, b Key6) int {
	return a.Cmp(b)
}

// Get4Mapped - extracts the dotted quad from an IPv4-mapped IPv6 text.
// Only the textual prefixes 0:0:0:0:0:FFFF: and ::FFFF: are recognised.
func Get4Mapped(ip string) (string, bool) {
	upper := strings.ToUpper(ip)
	for _, prefix := range v6MappedPrefixes {
		if !strings.HasPrefix(upper, prefix) {
			continue
		}
		v4 := ip[len(prefix):]
		if DetectFamily(v4) != IPv4 {
			return "", false
		}
		return v4, true
	}
	return "", false
}

// FormatAddress - renders a range endpoint back to text
func FormatAddress(k Key) string {
	switch k.Family {
	case IPv4:
		return Ntoa4(uint32(k.Value.Lo))
	case IPv6:
		return Ntoa6(k.Value)
	}
	return ""
}

// ipV4ToInt - ip v4 to int
func ipV4ToInt(ip netip.Addr) uint32 {
	b := ip.As4()
	return binary.BigEndian.Uint32(b[:])
}

// ipV6ToInt - ip v6 to int
func ipV6ToInt(ip netip.Addr) Key6 {
	b := ip.As16()
	return uint128.FromBytesBE(b[:])
}

func intToIPV4(n uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return netip.AddrFrom4(b)
}

func intToIPV6(k Key6) netip.Addr {
	var b [16]byte
	k.PutBytesBE(b[:])
	return netip.AddrFrom16(b)
}

package geolite

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReserved(t *testing.T) {
	tests := map[string]bool{
		"10.0.5.5":        true,
		"10.255.255.255":  true,
		"172.16.0.1":      true,
		"172.31.255.255":  true,
		"172.32.0.0":      false,
		"192.168.1.1":     true,
		"169.254.10.10":   true,
		"127.0.0.1":       true,
		"8.8.8.8":         false,
		"11.0.0.0":        false,
		"::ffff:10.1.2.3": true,
		"fd00::1":         true,
		"fdff:ffff::1":    true,
		"fc00::1":         false,
		"fe80::1":         true,
		"febf::1":         true,
		"fec0::1":         false,
		"2001:db8::1":     false,
	}
	for ip, want := range tests {
		assert.Equal(t, want, IsReserved(netip.MustParseAddr(ip)), ip)
	}
	assert.False(t, IsReserved(netip.Addr{}))
}

func TestIsReservedKeys(t *testing.T) {
	assert.True(t, isReserved4(0x7F000001))
	assert.False(t, isReserved4(0x08080808))
	assert.True(t, isReserved6(mustAton6(t, "fe80::abcd")))
	assert.False(t, isReserved6(mustAton6(t, "2a00:1450::1")))
}

package geolite

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Pack(t *testing.T) {
	ds := loadFamily(t, cityFixtureDir(t), IPv6)
	res := ds.Lookup6(mustAton6(t, "2a00:1450::1"))
	require.NotNil(t, res)

	data, err := res.Pack()
	require.NoError(t, err)

	got, err := UnpackResult(data)
	require.NoError(t, err)
	assert.Equal(t, res, got)

	_, err = UnpackResult([]byte{0xc1})
	assert.Error(t, err)
}

func TestResult_JSON(t *testing.T) {
	res := &Result{
		Range:   [2]Key{Key4(0x08080800), Key4(0x080808FF)},
		Country: "US",
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"range":["8.8.8.0","8.8.8.255"]`)

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *res, back)
}

func TestKey_UnmarshalText(t *testing.T) {
	var k Key
	require.NoError(t, k.UnmarshalText([]byte("2001:db8::")))
	assert.Equal(t, IPv6, k.Family)
	assert.Equal(t, "2001:db8::", k.String())

	require.NoError(t, k.UnmarshalText(nil))
	assert.Equal(t, Key{}, k)

	assert.ErrorIs(t, k.UnmarshalText([]byte("nope")), ErrInvalidAddress)
}

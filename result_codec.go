package geolite

import (
	"fmt"

	"github.com/vmihailenco/msgpack"
)

// Pack - msgpack encoding of the result
func (r *Result) Pack() ([]byte, error) {
	return msgpack.Marshal(r)
}

// UnpackResult - inverse of Result.Pack
func UnpackResult(data []byte) (*Result, error) {
	res := &Result{}
	if err := msgpack.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("geolite: unpack result: %w", err)
	}
	return res, nil
}

// MarshalText - renders the key as an address
func (k Key) MarshalText() ([]byte, error) {
	if k.Family == FamilyInvalid {
		return []byte{}, nil
	}
	return []byte(FormatAddress(k)), nil
}

// UnmarshalText - parses an address produced by MarshalText
func (k *Key) UnmarshalText(text []byte) error {
	s := string(text)
	switch DetectFamily(s) {
	case IPv4:
		n, err := Aton4(s)
		if err != nil {
			return err
		}
		*k = Key4(n)
	case IPv6:
		v, err := Aton6(s)
		if err != nil {
			return err
		}
		*k = KeyOf6(v)
	default:
		if s != "" {
			return fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		*k = Key{}
	}
	return nil
}

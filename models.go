package geolite

import "lukechampine.com/uint128"

// Family - address family of a query or dataset
type Family uint8

// Address families, numbered like their IP versions
const (
	FamilyInvalid Family = 0
	IPv4          Family = 4
	IPv6          Family = 6
)

func (f Family) String() string {
	switch f {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	}
	return "invalid"
}

// Schema - record layout variant of a dataset
type Schema uint8

// Schema variants, selected by which files are present
const (
	SchemaCountry Schema = iota // range + inline country code
	SchemaCity                  // range + coordinates + location table index
)

func (s Schema) String() string {
	if s == SchemaCity {
		return "city"
	}
	return "country"
}

// State - reload state of one family
type State uint32

// Family states
const (
	StateUnloaded State = iota
	StateLoaded
	StateReloading
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateReloading:
		return "reloading"
	}
	return "unloaded"
}

// Key - range endpoint, IPv4 values live in the low 32 bits.
// Its text form is the address.
type Key struct {
	Family Family          `msgpack:"family"`
	Value  uint128.Uint128 `msgpack:"value"`
}

// Key4 - wraps an IPv4 integer key
func Key4(n uint32) Key {
	return Key{Family: IPv4, Value: uint128.From64(uint64(n))}
}

// KeyOf6 - wraps an IPv6 key
func KeyOf6(k Key6) Key {
	return Key{Family: IPv6, Value: k}
}

func (k Key) String() string {
	return FormatAddress(k)
}

// Result - model for lookup output. Fields not carried by the dataset
// schema keep their zero values.
type Result struct {
	Range    [2]Key     `json:"range" msgpack:"range"`       // floor and ceil of the matched range
	Country  string     `json:"country" msgpack:"country"`   // 2 letter country code
	Region   string     `json:"region" msgpack:"region"`     // region code, up to 3 chars
	EU       string     `json:"eu" msgpack:"eu"`             // "1" inside the EU, "0" otherwise
	Timezone string     `json:"timezone" msgpack:"timezone"` // IANA timezone
	City     string     `json:"city" msgpack:"city"`         // city name
	LL       [2]float64 `json:"ll" msgpack:"ll"`             // latitude, longitude
	Metro    int32      `json:"metro" msgpack:"metro"`       // metro code
	Area     uint32     `json:"area" msgpack:"area"`         // accuracy radius / area code
}

// DatasetInfo - metadata about a loaded dataset
type DatasetInfo struct {
	Family        Family
	Schema        Schema
	RecordSize    int
	RecordCount   int // number of range records
	FirstKey      Key
	LastKey       Key
	MainBytes     int
	LocationBytes int
	Mapped        bool
}

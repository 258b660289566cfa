package country

import (
	"context"
	"encoding/json"
)

// Record is a country record that passed Parse. Required fields are plain
// values; optional ones are nil or zero when the API omitted them.
type Record struct {
	CommonName   string
	OfficialName string
	NativeNames  []NativeName // delivery order
	Capitals     []string
	Region       string
	Subregion    string
	Population   int64
	Area         *float64
	Currencies   []Currency // delivery order
	Languages    []Language // delivery order
	Timezones    []string
	Borders      []string
	Flags        Flags
	LatLng       *LatLng
	DrivingSide  string
}

type NativeName struct {
	Lang     string
	Common   string
	Official string
}

type Currency struct {
	Code   string
	Name   string
	Symbol string
}

type Language struct {
	Code string
	Name string
}

type Flags struct {
	SVG string
	PNG string
}

type LatLng struct {
	Lat float64
	Lng float64
}

// Fetcher looks countries up by name. Implementations return the raw JSON
// records in the order the upstream API delivered them.
type Fetcher interface {
	FetchCountryByName(ctx context.Context, query string) ([]json.RawMessage, error)
}

package country

import (
	"encoding/json"
	"strings"
)

type rcCountry struct {
	Name       *rcName                `json:"name"`
	Capital    []string               `json:"capital"`
	Region     *string                `json:"region"`
	Subregion  *string                `json:"subregion"`
	Population *int64                 `json:"population"`
	Area       *float64               `json:"area"`
	Currencies orderedMap[rcCurrency] `json:"currencies"`
	Languages  orderedMap[string]     `json:"languages"`
	Timezones  []string               `json:"timezones"`
	Borders    []string               `json:"borders"`
	Flags      *rcFlags               `json:"flags"`
	LatLng     []float64              `json:"latlng"`
	Car        *struct {
		Side string `json:"side"`
	} `json:"car"`
}

type rcName struct {
	Common     *string                  `json:"common"`
	Official   string                   `json:"official"`
	NativeName orderedMap[rcNativeName] `json:"nativeName"`
}

type rcNativeName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

type rcCurrency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type rcFlags struct {
	SVG string `json:"svg"`
	PNG string `json:"png"`
}

// Parse converts one raw REST Countries record into a Record. It fails with
// a *FormatError when the payload is not a country object or when a field
// the API always sends (name.common, region, population, timezones, flags)
// is missing.
func Parse(data []byte) (Record, error) {
	var raw rcCountry
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, &FormatError{Field: "record", Reason: err.Error()}
	}

	if raw.Name == nil || raw.Name.Common == nil || strings.TrimSpace(*raw.Name.Common) == "" {
		return Record{}, &FormatError{Field: "name.common", Reason: "missing"}
	}
	if raw.Region == nil {
		return Record{}, &FormatError{Field: "region", Reason: "missing"}
	}
	if raw.Population == nil {
		return Record{}, &FormatError{Field: "population", Reason: "missing"}
	}
	if len(raw.Timezones) == 0 {
		return Record{}, &FormatError{Field: "timezones", Reason: "missing"}
	}
	if raw.Flags == nil {
		return Record{}, &FormatError{Field: "flags", Reason: "missing"}
	}

	rec := Record{
		CommonName:   strings.TrimSpace(*raw.Name.Common),
		OfficialName: strings.TrimSpace(raw.Name.Official),
		Capitals:     raw.Capital,
		Region:       strings.TrimSpace(*raw.Region),
		Population:   *raw.Population,
		Area:         raw.Area,
		Timezones:    raw.Timezones,
		Borders:      raw.Borders,
		Flags: Flags{
			SVG: strings.TrimSpace(raw.Flags.SVG),
			PNG: strings.TrimSpace(raw.Flags.PNG),
		},
	}
	if raw.Subregion != nil {
		rec.Subregion = strings.TrimSpace(*raw.Subregion)
	}
	if raw.Car != nil {
		rec.DrivingSide = strings.TrimSpace(raw.Car.Side)
	}
	// A single coordinate cannot place a map pin.
	if len(raw.LatLng) >= 2 {
		rec.LatLng = &LatLng{Lat: raw.LatLng[0], Lng: raw.LatLng[1]}
	}

	for _, e := range raw.Name.NativeName {
		rec.NativeNames = append(rec.NativeNames, NativeName{
			Lang:     e.Key,
			Common:   e.Value.Common,
			Official: e.Value.Official,
		})
	}
	for _, e := range raw.Currencies {
		rec.Currencies = append(rec.Currencies, Currency{
			Code:   e.Key,
			Name:   e.Value.Name,
			Symbol: e.Value.Symbol,
		})
	}
	for _, e := range raw.Languages {
		rec.Languages = append(rec.Languages, Language{Code: e.Key, Name: e.Value})
	}

	if err := rec.validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// validate checks the fields Format cannot substitute a default for.
func (r Record) validate() error {
	if strings.TrimSpace(r.CommonName) == "" {
		return &FormatError{Field: "name.common", Reason: "missing"}
	}
	if strings.TrimSpace(r.Region) == "" {
		return &FormatError{Field: "region", Reason: "empty"}
	}
	if r.Population < 0 {
		return &FormatError{Field: "population", Reason: "negative"}
	}
	if len(r.Timezones) == 0 {
		return &FormatError{Field: "timezones", Reason: "missing"}
	}
	if r.Flags.SVG == "" && r.Flags.PNG == "" {
		return &FormatError{Field: "flags", Reason: "neither svg nor png present"}
	}
	return nil
}

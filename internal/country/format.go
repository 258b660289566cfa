package country

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const (
	NotAvailable = "N/A"
	NoBorders    = "None"
	NoMapURL     = "#"

	mapsURL  = "https://www.google.com/maps?q="
	areaUnit = " km²"
)

// Projection is the display-ready form of a Record. Every field is a
// non-empty string.
type Projection struct {
	CommonName   string `json:"commonName"`
	OfficialName string `json:"officialName"`
	NativeName   string `json:"nativeName"`
	Capital      string `json:"capital"`
	Region       string `json:"region"`
	Subregion    string `json:"subregion"`
	Population   string `json:"population"`
	Area         string `json:"area"`
	Currencies   string `json:"currencies"`
	Languages    string `json:"languages"`
	Timezones    string `json:"timezones"`
	Borders      string `json:"borders"`
	DrivingSide  string `json:"drivingSide"`
	FlagURL      string `json:"flagUrl"`
	FlagAlt      string `json:"flagAlt"`
	MapURL       string `json:"mapUrl"`
}

// Field is one labelled row of the info grid.
type Field struct {
	Label string
	Value string
}

// Fields returns the info grid rows in display order.
func (p Projection) Fields() []Field {
	return []Field{
		{"Official Name", p.OfficialName},
		{"Native Name", p.NativeName},
		{"Capital", p.Capital},
		{"Region", p.Region},
		{"Subregion", p.Subregion},
		{"Population", p.Population},
		{"Area", p.Area},
		{"Currencies", p.Currencies},
		{"Languages", p.Languages},
		{"Timezones", p.Timezones},
		{"Bordering Countries", p.Borders},
		{"Driving Side", p.DrivingSide},
	}
}

// Format derives the display projection of r. Optional fields fall back to
// NotAvailable, NoBorders or NoMapURL; a record built without its required
// fields yields a *FormatError.
//
// NativeName takes the first native name in the order the API delivered
// them. The API does not promise a stable order, so countries with several
// native names may show a different one between lookups.
func Format(r Record) (Projection, error) {
	if err := r.validate(); err != nil {
		return Projection{}, err
	}

	p := Projection{
		CommonName:   r.CommonName,
		OfficialName: orDefault(r.OfficialName, r.CommonName),
		NativeName:   r.CommonName,
		Capital:      NotAvailable,
		Region:       r.Region,
		Subregion:    orDefault(r.Subregion, NotAvailable),
		Population:   humanize.Comma(r.Population),
		Area:         NotAvailable,
		Currencies:   formatCurrencies(r.Currencies),
		Languages:    formatLanguages(r.Languages),
		Timezones:    joinNonEmpty(r.Timezones, NotAvailable),
		Borders:      joinNonEmpty(r.Borders, NoBorders),
		DrivingSide:  NotAvailable,
		FlagURL:      orDefault(r.Flags.SVG, r.Flags.PNG),
		FlagAlt:      "Flag of " + r.CommonName,
		MapURL:       NoMapURL,
	}

	if len(r.NativeNames) > 0 {
		p.NativeName = orDefault(strings.TrimSpace(r.NativeNames[0].Common), r.CommonName)
	}
	if len(r.Capitals) > 0 {
		p.Capital = orDefault(strings.TrimSpace(r.Capitals[0]), NotAvailable)
	}
	if r.Area != nil {
		p.Area = FormatArea(*r.Area)
	}
	if side := strings.TrimSpace(r.DrivingSide); side != "" {
		p.DrivingSide = capitalize(side)
	}
	if r.LatLng != nil {
		p.MapURL = MapURL(*r.LatLng)
	}

	return p, nil
}

// FormatArea renders square kilometres with ',' thousands separators and at
// most three fraction digits, e.g. 551695 -> "551,695 km²".
func FormatArea(km2 float64) string {
	return humanize.Commaf(math.Round(km2*1000)/1000) + areaUnit
}

// MapURL builds a Google Maps query for the coordinates as delivered.
func MapURL(ll LatLng) string {
	return mapsURL + strconv.FormatFloat(ll.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(ll.Lng, 'f', -1, 64)
}

func formatCurrencies(cs []Currency) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		name := orDefault(strings.TrimSpace(c.Name), c.Code)
		if name == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", name, orDefault(strings.TrimSpace(c.Symbol), NotAvailable)))
	}
	return joinNonEmpty(parts, NotAvailable)
}

func formatLanguages(ls []Language) string {
	names := make([]string, 0, len(ls))
	for _, l := range ls {
		names = append(names, l.Name)
	}
	return joinNonEmpty(names, NotAvailable)
}

func joinNonEmpty(in []string, fallback string) string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return strings.Join(out, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

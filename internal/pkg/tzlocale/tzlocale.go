// Package tzlocale maps ISO 3166-1 alpha-2 country codes to IANA time zones.
package tzlocale

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

//go:embed tz_locales.json
var tzLocalesJSON []byte

type Locale struct {
	IANATimezone string `json:"ianaTimezone"`
}

type Country struct {
	CountryCode string   `json:"countryCode"`
	CountryName string   `json:"countryName"`
	Locales     []Locale `json:"locales"`
}

var (
	loadOnce  sync.Once
	byCode    map[string]Country
	byName    map[string]Country
	countries []Country
)

func load() {
	if err := json.Unmarshal(tzLocalesJSON, &countries); err != nil {
		panic("tzlocale: invalid embedded table: " + err.Error())
	}
	byCode = make(map[string]Country, len(countries))
	byName = make(map[string]Country, len(countries))
	for _, c := range countries {
		byCode[c.CountryCode] = c
		byName[strings.ToLower(c.CountryName)] = c
	}
}

// FindTimeZoneByCountryCode returns the first (principal) zone of a country.
// Full English country names are accepted as a fallback.
func FindTimeZoneByCountryCode(country string) (string, bool) {
	loadOnce.Do(load)

	key := strings.TrimSpace(country)
	c, ok := byCode[strings.ToUpper(key)]
	if !ok {
		c, ok = byName[strings.ToLower(key)]
	}
	if !ok || len(c.Locales) == 0 {
		return "", false
	}
	return c.Locales[0].IANATimezone, true
}

// Countries returns the whole table.
func Countries() []Country {
	loadOnce.Do(load)
	return countries
}

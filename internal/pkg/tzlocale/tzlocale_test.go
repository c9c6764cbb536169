package tzlocale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTimeZoneByCountryCode(t *testing.T) {
	tests := []struct {
		country string
		want    string
		found   bool
	}{
		{"ES", "Europe/Madrid", true},
		{"es", "Europe/Madrid", true},
		{"ID", "Asia/Jakarta", true},
		{"US", "America/New_York", true},
		{"Spain", "Europe/Madrid", true},
		{"", "", false},
		{"XX", "", false},
	}

	for _, tt := range tests {
		got, ok := FindTimeZoneByCountryCode(tt.country)
		assert.Equal(t, tt.found, ok, tt.country)
		assert.Equal(t, tt.want, got, tt.country)
	}
}

func TestCountries_ZonesLoad(t *testing.T) {
	countries := Countries()
	require.NotEmpty(t, countries)

	for _, c := range countries {
		require.NotEmpty(t, c.Locales, c.CountryCode)
		_, err := time.LoadLocation(c.Locales[0].IANATimezone)
		assert.NoError(t, err, c.CountryCode)
	}
}

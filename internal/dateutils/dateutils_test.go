package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input  string
		layout string
		want   time.Time
	}{
		{"2027-05-31", DateLayoutISO, time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC)},
		{"05/31/2027", DateLayoutUS, time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC)},
		{"31-05-2027", DateLayoutDayFirst, time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC)},
		{"  2027-05-31  ", DateLayoutISO, time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, layout, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.layout, layout)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestParseDate_Errors(t *testing.T) {
	for _, in := range []string{"", "31/05/2027", "2027-13-01", "besok"} {
		_, _, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestParseDate_CustomLayouts(t *testing.T) {
	_, layout, err := ParseDate("31.05.2027", "02.01.2006")
	require.NoError(t, err)
	assert.Equal(t, "02.01.2006", layout)
}

func TestNormalizeExpiry(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2027-05-31", "2027-05-31", true},
		{"05/31/2027", "2027-05-31", true},
		{"31-05-2027", "2027-05-31", true},
		{"Mei 2027", "Mei 2027", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeExpiry(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizeValidThru(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12/28", "12/28", true},
		{"12-28", "12/28", true},
		{"07 / 2029", "07/29", true},
		{"13/28", "13/28", false},
		{"soon", "soon", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeValidThru(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "31 May 2027", CleanDateString("  31   May\t2027 "))
}

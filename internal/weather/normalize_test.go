package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCelsiusToFahrenheit(t *testing.T) {
	tests := []struct {
		c    float64
		want int
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{20, 68},
		{21.3, 70},       // 70.34
		{-17.5, 1},       // exactly 0.5 rounds away from zero
		{-18.0555555, 0}, // -0.4999999
		{37, 99},         // 98.6
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CelsiusToFahrenheit(tt.c), "c=%v", tt.c)
	}
}

func TestCelsiusToFahrenheit_WithinOneDegree(t *testing.T) {
	for c := -60.0; c <= 60.0; c += 0.1 {
		exact := c*9/5 + 32
		got := float64(CelsiusToFahrenheit(c))
		assert.LessOrEqual(t, got-exact, 0.5+1e-9)
		assert.GreaterOrEqual(t, got-exact, -0.5-1e-9)
	}
}

func TestCleanEventTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"marker stripped", "Flood Warning issued March 3 at 1:00PM", "Flood Warning"},
		{"full weatherbit title", "Winter Storm Watch issued January 12 at 3:14AM CST until January 13 at 6:00PM CST by NWS Milwaukee/Sullivan WI", "Winter Storm Watch"},
		{"no marker", "Heat Advisory", "Heat Advisory"},
		{"case sensitive", "Flood Warning Issued March 3", "Flood Warning Issued March 3"},
		{"marker at start keeps title", "issued at noon", "issued at noon"},
		{"only one separator trimmed", "Wind Advisory  issued today", "Wind Advisory "},
		{"first occurrence wins", "Gale issued issued", "Gale"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanEventTitle(tt.title))
		})
	}
}

func TestFormatAlertTime(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"afternoon", time.Date(2021, 3, 3, 13, 0, 0, 0, time.UTC), "3/3, 1:00pm"},
		{"midnight is 12am", time.Date(2021, 12, 25, 0, 30, 0, 0, time.UTC), "12/25, 12:30am"},
		{"noon is 12pm", time.Date(2021, 7, 4, 12, 15, 0, 0, time.UTC), "7/4, 12:15pm"},
		{"single digit minutes padded", time.Date(2021, 1, 9, 9, 5, 0, 0, time.UTC), "1/9, 9:05am"},
		{"zero minutes padded", time.Date(2021, 10, 10, 23, 0, 0, 0, time.UTC), "10/10, 11:00pm"},
		{"two digit minutes", time.Date(2021, 10, 1, 11, 59, 0, 0, time.UTC), "10/1, 11:59am"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAlertTime(tt.t))
		})
	}
}

func TestParseProviderTime_KeepsProviderOffset(t *testing.T) {
	ts, err := ParseProviderTime("2021-03-03T13:05:00-06:00")
	require.NoError(t, err)
	assert.Equal(t, 13, ts.Hour())
	assert.Equal(t, "3/3, 1:05pm", FormatAlertTime(ts))
}

func TestParseProviderTime_LocalLayout(t *testing.T) {
	ts, err := ParseProviderTime("2021-03-03T07:00:00")
	require.NoError(t, err)
	assert.Equal(t, "3/3, 7:00am", FormatAlertTime(ts))
}

func TestParseProviderTime_Malformed(t *testing.T) {
	for _, s := range []string{"", "  ", "yesterday", "2021-13-45T99:00:00"} {
		_, err := ParseProviderTime(s)
		assert.ErrorIs(t, err, ErrMalformedUpstreamData, "input %q", s)
	}
}

func TestNormalizeAlert(t *testing.T) {
	raw := RawAlert{
		Title:         "Flood Warning issued March 3 at 1:00PM",
		SeverityLabel: "Warning",
		Vocabulary:    VocabularyWeatherbit,
		Description:   "River flooding expected.",
		Onset:         "2021-03-03T13:00:00",
		Ends:          "2021-03-04T06:07:00",
	}

	alert, err := NormalizeAlert(raw)
	require.NoError(t, err)
	assert.Equal(t, Alert{
		Event:         "Flood Warning",
		SeverityLabel: "Warning",
		Vocabulary:    VocabularyWeatherbit,
		Description:   "River flooding expected.",
		StartTime:     "3/3, 1:00pm",
		EndTime:       "3/4, 6:07am",
	}, alert)
}

func TestNormalizeAlert_MissingTimestamps(t *testing.T) {
	_, err := NormalizeAlert(RawAlert{Title: "Heat Advisory", Onset: "2021-03-03T13:00:00"})
	assert.ErrorIs(t, err, ErrMalformedUpstreamData)

	_, err = NormalizeAlert(RawAlert{Title: "Heat Advisory", Ends: "2021-03-03T13:00:00"})
	assert.ErrorIs(t, err, ErrMalformedUpstreamData)
}

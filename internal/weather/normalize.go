package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// EventBoilerplateMarker starts the trailing "issued <timestamp> ..." text
// some providers append to alert titles.
const EventBoilerplateMarker = "issued"

// localTimeLayout is the zone-less layout weatherbit uses for *_local fields.
const localTimeLayout = "2006-01-02T15:04:05"

var providerTimeLayouts = []string{time.RFC3339, localTimeLayout}

// CelsiusToFahrenheit converts c to Fahrenheit rounded half away from zero.
func CelsiusToFahrenheit(c float64) int {
	return int(math.Round(c*9/5 + 32))
}

// CleanEventTitle strips provider boilerplate from an alert title. The title
// is cut at the first case-sensitive occurrence of EventBoilerplateMarker and
// a single trailing separator is trimmed. Titles without the marker, or that
// would be left empty, are returned unchanged.
func CleanEventTitle(title string) string {
	idx := strings.Index(title, EventBoilerplateMarker)
	if idx <= 0 {
		return title
	}
	event := title[:idx]
	if n := len(event); n > 0 && isTitleSeparator(event[n-1]) {
		event = event[:n-1]
	}
	if event == "" {
		return title
	}
	return event
}

func isTitleSeparator(b byte) bool {
	switch b {
	case ' ', '-', ',', ':', '\t':
		return true
	}
	return false
}

// ParseProviderTime parses an alert timestamp as sent by a provider.
// Offsets are kept so the result stays in provider-local time.
func ParseProviderTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrMalformedUpstreamData)
	}
	for _, layout := range providerTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrMalformedUpstreamData, s)
}

// FormatAlertTime renders t as "M/D, h:mmam" (e.g. "3/3, 1:05pm").
func FormatAlertTime(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "am"
	if t.Hour() >= 12 {
		ampm = "pm"
	}
	return fmt.Sprintf("%d/%d, %d:%02d%s", int(t.Month()), t.Day(), hour, t.Minute(), ampm)
}

// NormalizeAlert reshapes a provider alert into an Alert.
func NormalizeAlert(raw RawAlert) (Alert, error) {
	start, err := ParseProviderTime(raw.Onset)
	if err != nil {
		return Alert{}, fmt.Errorf("alert onset: %w", err)
	}
	end, err := ParseProviderTime(raw.Ends)
	if err != nil {
		return Alert{}, fmt.Errorf("alert end: %w", err)
	}

	return Alert{
		Event:         CleanEventTitle(raw.Title),
		SeverityLabel: raw.SeverityLabel,
		Vocabulary:    raw.Vocabulary,
		Description:   raw.Description,
		StartTime:     FormatAlertTime(start),
		EndTime:       FormatAlertTime(end),
	}, nil
}

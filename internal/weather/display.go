package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// LCD line width is 20; one column is left for the cursor.
const displayLineWidth = 19

// LED effects understood by the Puck firmware.
const (
	BlinkSolid = 0
	BlinkOn    = 1
)

// LEDDirective is the body of a Puck POST /led.
type LEDDirective struct {
	Red     int `json:"red"`
	Green   int `json:"green"`
	Blue    int `json:"blue"`
	Blink   int `json:"blink"`
	OnTime  int `json:"onTime"`
	OffTime int `json:"offTime"`
}

// TextDirective is the body of a Puck POST /lcd, one field per LCD line.
type TextDirective struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
	Text3 string `json:"text3"`
	Text4 string `json:"text4"`
}

// DisplayPayload is everything pushed to the Puck for an alert.
type DisplayPayload struct {
	LED  LEDDirective
	Text TextDirective
}

// RGB is a color for the LED ring.
type RGB struct {
	R, G, B int
}

// DefaultAlertColor is used when the caller's color preference is empty or invalid.
var DefaultAlertColor = RGB{R: 255}

var namedColors = map[string]RGB{
	"red":    {R: 255},
	"orange": {R: 255, G: 165},
	"yellow": {R: 255, G: 255},
	"green":  {G: 255},
	"blue":   {B: 255},
	"purple": {R: 128, B: 128},
	"white":  {R: 255, G: 255, B: 255},
}

// LEDOff turns the ring off.
var LEDOff = LEDDirective{Blink: BlinkSolid}

// ParseColor reads a color preference: a name from namedColors or a hex
// value "#rrggbb", "rrggbb" or "#rgb".
func ParseColor(pref string) (RGB, error) {
	pref = strings.ToLower(strings.TrimSpace(pref))
	if c, ok := namedColors[pref]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(pref, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q", pref)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", pref, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// BuildAlertLED picks the LED pattern for an alert. Ranks in the lowest third
// of the vocabulary are solid, the top rank blinks fast, everything in
// between blinks slowly.
func BuildAlertLED(alert Alert, color RGB) LEDDirective {
	led := LEDDirective{Red: color.R, Green: color.G, Blue: color.B, Blink: BlinkSolid}

	rank := Rank(alert.SeverityLabel, alert.Vocabulary)
	top := MaxRank(alert.Vocabulary)
	switch {
	case rank >= top:
		led.Blink, led.OnTime, led.OffTime = BlinkOn, 250, 250
	case rank*3 > top:
		led.Blink, led.OnTime, led.OffTime = BlinkOn, 1000, 1000
	}
	return led
}

// alertInfoLine points LCD readers to the full alert text.
const alertInfoLine = "Info: weather.gov"

// BuildAlertText lays out an alert on the LCD.
func BuildAlertText(alert Alert) TextDirective {
	return TextDirective{
		Text1: truncate("Alert: "+alert.Event, displayLineWidth),
		Text2: "Starts: " + alert.StartTime,
		Text3: "Ends: " + alert.EndTime,
		Text4: alertInfoLine,
	}
}

// BuildAlertPayload combines the LED and text directives for an alert.
func BuildAlertPayload(alert Alert, colorPreference string) DisplayPayload {
	color, err := ParseColor(colorPreference)
	if err != nil {
		color = DefaultAlertColor
	}
	return DisplayPayload{
		LED:  BuildAlertLED(alert, color),
		Text: BuildAlertText(alert),
	}
}

// BuildWeatherText lays out current conditions on the LCD.
func BuildWeatherText(w Weather) TextDirective {
	return TextDirective{
		Text1: truncate(w.Description, displayLineWidth),
		Text2: fmt.Sprintf("%s, %s", w.City, w.Region),
		Text3: fmt.Sprintf("%dF", w.TemperatureF),
		Text4: fmt.Sprintf("%d%% humidity", w.RelativeHumidity),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

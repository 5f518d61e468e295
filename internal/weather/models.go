package weather

// Weather is the normalized current-conditions view for a postal code.
type Weather struct {
	Description      string `json:"description"`
	City             string `json:"city"`
	Region           string `json:"region"`
	TemperatureF     int    `json:"temperatureF"`
	RelativeHumidity int    `json:"relativeHumidity"`
}

// Alert is a normalized hazard alert, ready to be shown to a user.
type Alert struct {
	Event         string             `json:"event"`
	SeverityLabel string             `json:"severityLabel"`
	Vocabulary    SeverityVocabulary `json:"-"`
	Description   string             `json:"alertDescription"`
	StartTime     string             `json:"startTime"`
	EndTime       string             `json:"endTime"`
}

// RawAlert carries the provider fields an Alert is built from.
// Onset and Ends are the provider's own timestamp strings.
type RawAlert struct {
	Title         string
	SeverityLabel string
	Vocabulary    SeverityVocabulary
	Description   string
	Onset         string
	Ends          string
}

// Coordinates is a point on the map, in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Region identifies the area an alert provider is queried for.
// Zone-based providers use Zone (a UGC such as "WIZ066"); postal-code
// based providers only need PostalCode.
type Region struct {
	PostalCode string
	Zone       string
}

// Request is one report request coming from a client.
type Request struct {
	PostalCode        string
	SeverityThreshold int
	ColorPreference   string
}

// Report is the merged weather + alert result returned to the caller.
// Alert fields are only set when AlertPresent is true.
type Report struct {
	Weather
	AlertPresent bool `json:"alertPresent"`

	Event            string `json:"event,omitempty"`
	SeverityLabel    string `json:"severityLabel,omitempty"`
	AlertDescription string `json:"alertDescription,omitempty"`
	StartTime        string `json:"startTime,omitempty"`
	EndTime          string `json:"endTime,omitempty"`
}

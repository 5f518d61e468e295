package weather

// MergeReport combines the weather and an optional alert into a Report.
// A nil alert yields AlertPresent == false with all alert fields empty.
func MergeReport(w Weather, alert *Alert) Report {
	r := Report{Weather: w}
	if alert == nil {
		return r
	}

	r.AlertPresent = true
	r.Event = alert.Event
	r.SeverityLabel = alert.SeverityLabel
	r.AlertDescription = alert.Description
	r.StartTime = alert.StartTime
	r.EndTime = alert.EndTime
	return r
}

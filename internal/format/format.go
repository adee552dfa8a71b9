// Package format converts raw service status and timestamp values into display strings.
package format

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Severity is the visual classification derived from a status string.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityNeutral Severity = "secondary"
)

// InvalidDate is the text produced for a timestamp that cannot be parsed.
const InvalidDate = "Invalid Date"

// DefaultLayout is used when no layout is configured.
const DefaultLayout = "2006-01-02 15:04:05"

// ClassifyStatus maps "OK" to success, "FAIL" to danger and anything else to neutral.
func ClassifyStatus(status string) Severity {
	switch status {
	case "OK":
		return SeveritySuccess
	case "FAIL":
		return SeverityDanger
	default:
		return SeverityNeutral
	}
}

// Formatter renders ISO-8601 timestamps in the viewer's layout and time zone.
type Formatter struct {
	layout string
	loc    *time.Location
}

// New returns a Formatter. An empty layout or nil location falls back to
// DefaultLayout and time.Local.
func New(layout string, loc *time.Location) *Formatter {
	if layout == "" {
		layout = DefaultLayout
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{layout: layout, loc: loc}
}

// Default formats with DefaultLayout in the local time zone.
var Default = New(DefaultLayout, time.Local)

// FormatTimestamp converts iso to a display string, or InvalidDate if it does not parse.
func (f *Formatter) FormatTimestamp(iso string) string {
	t, err := parse(iso)
	if err != nil {
		return InvalidDate
	}
	return t.In(f.loc).Format(f.layout)
}

// Relative returns a humanized "x ago" string for iso relative to now, or ""
// when iso does not parse.
func (f *Formatter) Relative(iso string, now time.Time) string {
	t, err := parse(iso)
	if err != nil {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatTimestamp formats iso with the Default formatter.
func FormatTimestamp(iso string) string {
	return Default.FormatTimestamp(iso)
}

func parse(iso string) (time.Time, error) {
	// RFC3339 accepts fractional seconds on input.
	return time.Parse(time.RFC3339, iso)
}

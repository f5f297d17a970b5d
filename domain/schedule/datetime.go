package schedule

import (
	"strings"
	"time"
)

// dateTimeLayouts are tried in order; the first one that parses wins.
// Month, day and clock fields accept one or two digits.
var dateTimeLayouts = []string{
	"2006-1-2 15:4:5", // YYYY-MM-DD HH:MM:SS
	"1/2/2006 15:4:5", // MM/DD/YYYY HH:MM:SS
	"1-2-06 15:4:5",   // MM-DD-YY HH:MM:SS
}

// isoLayout is the naive ISO-8601 rendering used before the literal Z suffix
const isoLayout = "2006-01-02T15:04:05"

// NormalizeDateTime combines a date and a time string and parses the result
// against the accepted layouts. The wall-clock value is returned in UTC
// without any timezone conversion.
func NormalizeDateTime(date, clock string) (time.Time, error) {
	input := date + " " + clock

	// time.Parse accepts a fractional second after the seconds field even
	// when the layout has none; no accepted layout carries one.
	if strings.ContainsAny(input, ".,") {
		return time.Time{}, &DateTimeParseError{Input: input}
	}

	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, input)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, &DateTimeParseError{Input: input}
}

// FormatInstant renders t as ISO-8601 with a trailing Z.
// The value is not converted; it is assumed to already be UTC.
func FormatInstant(t time.Time) string {
	return t.Format(isoLayout) + "Z"
}

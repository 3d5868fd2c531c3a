// Package timeconv converts between human-readable datetime strings and
// epoch seconds. Timestamps are stored as epoch seconds everywhere;
// readable forms are derived on the way out, never persisted.
package timeconv

import (
	"fmt"
	"time"
)

// InvalidTimestamp is returned by FormatEpoch for timestamps that
// cannot be rendered. FormatEpoch never fails; callers rely on that.
const InvalidTimestamp = "Invalid timestamp"

// humanFormats are tried in this exact order; the first successful
// parse wins. Date-only inputs default to midnight local time.
var humanFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
}

// ParseHumanTime converts a human-readable datetime string to epoch seconds.
func ParseHumanTime(value string) (int64, error) {
	for _, layout := range humanFormats {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("invalid datetime format: %q", value)
}

// FormatEpoch renders an epoch timestamp as "YYYY-MM-DD HH:MM:SS" in
// local time. Out-of-range values yield the InvalidTimestamp sentinel
// instead of an error.
func FormatEpoch(epoch int64) string {
	if epoch < 0 {
		return InvalidTimestamp
	}
	t := time.Unix(epoch, 0)
	if t.Year() > 9999 {
		return InvalidTimestamp
	}
	return t.Format("2006-01-02 15:04:05")
}

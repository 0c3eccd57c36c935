package domain

import "time"

const (
	// TimestampLayout matches JavaScript's Date.toISOString, which browser
	// clients use for enquiry timestamps.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
	// DateLayout is the default for blog post dates.
	DateLayout = "2006-01-02"
)

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTime reads the timestamp back. Stored values are opaque strings, so
// callers must handle the ok=false case for anything a client wrote.
func (e Enquiry) ParseTime() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

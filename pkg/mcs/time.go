package mcs

import (
	"fmt"
	"strings"
	"time"
)

// dateUTCFormat is the combined layout of the "Date" and "UTC" columns,
// e.g. "24-JUN-2007 16:04:05.123". A fractional second may follow.
const dateUTCFormat = "2-Jan-2006 15:04:05"

// ParseDateUTC combines the "Date" and "UTC" column values of one row into
// a single UTC time.
func ParseDateUTC(date, utc string) (time.Time, error) {
	date = strings.TrimSpace(strings.ReplaceAll(date, `"`, ""))
	utc = strings.TrimSpace(strings.ReplaceAll(utc, `"`, ""))
	if date == "" || utc == "" {
		return time.Time{}, fmt.Errorf("mcs: empty Date or UTC value")
	}
	t, err := time.Parse(dateUTCFormat, normalizeMonth(date)+" "+utc)
	if err != nil {
		return time.Time{}, fmt.Errorf("mcs: parse Date/UTC %q %q: %v", date, utc, err)
	}
	return t, nil
}

// normalizeMonth rewrites the month abbreviation to the Jan/Feb/... casing
// time.Parse expects; the files write it in upper case.
func normalizeMonth(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return date
	}
	m := strings.ToLower(parts[1])
	parts[1] = strings.ToUpper(m[:1]) + m[1:]
	return strings.Join(parts, "-")
}

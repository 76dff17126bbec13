package parse

import (
	"strconv"
	"strings"
	"time"
)

// Accepted ISO layouts. RFC 3339 covers the "Z" suffix and explicit
// offsets; the bare layout is taken as UTC, never as the host zone.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ToUTC converts timestamp text to a UTC instant. Digits-only input is
// whole-second Unix epoch time; anything else must be ISO 8601. Text that
// matches neither form, or names an invalid calendar date, fails with a
// KindParse error carrying the offending text.
func ToUTC(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if isDigits(ts) {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return time.Time{}, parseErrorf("unrecognized timestamp %q", ts)
		}
		return time.Unix(sec, 0).UTC(), nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, parseErrorf("unrecognized timestamp %q", ts)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

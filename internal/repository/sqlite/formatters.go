package sqlite

import (
	"time"
)

// FormatTimeForDB formats t as RFC3339 in UTC.
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimeFromDB parses a stored RFC3339 timestamp.
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// NullableInt64 returns nil for a nil pointer so the driver writes NULL.
func NullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

package domain

import (
	"strings"
	"time"

	"timeclock/internal/errors"
)

const (
	defaultClock    = "00:00:00"
	timestampLayout = "2006-1-2T15:04:05"
)

// NormalizeDate rewrites "." and "/" separators to "-". Nothing else is checked.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer(".", "-", "/", "-").Replace(s)
}

// NormalizeTime turns "9:5" into "09:05:00". Empty input yields midnight.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultClock
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	for len(parts) < 3 {
		parts = append(parts, "00")
	}
	for i, p := range parts {
		if len(p) < 2 {
			parts[i] = strings.Repeat("0", 2-len(p)) + p
		}
	}
	return strings.Join(parts, ":")
}

// ToTimestamp combines a normalized date and time into an instant in loc.
func ToTimestamp(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	ts, err := time.ParseInLocation(timestampLayout, date+"T"+clock, loc)
	if err != nil {
		return time.Time{}, errors.NewMalformedTimestampError(date, clock, err)
	}
	return ts, nil
}

// CoerceID trims an employee id. An id made only of whitespace becomes empty.
func CoerceID(id string) string {
	return strings.TrimSpace(id)
}

// Normalize converts a raw row into a punch event. The punch label must match
// exactly; a padded label stays an unrecognized type. When the timestamp is
// malformed the event is still returned, with a zero Timestamp, alongside
// the error.
func Normalize(raw RawRecord, loc *time.Location) (PunchEvent, error) {
	pt, _ := ParsePunchType(raw.PunchType)
	ev := PunchEvent{
		EmployeeID:   CoerceID(raw.EmployeeID),
		EmployeeName: strings.TrimSpace(raw.EmployeeName),
		Date:         NormalizeDate(raw.Date),
		Time:         NormalizeTime(raw.Time),
		Type:         pt,
		Position:     CanonicalPosition(strings.TrimSpace(raw.Position)),
	}
	ts, err := ToTimestamp(ev.Date, ev.Time, loc)
	if err != nil {
		return ev, err
	}
	ev.Timestamp = ts
	return ev, nil
}

// NormalizeAll normalizes rows in order, numbering them so that ties on
// timestamp keep input order. Rows with malformed timestamps are returned
// separately and never abort the batch.
func NormalizeAll(raws []RawRecord, loc *time.Location) ([]PunchEvent, []SkippedEvent) {
	events := make([]PunchEvent, 0, len(raws))
	var skipped []SkippedEvent
	for i, raw := range raws {
		ev, err := Normalize(raw, loc)
		if err != nil {
			skipped = append(skipped, SkippedEvent{Record: raw, Err: err})
			continue
		}
		ev.Seq = i
		events = append(events, ev)
	}
	return events, skipped
}

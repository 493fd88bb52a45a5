package domain

import (
	"time"
)

// PunchType is the kind of a punch event. The values are the labels the
// punch sheet is written with.
type PunchType string

const (
	PunchNone       PunchType = ""
	PunchClockIn    PunchType = "出勤"
	PunchClockOut   PunchType = "退勤"
	PunchBreakStart PunchType = "休憩開始"
	PunchBreakEnd   PunchType = "休憩終了"
)

// DefaultPosition is the station assumed when a clock-in carries none.
const DefaultPosition = "レジ"

var punchAliases = map[string]PunchType{
	string(PunchClockIn):    PunchClockIn,
	string(PunchClockOut):   PunchClockOut,
	string(PunchBreakStart): PunchBreakStart,
	string(PunchBreakEnd):   PunchBreakEnd,
	"clock_in":              PunchClockIn,
	"clock_out":             PunchClockOut,
	"break_start":           PunchBreakStart,
	"break_end":             PunchBreakEnd,
}

// ParsePunchType matches a label exactly. Unknown labels are returned
// unchanged with ok=false so callers can keep them on the event.
func ParsePunchType(label string) (PunchType, bool) {
	if pt, ok := punchAliases[label]; ok {
		return pt, true
	}
	return PunchType(label), false
}

// IsKnown reports whether the type is one of the four recognized punches.
func (p PunchType) IsKnown() bool {
	switch p {
	case PunchClockIn, PunchClockOut, PunchBreakStart, PunchBreakEnd:
		return true
	}
	return false
}

// Tag returns the ASCII identifier of a recognized punch type.
func (p PunchType) Tag() string {
	switch p {
	case PunchClockIn:
		return "clock_in"
	case PunchClockOut:
		return "clock_out"
	case PunchBreakStart:
		return "break_start"
	case PunchBreakEnd:
		return "break_end"
	}
	return string(p)
}

// AllPunchTypes lists the recognized punch types in display order.
func AllPunchTypes() []PunchType {
	return []PunchType{PunchClockIn, PunchBreakStart, PunchBreakEnd, PunchClockOut}
}

// RawRecord is one punch row as stored in the data source.
type RawRecord struct {
	EmployeeID   string
	EmployeeName string
	Date         string
	Time         string
	PunchType    string
	Position     string
}

// PunchEvent is a normalized punch. Timestamp is zero when the date and
// time could not be parsed.
type PunchEvent struct {
	EmployeeID   string
	EmployeeName string
	Date         string
	Time         string
	Type         PunchType
	Position     string
	Timestamp    time.Time
	Seq          int
}

// HasTimestamp reports whether the event carries a usable instant.
func (e PunchEvent) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}

// SkippedEvent is an input row that was left out of interval building.
type SkippedEvent struct {
	Record RawRecord
	Err    error
}

// Employee is a person who punches the clock. HourlyWage is in whole yen;
// zero means no wage is on file.
type Employee struct {
	ID         string
	Name       string
	HourlyWage int64
}

// HasWage reports whether a positive wage is on file.
func (e Employee) HasWage() bool {
	return e.HourlyWage > 0
}

// Positions in the order the roster lists them.
var Positions = []string{"レジ", "ドリンカー", "フライヤー", "バーガー"}

var positionAliases = map[string]string{
	"reji":    "レジ",
	"drink":   "ドリンカー",
	"drinker": "ドリンカー",
	"fry":     "フライヤー",
	"fryer":   "フライヤー",
	"burger":  "バーガー",
}

// CanonicalPosition maps ASCII station aliases onto their display label.
// Unknown positions are returned as given.
func CanonicalPosition(pos string) string {
	if canonical, ok := positionAliases[pos]; ok {
		return canonical
	}
	return pos
}

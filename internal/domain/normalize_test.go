package domain

import (
	"testing"
	"time"

	"timeclock/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024/01/05", "2024-01-05"},
		{"2024.1.5", "2024-1-5"},
		{"2024-01-05", "2024-01-05"},
		{" 2024/1/5 ", "2024-1-5"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDate(tt.input))
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"hour and minute", "9:5", "09:05:00"},
		{"hour only", "9", "09:00:00"},
		{"full", "17:30:15", "17:30:15"},
		{"empty defaults to midnight", "", "00:00:00"},
		{"extra parts dropped", "1:2:3:4", "01:02:03"},
		{"whitespace", " 8:00 ", "08:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTime(tt.input))
		})
	}
}

func TestToTimestamp(t *testing.T) {
	ts, err := ToTimestamp("2024-1-5", "09:05:00", jst)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 9, 5, 0, 0, jst), ts)

	_, err = ToTimestamp("2024-13-45", "99:99:00", jst)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeMalformedTimestamp))
}

func TestNormalize(t *testing.T) {
	ev, err := Normalize(RawRecord{
		EmployeeID:   " E001 ",
		EmployeeName: "山田 太郎",
		Date:         "2024/01/05",
		Time:         "9:00",
		PunchType:    "出勤",
		Position:     "drink",
	}, jst)
	require.NoError(t, err)

	assert.Equal(t, "E001", ev.EmployeeID)
	assert.Equal(t, "2024-01-05", ev.Date)
	assert.Equal(t, "09:00:00", ev.Time)
	assert.Equal(t, PunchClockIn, ev.Type)
	assert.Equal(t, "ドリンカー", ev.Position)
	assert.Equal(t, time.Date(2024, 1, 5, 9, 0, 0, 0, jst), ev.Timestamp)
}

func TestNormalize_MissingTimeDefaultsToMidnight(t *testing.T) {
	ev, err := Normalize(RawRecord{EmployeeID: "E001", Date: "2024-01-05", PunchType: "clock_in"}, jst)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, jst), ev.Timestamp)
	assert.Equal(t, PunchClockIn, ev.Type)
}

func TestNormalize_UnknownTypeKept(t *testing.T) {
	ev, err := Normalize(RawRecord{EmployeeID: "E001", Date: "2024-01-05", Time: "10:00", PunchType: "遅刻"}, jst)
	require.NoError(t, err)
	assert.Equal(t, PunchType("遅刻"), ev.Type)
	assert.False(t, ev.Type.IsKnown())
}

func TestNormalize_PaddedLabelIsUnknown(t *testing.T) {
	ev, err := Normalize(RawRecord{EmployeeID: "E001", Date: "2024-01-05", Time: "10:00", PunchType: " 出勤 "}, jst)
	require.NoError(t, err)
	assert.Equal(t, PunchType(" 出勤 "), ev.Type)
	assert.False(t, ev.Type.IsKnown())
}

func TestNormalizeAll_ReportsMalformed(t *testing.T) {
	raws := []RawRecord{
		{EmployeeID: "E001", Date: "2024-01-05", Time: "09:00", PunchType: "出勤"},
		{EmployeeID: "E001", Date: "2024-13-45", Time: "99:99", PunchType: "休憩開始"},
		{EmployeeID: "E001", Date: "2024-01-05", Time: "17:00", PunchType: "退勤"},
	}

	events, skipped := NormalizeAll(raws, jst)

	require.Len(t, events, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, raws[1], skipped[0].Record)
	assert.True(t, errors.IsErrorType(skipped[0].Err, errors.ErrorTypeMalformedTimestamp))
	assert.Equal(t, 0, events[0].Seq)
	assert.Equal(t, 2, events[1].Seq)
}

func TestParsePunchType(t *testing.T) {
	tests := []struct {
		label    string
		expected PunchType
		ok       bool
	}{
		{"出勤", PunchClockIn, true},
		{"退勤", PunchClockOut, true},
		{"休憩開始", PunchBreakStart, true},
		{"休憩終了", PunchBreakEnd, true},
		{"break_end", PunchBreakEnd, true},
		{"Clock_In", PunchType("Clock_In"), false},
		{"", PunchNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			pt, ok := ParsePunchType(tt.label)
			assert.Equal(t, tt.expected, pt)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestCoerceID(t *testing.T) {
	assert.Equal(t, "E001", CoerceID("  E001\t"))
	assert.Equal(t, "", CoerceID("   "))
}

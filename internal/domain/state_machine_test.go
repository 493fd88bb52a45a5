package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextActions(t *testing.T) {
	tests := []struct {
		name     string
		last     PunchType
		expected []PunchType
	}{
		{"no events", PunchNone, []PunchType{PunchClockIn}},
		{"after clock-in", PunchClockIn, []PunchType{PunchClockOut, PunchBreakStart}},
		{"after break start", PunchBreakStart, []PunchType{PunchBreakEnd}},
		{"after break end", PunchBreakEnd, []PunchType{PunchClockOut, PunchBreakStart}},
		{"after clock-out", PunchClockOut, []PunchType{PunchClockIn}},
		{"unrecognized", PunchType("遅刻"), []PunchType{PunchClockIn}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := NextActions(tt.last)
			second := NextActions(tt.last)
			assert.Equal(t, tt.expected, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestNextActions_ReturnsFreshSlice(t *testing.T) {
	a := NextActions(PunchClockIn)
	a[0] = PunchBreakEnd
	assert.Equal(t, []PunchType{PunchClockOut, PunchBreakStart}, NextActions(PunchClockIn))
}

func TestIsAllowed(t *testing.T) {
	assert.True(t, IsAllowed(PunchNone, PunchClockIn))
	assert.False(t, IsAllowed(PunchClockIn, PunchClockIn), "double clock-in")
	assert.False(t, IsAllowed(PunchClockIn, PunchBreakEnd))
	assert.True(t, IsAllowed(PunchBreakStart, PunchBreakEnd))
	assert.False(t, IsAllowed(PunchBreakStart, PunchClockOut))
}

func TestStateFor(t *testing.T) {
	assert.Equal(t, StateIdle, StateFor(PunchNone))
	assert.Equal(t, StateWorking, StateFor(PunchClockIn))
	assert.Equal(t, StateWorking, StateFor(PunchBreakEnd))
	assert.Equal(t, StateOnBreak, StateFor(PunchBreakStart))
	assert.Equal(t, StateIdle, StateFor(PunchClockOut))
	assert.Equal(t, "on_break", StateOnBreak.String())
}

func TestLastEvent(t *testing.T) {
	events := withSeq([]PunchEvent{
		punch("E001", "12:00", PunchBreakStart),
		punch("E001", "09:00", PunchClockIn),
		{EmployeeID: "E001", Type: PunchClockOut},
	})

	last, ok := LastEvent(events)

	assert.True(t, ok)
	assert.Equal(t, PunchBreakStart, last.Type)
	assert.Equal(t, []PunchType{PunchBreakEnd}, NextActions(LastPunchType(events)))

	_, ok = LastEvent(nil)
	assert.False(t, ok)
}

func TestFoldState(t *testing.T) {
	events := withSeq([]PunchEvent{
		punch("E001", "09:00", PunchClockIn),
		punch("E001", "09:30", PunchClockIn),
		punch("E001", "12:00", PunchBreakStart),
	})
	assert.Equal(t, StateOnBreak, FoldState(events))
	assert.Equal(t, StateIdle, FoldState(nil))
}

package domain

// PunchState is the coarse status shown for an employee.
type PunchState int

const (
	StateIdle PunchState = iota
	StateWorking
	StateOnBreak
)

// String returns the state label
func (s PunchState) String() string {
	switch s {
	case StateWorking:
		return "working"
	case StateOnBreak:
		return "on_break"
	default:
		return "idle"
	}
}

// NextActions returns the punches allowed after last. No previous punch, or
// an unrecognized one, allows only a clock-in.
func NextActions(last PunchType) []PunchType {
	switch last {
	case PunchClockIn:
		return []PunchType{PunchClockOut, PunchBreakStart}
	case PunchBreakStart:
		return []PunchType{PunchBreakEnd}
	case PunchBreakEnd:
		return []PunchType{PunchClockOut, PunchBreakStart}
	default:
		return []PunchType{PunchClockIn}
	}
}

// IsAllowed reports whether next may follow last.
func IsAllowed(last, next PunchType) bool {
	for _, a := range NextActions(last) {
		if a == next {
			return true
		}
	}
	return false
}

// StateFor maps the last punch onto a coarse state.
func StateFor(last PunchType) PunchState {
	switch last {
	case PunchClockIn, PunchBreakEnd:
		return StateWorking
	case PunchBreakStart:
		return StateOnBreak
	default:
		return StateIdle
	}
}

// LastEvent returns the event with the greatest timestamp. Events without
// a timestamp are ignored; on a tie the later input wins.
func LastEvent(events []PunchEvent) (PunchEvent, bool) {
	var last PunchEvent
	found := false
	for _, ev := range events {
		if !ev.HasTimestamp() {
			continue
		}
		if !found || !ev.Timestamp.Before(last.Timestamp) {
			last = ev
			found = true
		}
	}
	return last, found
}

// LastPunchType is the type of LastEvent, or PunchNone for no events.
func LastPunchType(events []PunchEvent) PunchType {
	if ev, ok := LastEvent(events); ok {
		return ev.Type
	}
	return PunchNone
}

// FoldState replays events in order and returns the resulting state. An
// illegal transition leaves the state unchanged.
func FoldState(events []PunchEvent) PunchState {
	last := PunchNone
	for _, ev := range SortEvents(events) {
		if IsAllowed(last, ev.Type) {
			last = ev.Type
		}
	}
	return StateFor(last)
}

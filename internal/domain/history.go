package domain

import (
	"fmt"
	"sort"
	"time"
)

// HistoryRow is a punch shown in an employee's history. Duration is set on
// the break-start or clock-out row that ended a work segment.
type HistoryRow struct {
	Event    PunchEvent
	Duration time.Duration
	HasSpan  bool
}

// AnnotateHistory pairs each event with the work segment it closed and
// returns the rows newest first.
func AnnotateHistory(events []PunchEvent, schedule *EmployeeDaySchedule) []HistoryRow {
	closed := make(map[int64]WorkSegment)
	if schedule != nil {
		for _, seg := range schedule.WorkSegments {
			if !seg.ClosedAt.IsZero() {
				closed[seg.ClosedAt.UnixNano()] = seg
			}
		}
	}

	sorted := SortEvents(events)
	rows := make([]HistoryRow, 0, len(sorted))
	for _, ev := range sorted {
		row := HistoryRow{Event: ev}
		if ev.Type == PunchBreakStart || ev.Type == PunchClockOut {
			key := ev.Timestamp.UnixNano()
			if seg, ok := closed[key]; ok {
				row.Duration = time.Duration(seg.Minutes()) * time.Minute
				row.HasSpan = true
				delete(closed, key)
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Event.Timestamp.After(rows[j].Event.Timestamp)
	})
	return rows
}

// FormatMinutes renders minutes as "Xh Ym", or "Ym" under an hour.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatClock renders minutes as "HH:MM".
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

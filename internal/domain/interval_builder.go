package domain

import (
	"sort"
	"time"
)

// OpenSessionMode decides what happens to a work period that has not been
// closed by the end of the event list.
type OpenSessionMode int

const (
	// ConfirmedOnly drops open periods.
	ConfirmedOnly OpenSessionMode = iota
	// LiveUntilNow closes open periods at BuildOptions.Now.
	LiveUntilNow
)

// WorkSegment is a closed stretch of work at one position, in minutes past
// the business-day open mark.
type WorkSegment struct {
	StartMinute int
	EndMinute   int
	Position    string
	Start       time.Time
	End         time.Time
	// ClosedAt is the timestamp of the punch that ended the segment. It is
	// zero for a segment synthesized up to now.
	ClosedAt time.Time
	Open     bool
}

// Minutes is the segment length floored to whole minutes.
func (s WorkSegment) Minutes() int {
	return floorMinutes(s.End.Sub(s.Start))
}

// BreakSegment is a closed break.
type BreakSegment struct {
	StartMinute int
	EndMinute   int
	Start       time.Time
	End         time.Time
	ClosedAt    time.Time
	Open        bool
}

// Minutes is the break length floored to whole minutes.
func (s BreakSegment) Minutes() int {
	return floorMinutes(s.End.Sub(s.Start))
}

func floorMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// EmployeeDaySchedule is one employee's reconstructed intervals.
type EmployeeDaySchedule struct {
	EmployeeID    string
	DisplayName   string
	WorkSegments  []WorkSegment
	BreakSegments []BreakSegment
	// LastClockOut is the latest clock-out that closed a work segment
	// inside business hours; nil when none did.
	LastClockOut  *time.Time
}

// BuildOptions configures interval reconstruction.
type BuildOptions struct {
	Window          BusinessWindow
	Mode            OpenSessionMode
	Now             time.Time
	DefaultPosition string
}

// DefaultBuildOptions returns confirmed-only options for the default window.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Window:          DefaultBusinessWindow(),
		Mode:            ConfirmedOnly,
		DefaultPosition: DefaultPosition,
	}
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.Window == (BusinessWindow{}) {
		o.Window = DefaultBusinessWindow()
	}
	if o.DefaultPosition == "" {
		o.DefaultPosition = DefaultPosition
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// SortEvents returns the events with a usable timestamp in chronological
// order. Equal timestamps keep input order.
func SortEvents(events []PunchEvent) []PunchEvent {
	sorted := make([]PunchEvent, 0, len(events))
	for _, ev := range events {
		if ev.HasTimestamp() {
			sorted = append(sorted, ev)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].Seq < sorted[j].Seq
	})
	return sorted
}

// intervalFold holds the cursors while walking one employee's punches.
type intervalFold struct {
	opts       BuildOptions
	sched      *EmployeeDaySchedule
	workStart  *time.Time
	breakStart *time.Time
	position   string
}

func (f *intervalFold) closeWork(end, closedAt time.Time, open bool) bool {
	start := *f.workStart
	f.workStart = nil
	s, e, ok := f.opts.Window.Clip(start, end)
	if !ok {
		return false
	}
	f.sched.WorkSegments = append(f.sched.WorkSegments, WorkSegment{
		StartMinute: f.opts.Window.MinutesFromOpen(start, s),
		EndMinute:   f.opts.Window.MinutesFromOpen(start, e),
		Position:    f.position,
		Start:       s,
		End:         e,
		ClosedAt:    closedAt,
		Open:        open,
	})
	return true
}

func (f *intervalFold) closeBreak(end, closedAt time.Time, open bool) {
	start := *f.breakStart
	f.breakStart = nil
	s, e, ok := f.opts.Window.Clip(start, end)
	if !ok {
		return
	}
	f.sched.BreakSegments = append(f.sched.BreakSegments, BreakSegment{
		StartMinute: f.opts.Window.MinutesFromOpen(start, s),
		EndMinute:   f.opts.Window.MinutesFromOpen(start, e),
		Start:       s,
		End:         e,
		ClosedAt:    closedAt,
		Open:        open,
	})
}

func (f *intervalFold) apply(ev PunchEvent) {
	t := ev.Timestamp
	switch ev.Type {
	case PunchClockIn:
		// an unterminated earlier period is discarded
		f.workStart = &t
		f.breakStart = nil
		f.position = ev.Position
		if f.position == "" {
			f.position = f.opts.DefaultPosition
		}
	case PunchBreakStart:
		if f.workStart == nil {
			return
		}
		f.closeWork(t, t, false)
		f.breakStart = &t
	case PunchBreakEnd:
		if f.breakStart == nil {
			return
		}
		f.closeBreak(t, t, false)
		f.workStart = &t
	case PunchClockOut:
		if f.workStart != nil {
			if f.closeWork(t, t, false) {
				last := t
				f.sched.LastClockOut = &last
			}
		} else if f.breakStart != nil {
			// clocking out mid-break closes the break at the clock-out
			f.closeBreak(t, t, false)
		}
		f.workStart = nil
		f.breakStart = nil
	}
}

func (f *intervalFold) finish() {
	if f.opts.Mode != LiveUntilNow {
		return
	}
	now := f.opts.Now
	if f.workStart != nil && f.workStart.Before(now) {
		f.closeWork(now, time.Time{}, true)
	}
	if f.breakStart != nil && f.breakStart.Before(now) {
		f.closeBreak(now, time.Time{}, true)
	}
}

// BuildIntervals reconstructs work and break segments from one employee's
// punches. Events without a timestamp are ignored.
func BuildIntervals(events []PunchEvent, opts BuildOptions) *EmployeeDaySchedule {
	opts = opts.withDefaults()
	sched := &EmployeeDaySchedule{
		WorkSegments:  []WorkSegment{},
		BreakSegments: []BreakSegment{},
	}
	for _, ev := range events {
		if sched.EmployeeID == "" {
			sched.EmployeeID = ev.EmployeeID
		}
		if sched.DisplayName == "" {
			sched.DisplayName = ev.EmployeeName
		}
	}
	if sched.DisplayName == "" {
		sched.DisplayName = sched.EmployeeID
	}

	fold := &intervalFold{opts: opts, sched: sched}
	for _, ev := range SortEvents(events) {
		fold.apply(ev)
	}
	fold.finish()
	return sched
}

// BuildResult is the roster for a set of employees.
type BuildResult struct {
	Schedules map[string]*EmployeeDaySchedule
	Order     []string
	Skipped   []SkippedEvent
}

// Ordered returns the schedules in roster order.
func (r BuildResult) Ordered() []*EmployeeDaySchedule {
	out := make([]*EmployeeDaySchedule, 0, len(r.Order))
	for _, id := range r.Order {
		out = append(out, r.Schedules[id])
	}
	return out
}

// GroupByEmployee partitions events by employee id. The returned ids are in
// order of first appearance.
func GroupByEmployee(events []PunchEvent) (map[string][]PunchEvent, []string) {
	groups := make(map[string][]PunchEvent)
	var ids []string
	for _, ev := range events {
		if ev.EmployeeID == "" {
			continue
		}
		if _, seen := groups[ev.EmployeeID]; !seen {
			ids = append(ids, ev.EmployeeID)
		}
		groups[ev.EmployeeID] = append(groups[ev.EmployeeID], ev)
	}
	return groups, ids
}

// BuildRoster builds a schedule per employee and orders them by most recent
// clock-out, latest first. Employees who never clocked out go last, in order
// of first appearance.
func BuildRoster(events []PunchEvent, opts BuildOptions) BuildResult {
	groups, ids := GroupByEmployee(events)
	result := BuildResult{Schedules: make(map[string]*EmployeeDaySchedule, len(ids))}
	for _, id := range ids {
		result.Schedules[id] = BuildIntervals(groups[id], opts)
	}

	order := append([]string(nil), ids...)
	sort.SliceStable(order, func(i, j int) bool {
		a := result.Schedules[order[i]].LastClockOut
		b := result.Schedules[order[j]].LastClockOut
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	result.Order = order
	return result
}

// Build normalizes raw rows and builds the roster. Rows with malformed
// timestamps are reported in Skipped.
func Build(raws []RawRecord, loc *time.Location, opts BuildOptions) BuildResult {
	events, skipped := NormalizeAll(raws, loc)
	result := BuildRoster(events, opts)
	result.Skipped = skipped
	return result
}

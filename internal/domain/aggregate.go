package domain

import (
	"math"
	"sort"
	"time"
)

// AggregationMode selects which sessions count toward a total.
type AggregationMode int

const (
	// Confirmed counts only closed sessions on days that have a clock-out.
	Confirmed AggregationMode = iota
	// Live also counts today's open session up to now.
	Live
)

// String returns the mode name
func (m AggregationMode) String() string {
	if m == Live {
		return "live"
	}
	return "confirmed"
}

// SumClosedMinutes floors each segment to whole minutes, then sums.
func SumClosedMinutes(segments []WorkSegment) int {
	total := 0
	for _, s := range segments {
		total += s.Minutes()
	}
	return total
}

// SumBreakMinutes floors each break to whole minutes, then sums.
func SumBreakMinutes(segments []BreakSegment) int {
	total := 0
	for _, s := range segments {
		total += s.Minutes()
	}
	return total
}

// ComputePay returns floor(minutes * wage / 60). A missing wage pays nothing.
func ComputePay(minutes int, wage int64) int64 {
	if wage <= 0 || minutes <= 0 {
		return 0
	}
	return int64(minutes) * wage / 60
}

// DayKey formats t as YYYY-MM-DD in its own location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// GroupByDay buckets events by the calendar day of their timestamp. Keys are
// returned in ascending order.
func GroupByDay(events []PunchEvent) (map[string][]PunchEvent, []string) {
	days := make(map[string][]PunchEvent)
	for _, ev := range events {
		if !ev.HasTimestamp() {
			continue
		}
		key := DayKey(ev.Timestamp)
		days[key] = append(days[key], ev)
	}
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return days, keys
}

// HasClockOut reports whether any event is a clock-out.
func HasClockOut(events []PunchEvent) bool {
	for _, ev := range events {
		if ev.Type == PunchClockOut {
			return true
		}
	}
	return false
}

// DayTotal is one day's worked time for one employee.
type DayTotal struct {
	Date         string `json:"date"`
	Minutes      int    `json:"minutes"`
	BreakMinutes int    `json:"break_minutes"`
	Pay          int64  `json:"pay"`
	ClockedOut   bool   `json:"clocked_out"`
	Open         bool   `json:"open"`
}

// AggregateDays totals one employee's events per day. In Confirmed mode a
// day without a clock-out is left out entirely. In Live mode only the day
// containing opts.Now has its open session extended to now.
func AggregateDays(events []PunchEvent, wage int64, mode AggregationMode, opts BuildOptions) []DayTotal {
	opts = opts.withDefaults()
	today := DayKey(opts.Now)
	byDay, keys := GroupByDay(events)

	totals := make([]DayTotal, 0, len(keys))
	for _, key := range keys {
		dayEvents := byDay[key]
		clockedOut := HasClockOut(dayEvents)
		if mode == Confirmed && !clockedOut {
			continue
		}
		dayOpts := opts
		dayOpts.Mode = ConfirmedOnly
		if mode == Live && key == today {
			dayOpts.Mode = LiveUntilNow
		}
		sched := BuildIntervals(dayEvents, dayOpts)
		minutes := SumClosedMinutes(sched.WorkSegments)
		open := false
		for _, s := range sched.WorkSegments {
			if s.Open {
				open = true
			}
		}
		totals = append(totals, DayTotal{
			Date:         key,
			Minutes:      minutes,
			BreakMinutes: SumBreakMinutes(sched.BreakSegments),
			Pay:          ComputePay(minutes, wage),
			ClockedOut:   clockedOut,
			Open:         open,
		})
	}
	return totals
}

// Period is a reporting window anchored on a reference time.
type Period int

const (
	PeriodToday Period = iota
	PeriodMonth
	PeriodYear
)

// String returns the period name
func (p Period) String() string {
	switch p {
	case PeriodMonth:
		return "month"
	case PeriodYear:
		return "year"
	default:
		return "today"
	}
}

// ParsePeriod accepts "today", "month" or "year".
func ParsePeriod(s string) (Period, bool) {
	switch s {
	case "today", "day", "":
		return PeriodToday, true
	case "month":
		return PeriodMonth, true
	case "year":
		return PeriodYear, true
	}
	return PeriodToday, false
}

// Range returns the half-open [from, to) window of the period containing now.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch p {
	case PeriodMonth:
		from := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	case PeriodYear:
		from := time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0)
	default:
		from := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 0, 1)
	}
}

// PeriodTotal sums day totals over a period. Pay is computed once from the
// summed minutes.
type PeriodTotal struct {
	Period       string     `json:"period"`
	Mode         string     `json:"mode"`
	From         time.Time  `json:"from"`
	To           time.Time  `json:"to"`
	Minutes      int        `json:"minutes"`
	BreakMinutes int        `json:"break_minutes"`
	Pay          int64      `json:"pay"`
	// Open is set when a live session is counted up to now.
	Open         bool       `json:"open"`
	Days         []DayTotal `json:"days"`
}

// FilterRange keeps events whose timestamp falls in [from, to).
func FilterRange(events []PunchEvent, from, to time.Time) []PunchEvent {
	var out []PunchEvent
	for _, ev := range events {
		if !ev.HasTimestamp() {
			continue
		}
		if ev.Timestamp.Before(from) || !ev.Timestamp.Before(to) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Totals aggregates one employee's events over the period containing opts.Now.
func Totals(events []PunchEvent, wage int64, period Period, mode AggregationMode, opts BuildOptions) PeriodTotal {
	opts = opts.withDefaults()
	from, to := period.Range(opts.Now)
	days := AggregateDays(FilterRange(events, from, to), wage, mode, opts)

	total := PeriodTotal{
		Period: period.String(),
		Mode:   mode.String(),
		From:   from,
		To:     to,
		Days:   days,
	}
	for _, d := range days {
		total.Minutes += d.Minutes
		total.BreakMinutes += d.BreakMinutes
		total.Open = total.Open || d.Open
	}
	total.Pay = ComputePay(total.Minutes, wage)
	return total
}

// DefaultAnnualIncomeLimit is the yearly earnings ceiling tracked by default.
const DefaultAnnualIncomeLimit int64 = 1500000

// IncomeProgress tracks earnings against an annual limit.
type IncomeProgress struct {
	Earned    int64 `json:"earned"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Percent   int   `json:"percent"`
}

// NewIncomeProgress computes the remaining headroom and a rounded percentage
// capped at 100.
func NewIncomeProgress(earned, limit int64) IncomeProgress {
	if limit <= 0 {
		limit = DefaultAnnualIncomeLimit
	}
	p := IncomeProgress{Earned: earned, Limit: limit}
	if earned < limit {
		p.Remaining = limit - earned
	}
	pct := int(math.Round(float64(earned) / float64(limit) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	p.Percent = pct
	return p
}

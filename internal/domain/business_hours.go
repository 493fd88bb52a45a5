package domain

import (
	"fmt"
	"time"
)

// BusinessWindow is the part of a day a roster covers, as offsets from
// local midnight.
type BusinessWindow struct {
	Open  time.Duration
	Close time.Duration
}

// DefaultBusinessWindow is 09:00 to 22:00.
func DefaultBusinessWindow() BusinessWindow {
	return BusinessWindow{Open: 9 * time.Hour, Close: 22 * time.Hour}
}

// ParseBusinessWindow reads "HH:MM" open and close marks.
func ParseBusinessWindow(open, close string) (BusinessWindow, error) {
	o, err := parseClockOffset(open)
	if err != nil {
		return BusinessWindow{}, err
	}
	c, err := parseClockOffset(close)
	if err != nil {
		return BusinessWindow{}, err
	}
	w := BusinessWindow{Open: o, Close: c}
	if !w.IsValid() {
		return BusinessWindow{}, fmt.Errorf("business window %s-%s is empty", open, close)
	}
	return w, nil
}

func parseClockOffset(s string) (time.Duration, error) {
	if s == "24:00" {
		return 24 * time.Hour, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// IsValid reports whether the window is non-empty and within one day.
func (w BusinessWindow) IsValid() bool {
	return w.Open >= 0 && w.Close <= 24*time.Hour && w.Open < w.Close
}

// Length returns the window length in whole minutes.
func (w BusinessWindow) Length() int {
	return int((w.Close - w.Open) / time.Minute)
}

// Bounds returns the open and close instants for the calendar day of t.
func (w BusinessWindow) Bounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.Add(w.Open), midnight.Add(w.Close)
}

// Clip truncates [start, end) to the window of start's day. ok is false
// when nothing of the interval remains.
func (w BusinessWindow) Clip(start, end time.Time) (time.Time, time.Time, bool) {
	open, close := w.Bounds(start)
	if start.Before(open) {
		start = open
	}
	if end.After(close) {
		end = close
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// MinutesFromOpen expresses t as whole minutes past the open mark of day's
// window. Seconds are dropped.
func (w BusinessWindow) MinutesFromOpen(day, t time.Time) int {
	open, _ := w.Bounds(day)
	d := t.Sub(open)
	if d < 0 {
		return -int((-d + time.Minute - 1) / time.Minute)
	}
	return int(d / time.Minute)
}

package timeline

import (
	"time"
)

// Window is the visible date range of the Gantt chart: Days whole days
// starting at Start. Endpoints are treated as inclusive whole days, so the
// last visible day is Start+(Days-1).
type Window struct {
	Start time.Time
	Days  int
}

// NewWindow builds a window anchored at the given day, normalized to midnight.
func NewWindow(start time.Time, days int) Window {
	return Window{Start: midnight(start), Days: days}
}

// End returns the last visible day of the window.
func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, w.Days-1)
}

// BarPosition is where a task bar sits on the chart, both values as fractions
// of the window width in [0, 1]. Consumers scale to percentages.
type BarPosition struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Layout clips a task's date range to the window and computes its bar
// position. It returns false when the range lies entirely outside the window
// (including the degenerate end-before-start case); such tasks must not be
// rendered.
func (w Window) Layout(taskStart, taskEnd time.Time) (BarPosition, bool) {
	if w.Days <= 0 {
		return BarPosition{}, false
	}

	start := midnight(taskStart)
	end := midnight(taskEnd)

	clippedStart := start
	if clippedStart.Before(w.Start) {
		clippedStart = w.Start
	}
	clippedEnd := end
	if clippedEnd.After(w.End()) {
		clippedEnd = w.End()
	}
	if clippedEnd.Before(clippedStart) {
		return BarPosition{}, false
	}

	left := float64(daysBetween(w.Start, clippedStart)) / float64(w.Days)
	// +1 so both endpoints count as whole days: a one-day task is one day wide.
	width := float64(daysBetween(clippedStart, clippedEnd)+1) / float64(w.Days)

	return BarPosition{Left: left, Width: width}, true
}

// TodayOffset returns the horizontal fraction of the "today" marker against
// the unclipped window start. Values outside [0, 1] mean today is not in the
// window.
func (w Window) TodayOffset(today time.Time) float64 {
	if w.Days <= 0 {
		return 0
	}
	return float64(daysBetween(w.Start, midnight(today))) / float64(w.Days)
}

// midnight truncates a timestamp to the start of its day, keeping location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole days from a to b; negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

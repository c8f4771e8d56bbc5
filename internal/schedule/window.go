package schedule

import "time"

// Window is a Monday-starting five-weekday view into a batch's
// calendar, clamped to the batch window. Start is always a Monday.
type Window struct {
	Start      time.Time // Monday of the visible week
	batchFirst time.Time // Monday of the batch start date's week
	batchLast  time.Time // Monday of the batch end date's week
}

// mondayOf returns the Monday of the week containing t.
func mondayOf(t time.Time) time.Time {
	// time.Weekday: Sunday = 0 ... Saturday = 6. Map Sunday onto the
	// preceding week's Monday.
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset)
}

// ResolveWindow computes the weekday window containing ref, clamped so
// it never starts before the batch start date's week nor after the
// batch end date's week.
func ResolveWindow(ref, batchStart, batchEnd time.Time) Window {
	w := Window{
		Start:      mondayOf(ref),
		batchFirst: mondayOf(batchStart),
		batchLast:  mondayOf(batchEnd),
	}
	if w.Start.Before(w.batchFirst) {
		w.Start = w.batchFirst
	}
	if w.Start.After(w.batchLast) {
		w.Start = w.batchLast
	}
	return w
}

// Days returns the five weekday dates (Mon-Fri) of the window in wire format.
func (w Window) Days() []string {
	days := make([]string, 5)
	for i := 0; i < 5; i++ {
		days[i] = FormatDate(w.Start.AddDate(0, 0, i))
	}
	return days
}

// WeekNumber is the 1-based week index relative to the batch start
// date's week.
func (w Window) WeekNumber() int {
	return int(w.Start.Sub(w.batchFirst).Hours()/24/7) + 1
}

// HasNext reports whether the window can step forward without leaving
// the batch's final week.
func (w Window) HasNext() bool {
	return w.Start.Before(w.batchLast)
}

// HasPrev reports whether the window can step backward without leaving
// the batch's first week.
func (w Window) HasPrev() bool {
	return w.Start.After(w.batchFirst)
}

// Next steps the window forward one week. At the batch end boundary it
// is a no-op.
func (w Window) Next() Window {
	if !w.HasNext() {
		return w
	}
	w.Start = w.Start.AddDate(0, 0, 7)
	return w
}

// Prev steps the window backward one week. At the batch start boundary
// it is a no-op.
func (w Window) Prev() Window {
	if !w.HasPrev() {
		return w
	}
	w.Start = w.Start.AddDate(0, 0, -7)
	return w
}

// Contains reports whether the ISO date falls on one of the window's
// five weekdays.
func (w Window) Contains(date string) bool {
	for _, d := range w.Days() {
		if d == date {
			return true
		}
	}
	return false
}

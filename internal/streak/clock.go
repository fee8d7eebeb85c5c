package streak

import "time"

// Clock supplies the current instant. Streak logic never reads the wall
// clock directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location. A nil Location
// means time.Local.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// Fixed returns a clock that always reports t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterday reports whether t falls on the calendar day before today,
// both read in today's location. Elapsed hours do not matter: 23:59 is
// yesterday when checked at 00:01.
func IsYesterday(t, today time.Time) bool {
	loc := today.Location()
	return SameDay(t, today.AddDate(0, 0, -1), loc)
}

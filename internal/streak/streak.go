package streak

import "time"

// Streak counts consecutive qualifying days ending at LastDate.
// A zero LastDate means no qualifying day is on record; Count is then 0.
type Streak struct {
	Count    int
	LastDate time.Time
}

// IsZero reports whether no streak is on record.
func (s Streak) IsZero() bool {
	return s.Count == 0 && s.LastDate.IsZero()
}

// normalize enforces that a streak has both a positive count and a date,
// or neither.
func (s Streak) normalize() Streak {
	if s.Count <= 0 || s.LastDate.IsZero() {
		return Streak{}
	}
	return s
}

// Accountant owns the streak record and applies calendar rules against
// an injected clock. Not safe for concurrent use; callers serialize access.
type Accountant struct {
	clock   Clock
	current Streak
}

// NewAccountant creates an accountant with an empty streak.
func NewAccountant(clock Clock) *Accountant {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Accountant{clock: clock}
}

// Current returns the streak record.
func (a *Accountant) Current() Streak {
	return a.current
}

// Restore replaces the record, typically with a decoded blob.
func (a *Accountant) Restore(s Streak) {
	a.current = s.normalize()
}

// Reconcile expires a lapsed streak: if the last qualifying day is neither
// today nor yesterday the record resets. Reports whether it changed.
func (a *Accountant) Reconcile() bool {
	last := a.current.LastDate
	if last.IsZero() {
		return false
	}
	today := a.clock.Now()
	if SameDay(last, today, today.Location()) || IsYesterday(last, today) {
		return false
	}
	a.current = Streak{}
	return true
}

// Advance records a qualifying action today. The count grows by one when
// the previous qualifying day was yesterday, restarts at 1 after a gap,
// and stays put when today already counted. Reports whether it changed.
func (a *Accountant) Advance() bool {
	today := a.clock.Now()
	last := a.current.LastDate

	switch {
	case !last.IsZero() && SameDay(last, today, today.Location()):
		return false
	case !last.IsZero() && IsYesterday(last, today):
		a.current = Streak{Count: a.current.Count + 1, LastDate: today}
	default:
		a.current = Streak{Count: 1, LastDate: today}
	}
	return true
}

// milestones are the first streak lengths celebrated; beyond the last,
// every hundred days counts.
var milestones = []int{3, 7, 14, 30, 100}

// NextMilestone returns the next celebrated streak length above current.
func NextMilestone(current int) int {
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	return ((current / 100) + 1) * 100
}

package domain

import (
	"time"

	"folio/internal/platform/clock"
)

// Streak counts consecutive UTC days with at least one reading session.
type Streak struct {
	Current int
	Longest int
	LastDay time.Time
}

// Record returns the streak after a session on day. Reading twice on one day
// leaves it unchanged, the day after the last reading day extends it, and any
// gap starts over at one.
func (s Streak) Record(day time.Time) Streak {
	day = clock.Day(day)
	last := clock.Day(s.LastDay)
	switch {
	case s.Current > 0 && day.Equal(last):
		return s
	case s.Current > 0 && day.Equal(last.AddDate(0, 0, 1)):
		s.Current++
	case s.Current > 0 && day.Before(last):
		// Clock moved backwards; keep the streak as it is.
		return s
	default:
		s.Current = 1
	}
	s.LastDay = day
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s
}

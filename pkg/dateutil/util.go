package dateutil

import "time"

const Day = 24 * time.Hour

// DaysSince returns the number of whole days elapsed from t to now. A t in the
// future yields zero.
func DaysSince(t, now time.Time) int {
	if now.Before(t) {
		return 0
	}

	return int(now.Sub(t) / Day)
}

// WithinWindow reports whether a and b are at most window apart.
func WithinWindow(a, b time.Time, window time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}

	return d <= window
}

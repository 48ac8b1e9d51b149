package domain

import "time"

// Focus decides when reading chrome is hidden. It only ever hides chrome
// while a document is open and no overlay is shown.
type Focus struct {
	DocumentOpen bool
	Overlay      bool
	LastActivity time.Time
	Declutter    bool
}

// Touch records user activity and shows the chrome again.
func (f *Focus) Touch(now time.Time) bool {
	f.LastActivity = now
	return f.set(false)
}

// Evaluate compares idle time against threshold and reports whether the
// declutter flag changed.
func (f *Focus) Evaluate(now time.Time, threshold time.Duration) bool {
	if !f.DocumentOpen || f.Overlay {
		return f.set(false)
	}
	return f.set(now.Sub(f.LastActivity) >= threshold)
}

func (f *Focus) set(v bool) bool {
	changed := f.Declutter != v
	f.Declutter = v
	return changed
}

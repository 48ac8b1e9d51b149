package domain

// Clock accumulates reading time for the open document in whole seconds.
type Clock struct {
	DocumentID      string
	Page            int
	SessionSeconds  int64
	LifetimeSeconds int64
	Loading         bool
	// Dirty is set by anything a flush must persist and cleared once it has.
	Dirty bool
}

func NewClock(documentID string, page int, lifetimeSeconds int64) Clock {
	if page < 1 {
		page = 1
	}
	if lifetimeSeconds < 0 {
		lifetimeSeconds = 0
	}
	return Clock{DocumentID: documentID, Page: page, LifetimeSeconds: lifetimeSeconds}
}

// Tick advances both counters by one second unless a load is in flight.
func (c *Clock) Tick() bool {
	if c.DocumentID == "" || c.Loading {
		return false
	}
	c.SessionSeconds++
	c.LifetimeSeconds++
	c.Dirty = true
	return true
}

func (c *Clock) TurnTo(page int) {
	if page >= 1 && page != c.Page {
		c.Page = page
		c.Dirty = true
	}
}

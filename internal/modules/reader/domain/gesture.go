package domain

import "math"

type Direction int

const (
	DirectionNone Direction = iota
	DirectionNext
	DirectionPrev
)

func (d Direction) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrev:
		return "prev"
	}
	return "none"
}

type GestureConfig struct {
	// EdgeRatio is the share of the viewport width, at either side, where a
	// drag may start.
	EdgeRatio float64
	// CommitRatio is the share of the viewport width a drag must cover to
	// turn the page on release.
	CommitRatio float64
}

// GestureState is idle when Active is false and dragging otherwise.
type GestureState struct {
	Active    bool
	Direction Direction
	OriginX   float64
	Offset    float64
	Width     float64
}

// Begin starts a drag when x falls into an edge zone. It is a no-op while a
// drag is already active.
func (g *GestureState) Begin(x, width float64, cfg GestureConfig) bool {
	if g.Active || width <= 0 || x < 0 || x > width {
		return false
	}
	edge := width * cfg.EdgeRatio
	switch {
	case x >= width-edge:
		g.Direction = DirectionNext
	case x <= edge:
		g.Direction = DirectionPrev
	default:
		return false
	}
	g.Active = true
	g.OriginX = x
	g.Offset = 0
	g.Width = width
	return true
}

// Move records pointer movement. A next drag only accumulates leftward
// (non-positive) offset, a prev drag only rightward.
func (g *GestureState) Move(x float64) {
	if !g.Active {
		return
	}
	offset := x - g.OriginX
	switch g.Direction {
	case DirectionNext:
		g.Offset = math.Min(offset, 0)
	case DirectionPrev:
		g.Offset = math.Max(offset, 0)
	}
}

// Release ends the drag and returns the direction to turn, or DirectionNone
// when the drag is cancelled. The state is always back to zero afterwards.
func (g *GestureState) Release(cfg GestureConfig) Direction {
	if !g.Active {
		*g = GestureState{}
		return DirectionNone
	}
	dir := DirectionNone
	if math.Abs(g.Offset) > g.Width*cfg.CommitRatio {
		dir = g.Direction
	}
	*g = GestureState{}
	return dir
}

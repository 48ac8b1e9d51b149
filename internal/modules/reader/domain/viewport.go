package domain

import (
	"errors"
	"fmt"
	"math"
)

// MaxSurfaceSide bounds either side of a rasterized page in pixels.
const MaxSurfaceSide = 8192

var ErrViewportTooLarge = errors.New("viewport too large")

type Viewport struct {
	Width  int
	Height int
	Scale  float64
}

// ViewportFor sizes a page of width×height points at zoom.
func ViewportFor(width, height, zoom float64) (Viewport, error) {
	if width <= 0 || height <= 0 || zoom <= 0 {
		return Viewport{}, fmt.Errorf("viewport for %.0fx%.0f at %.2f: non-positive dimension", width, height, zoom)
	}
	vp := Viewport{
		Width:  int(math.Ceil(width * zoom)),
		Height: int(math.Ceil(height * zoom)),
		Scale:  zoom,
	}
	if vp.Width > MaxSurfaceSide || vp.Height > MaxSurfaceSide {
		return Viewport{}, fmt.Errorf("%w: %dx%d", ErrViewportTooLarge, vp.Width, vp.Height)
	}
	return vp, nil
}

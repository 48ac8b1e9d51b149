package domain

import (
	"image"
	"image/color"
)

// Filter is the color transform applied when a cached bitmap is shown.
type Filter int

const (
	FilterNone Filter = iota
	FilterInvert
	FilterSepia
)

func FilterFor(t Theme) Filter {
	switch t {
	case ThemeDark:
		return FilterInvert
	case ThemeSepia:
		return FilterSepia
	}
	return FilterNone
}

// Apply returns a filtered copy of src. src is never modified.
func (f Filter) Apply(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	if f == FilterNone {
		return out
	}
	for i := 0; i+3 < len(out.Pix); i += 4 {
		r, g, b := out.Pix[i], out.Pix[i+1], out.Pix[i+2]
		switch f {
		case FilterInvert:
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = 255-r, 255-g, 255-b
		case FilterSepia:
			c := sepia(color.RGBA{R: r, G: g, B: b})
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = c.R, c.G, c.B
		}
	}
	return out
}

func sepia(c color.RGBA) color.RGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	clamp := func(v float64) uint8 {
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{
		R: clamp(0.393*r + 0.769*g + 0.189*b),
		G: clamp(0.349*r + 0.686*g + 0.168*b),
		B: clamp(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

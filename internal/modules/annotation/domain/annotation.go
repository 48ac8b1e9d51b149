package domain

import (
	"strings"
	"time"
)

type Color string

const (
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
)

// Colors lists the note colors in export order.
var Colors = []Color{ColorYellow, ColorGreen, ColorBlue, ColorPink, ColorPurple}

// ParseColor accepts a color name in any case. Empty means yellow.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ColorYellow, true
	}
	for _, c := range Colors {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Bookmark marks a page. A document has at most one per page.
type Bookmark struct {
	ID         string
	DocumentID string
	Page       int
	CreatedAt  time.Time
}

type Note struct {
	ID         string
	DocumentID string
	Page       int
	Color      Color
	Text       string
	CreatedAt  time.Time
}

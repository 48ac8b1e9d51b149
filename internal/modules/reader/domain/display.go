package domain

import (
	"fmt"
	"strings"
)

type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
	ThemeSepia
)

func (t Theme) String() string {
	switch t {
	case ThemeDark:
		return "dark"
	case ThemeSepia:
		return "sepia"
	}
	return "light"
}

func ParseTheme(s string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "":
		return ThemeLight, true
	case "dark", "night":
		return ThemeDark, true
	case "sepia":
		return ThemeSepia, true
	}
	return ThemeLight, false
}

// Display holds every setting that affects what a surface shows.
type Display struct {
	Zoom        float64
	Layout      Layout
	Theme       Theme
	Margins     int
	LineSpacing float64
	FontFamily  string
}

func DefaultDisplay(zoom float64) Display {
	if zoom <= 0 {
		zoom = 1
	}
	return Display{Zoom: zoom, Layout: LayoutSingle, Theme: ThemeLight, LineSpacing: 1, FontFamily: "basic"}
}

const (
	MinZoom = 0.25
	MaxZoom = 6.0
)

func (d Display) Validate() error {
	if d.Zoom < MinZoom || d.Zoom > MaxZoom {
		return fmt.Errorf("zoom %.2f outside [%.2f, %.2f]", d.Zoom, MinZoom, MaxZoom)
	}
	if d.Margins < 0 || d.Margins > 400 {
		return fmt.Errorf("margins %d outside [0, 400]", d.Margins)
	}
	if d.LineSpacing < 0.5 || d.LineSpacing > 3 {
		return fmt.Errorf("line spacing %.2f outside [0.5, 3]", d.LineSpacing)
	}
	return nil
}

// Rasterized reports whether moving from d to next needs new pixels. Theme is
// a display filter and never does.
func (d Display) Rasterized(next Display) bool {
	a, b := d, next
	a.Theme, b.Theme = ThemeLight, ThemeLight
	return a != b
}

package dto

import "image"

// Settings is the user-facing display configuration.
type Settings struct {
	Zoom        float64
	Layout      string
	Theme       string
	Margins     int
	LineSpacing float64
	FontFamily  string
}

// Change edits settings. Several changes given to one Apply call produce a
// single render pass.
type Change func(*Settings)

func Zoom(z float64) Change              { return func(s *Settings) { s.Zoom = z } }
func Layout(layout string) Change        { return func(s *Settings) { s.Layout = layout } }
func Theme(theme string) Change          { return func(s *Settings) { s.Theme = theme } }
func Margins(px int) Change              { return func(s *Settings) { s.Margins = px } }
func LineSpacing(spacing float64) Change { return func(s *Settings) { s.LineSpacing = spacing } }
func FontFamily(family string) Change    { return func(s *Settings) { s.FontFamily = family } }

// ZoomBy, NextTheme and ToggleLayout are relative to the settings in effect
// when the change is applied.
func ZoomBy(delta float64) Change { return func(s *Settings) { s.Zoom += delta } }

func NextTheme() Change {
	return func(s *Settings) {
		switch s.Theme {
		case "light":
			s.Theme = "dark"
		case "dark":
			s.Theme = "sepia"
		default:
			s.Theme = "light"
		}
	}
}

func ToggleLayout() Change {
	return func(s *Settings) {
		if s.Layout == "two-page" {
			s.Layout = "single"
		} else {
			s.Layout = "two-page"
		}
	}
}

type Chapter struct {
	ID    string
	Title string
	Page  int
}

type GestureOutput struct {
	Active    bool
	Direction string
	Offset    float64
}

type SessionOutput struct {
	Open         bool
	DocumentID   string
	Title        string
	PageCount    int
	CurrentPage  int
	SecondPage   int
	Settings     Settings
	Chapters     []Chapter
	ChapterIndex int
	Gesture      GestureOutput
}

type FrameOutput struct {
	Surface int
	Page    int
	Image   image.Image
}

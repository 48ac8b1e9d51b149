package dto

import (
	"context"
	"image/draw"
	"time"
)

// Handle is an open document. It is owned by whoever opened it and must be
// closed when the reading session ends.
type Handle interface {
	PageCount() int
	Page(n int) (Page, error)
	Close() error
}

// Page is a single page of an open document, numbered from 1.
type Page interface {
	Number() int
	// Size is the page size in points at zoom 1.
	Size() (width, height float64)
	Render(ctx context.Context, dst draw.Image, vp Viewport) error
	Text() (string, error)
}

// Viewport describes the pixel area a page is rasterized into.
type Viewport struct {
	Width       int
	Height      int
	Scale       float64
	FontFamily  string
	LineSpacing float64
}

type ImportInput struct {
	DisplayName string
	Bytes       []byte
	Tags        []string
}

type Chapter struct {
	ID    string
	Title string
	Page  int
}

type EntryOutput struct {
	ID               string
	DisplayName      string
	LastPageRead     int
	LastOpenedAt     time.Time
	TotalTimeSeconds int64
	PageCount        int
	HasThumbnail     bool
	Tags             []string
	Chapters         []Chapter
}

type OpenOutput struct {
	Entry       EntryOutput
	Handle      Handle
	PageCount   int
	CurrentPage int
	Chapters    []Chapter
}

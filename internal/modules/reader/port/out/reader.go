package out

import (
	"context"
	"image"

	docdto "folio/internal/modules/document/dto"
	"folio/internal/modules/reader/domain"
)

// Documents opens library documents into renderable handles.
type Documents interface {
	Open(ctx context.Context, id string) (docdto.OpenOutput, error)
	PageText(ctx context.Context, handle docdto.Handle, page int) (string, error)
}

// Frame is a rasterized page ready to be shown. Bitmap is shared with the
// cache and must not be modified.
type Frame struct {
	Page   int
	Bitmap *image.RGBA
	Filter domain.Filter
}

// Surface is one on-screen page area.
type Surface interface {
	Present(frame Frame)
	SetFilter(filter domain.Filter)
	Clear()
	// Snapshot returns the page and filtered image currently shown.
	Snapshot() (page int, img image.Image, ok bool)
}

type BitmapCache interface {
	Get(key string) (*image.RGBA, bool)
	Put(key string, bitmap *image.RGBA)
	Purge(documentID string)
}

// Session receives reading lifecycle events. Failures are the receiver's
// concern and never block navigation.
type Session interface {
	Start(ctx context.Context, documentID string, page int, totalSeconds int64) error
	PageTurned(ctx context.Context, page int)
	SetLoading(loading bool)
	Stop(ctx context.Context) error
	Activity()
	SetOverlay(open bool)
}

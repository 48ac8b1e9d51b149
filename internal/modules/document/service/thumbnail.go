package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	"folio/internal/modules/document/dto"
)

// Thumbnailer rasterizes the first page at twice the target width and scales
// it down, which keeps small text legible in the cover image.
type Thumbnailer struct {
	Width int
}

func (t Thumbnailer) Generate(ctx context.Context, handle dto.Handle) ([]byte, error) {
	if handle.PageCount() < 1 {
		return nil, fmt.Errorf("thumbnail: document has no pages")
	}
	page, err := handle.Page(1)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	w, h := page.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("thumbnail: page has no area")
	}
	width := t.Width
	if width <= 0 {
		width = 160
	}
	scale := float64(2*width) / w
	full := image.NewRGBA(image.Rect(0, 0, 2*width, int(math.Ceil(h*scale))))
	if err := page.Render(ctx, full, dto.Viewport{Width: full.Bounds().Dx(), Height: full.Bounds().Dy(), Scale: scale, LineSpacing: 1}); err != nil {
		return nil, fmt.Errorf("thumbnail: render: %w", err)
	}
	thumb := image.NewRGBA(image.Rect(0, 0, width, int(math.Max(1, math.Round(h*float64(width)/w)))))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), full, full.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, fmt.Errorf("thumbnail: encode: %w", err)
	}
	return buf.Bytes(), nil
}

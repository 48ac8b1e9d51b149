package in

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
)

type CLIHandler struct {
	usecase readerin.Usecase
}

func NewCLIHandler(usecase readerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// RenderPNG opens a document, shows page with the given changes applied and
// writes what the surfaces display, side by side, as a PNG.
func (h CLIHandler) RenderPNG(ctx context.Context, documentID string, page int, w io.Writer, changes ...dto.Change) (dto.SessionOutput, error) {
	if _, err := h.usecase.Open(ctx, documentID); err != nil {
		return dto.SessionOutput{}, err
	}
	defer func() { _ = h.usecase.Close(ctx) }()
	if _, err := h.usecase.Apply(ctx, changes...); err != nil {
		return dto.SessionOutput{}, err
	}
	session, err := h.usecase.GoTo(ctx, page)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	frames := h.usecase.Frames()
	if len(frames) == 0 {
		return session, fmt.Errorf("page %d could not be rendered", session.CurrentPage)
	}
	if err := png.Encode(w, compose(frames)); err != nil {
		return session, fmt.Errorf("encode png: %w", err)
	}
	return session, nil
}

func compose(frames []dto.FrameOutput) image.Image {
	if len(frames) == 1 {
		return frames[0].Image
	}
	width, height := 0, 0
	for _, f := range frames {
		b := f.Image.Bounds()
		width += b.Dx()
		if b.Dy() > height {
			height = b.Dy()
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	x := 0
	for _, f := range frames {
		b := f.Image.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), f.Image, b.Min, draw.Src)
		x += b.Dx()
	}
	return out
}

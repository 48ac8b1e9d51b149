package in

import (
	"context"

	"folio/internal/modules/reader/dto"
	readerin "folio/internal/modules/reader/port/in"
)

// TUIHandler maps terminal input onto the reader. Mouse columns are used as
// pointer coordinates.
type TUIHandler struct {
	usecase readerin.Usecase
}

func NewTUIHandler(usecase readerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, documentID string) (dto.SessionOutput, error) {
	return h.usecase.Open(ctx, documentID)
}

func (h TUIHandler) Close(ctx context.Context) error {
	return h.usecase.Close(ctx)
}

func (h TUIHandler) Next(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Next(ctx)
}

func (h TUIHandler) Prev(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Prev(ctx)
}

func (h TUIHandler) GoTo(ctx context.Context, page int) (dto.SessionOutput, error) {
	return h.usecase.GoTo(ctx, page)
}

func (h TUIHandler) JumpToChapter(ctx context.Context, index int) (dto.SessionOutput, error) {
	return h.usecase.JumpToChapter(ctx, index)
}

func (h TUIHandler) Apply(ctx context.Context, changes ...dto.Change) (dto.SessionOutput, error) {
	return h.usecase.Apply(ctx, changes...)
}

// ToggleLayout flips between single and two-page layout.
func (h TUIHandler) ToggleLayout(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Apply(ctx, dto.ToggleLayout())
}

// CycleTheme moves light → dark → sepia → light.
func (h TUIHandler) CycleTheme(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Apply(ctx, dto.NextTheme())
}

func (h TUIHandler) ZoomBy(ctx context.Context, delta float64) (dto.SessionOutput, error) {
	return h.usecase.Apply(ctx, dto.ZoomBy(delta))
}

func (h TUIHandler) Press(ctx context.Context, column, width int) dto.SessionOutput {
	return h.usecase.PointerDown(ctx, float64(column), float64(width))
}

func (h TUIHandler) Drag(ctx context.Context, column int) dto.SessionOutput {
	return h.usecase.PointerMove(ctx, float64(column))
}

func (h TUIHandler) Release(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.PointerUp(ctx)
}

func (h TUIHandler) Leave(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.PointerLeave(ctx)
}

func (h TUIHandler) SetOverlay(ctx context.Context, open bool) {
	h.usecase.SetOverlay(ctx, open)
}

func (h TUIHandler) PageText(ctx context.Context) (int, string, error) {
	return h.usecase.CurrentPageText(ctx)
}

func (h TUIHandler) Session() dto.SessionOutput {
	return h.usecase.Session()
}

func (h TUIHandler) Frames() []dto.FrameOutput {
	return h.usecase.Frames()
}

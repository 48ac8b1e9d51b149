package in

import (
	"context"

	"folio/internal/modules/reader/dto"
)

type Usecase interface {
	Open(ctx context.Context, documentID string) (dto.SessionOutput, error)
	Close(ctx context.Context) error
	GoTo(ctx context.Context, page int) (dto.SessionOutput, error)
	Next(ctx context.Context) (dto.SessionOutput, error)
	Prev(ctx context.Context) (dto.SessionOutput, error)
	JumpToChapter(ctx context.Context, index int) (dto.SessionOutput, error)
	Apply(ctx context.Context, changes ...dto.Change) (dto.SessionOutput, error)
	PointerDown(ctx context.Context, x, width float64) dto.SessionOutput
	PointerMove(ctx context.Context, x float64) dto.SessionOutput
	PointerUp(ctx context.Context) (dto.SessionOutput, error)
	PointerLeave(ctx context.Context) (dto.SessionOutput, error)
	SetOverlay(ctx context.Context, open bool)
	CurrentPageText(ctx context.Context) (page int, text string, err error)
	Session() dto.SessionOutput
	Frames() []dto.FrameOutput
}

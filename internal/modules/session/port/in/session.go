package in

import (
	"context"

	"folio/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StatusOutput, error)
	Tick()
	PageTurned(ctx context.Context, page int)
	SetLoading(loading bool)
	Flush(ctx context.Context) error
	Stop(ctx context.Context) error
	Activity()
	SetOverlay(open bool)
	FocusTick()
	Status() dto.StatusOutput
	Streak(ctx context.Context) (dto.StreakOutput, error)
}

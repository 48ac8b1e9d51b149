package usecase

import (
	"context"
	"log/slog"

	"folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
	"folio/internal/modules/session/service"
	"folio/internal/platform/logging"
)

type Interactor struct {
	svc    *service.SessionService
	focus  *service.FocusService
	streak *service.StreakService
	logger *slog.Logger
}

func NewInteractor(svc *service.SessionService, focus *service.FocusService, streak *service.StreakService, logger *slog.Logger) sessionin.Usecase {
	return &Interactor{svc: svc, focus: focus, streak: streak, logger: logging.For(logger, "session")}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StatusOutput, error) {
	if _, err := i.svc.Start(ctx, input.DocumentID, input.Page, input.TotalSeconds); err != nil {
		return dto.StatusOutput{}, err
	}
	i.focus.DocumentOpened()
	if _, err := i.streak.Record(ctx); err != nil {
		i.logger.Warn("record reading streak", slog.String("document", input.DocumentID), slog.Any("err", err))
	}
	return i.Status(), nil
}

func (i *Interactor) Tick() {
	i.svc.Tick()
}

func (i *Interactor) PageTurned(ctx context.Context, page int) {
	i.focus.Activity()
	i.svc.PageTurned(ctx, page)
}

func (i *Interactor) SetLoading(loading bool) {
	i.svc.SetLoading(loading)
}

func (i *Interactor) Flush(ctx context.Context) error {
	return i.svc.Flush(ctx)
}

func (i *Interactor) Stop(ctx context.Context) error {
	i.focus.DocumentClosed()
	return i.svc.Stop(ctx)
}

func (i *Interactor) Activity() {
	i.focus.Activity()
}

func (i *Interactor) SetOverlay(open bool) {
	i.focus.SetOverlay(open)
}

func (i *Interactor) FocusTick() {
	i.focus.Tick()
}

func (i *Interactor) Status() dto.StatusOutput {
	state := i.svc.State()
	return dto.StatusOutput{
		Active:         state.DocumentID != "",
		DocumentID:     state.DocumentID,
		Page:           state.Page,
		SessionSeconds: state.SessionSeconds,
		TotalSeconds:   state.LifetimeSeconds,
		Loading:        state.Loading,
		Declutter:      i.focus.Declutter(),
	}
}

func (i *Interactor) Streak(ctx context.Context) (dto.StreakOutput, error) {
	s, err := i.streak.Current(ctx)
	if err != nil {
		return dto.StreakOutput{}, err
	}
	return dto.StreakOutput{Current: s.Current, Longest: s.Longest, LastDay: s.LastDay}, nil
}

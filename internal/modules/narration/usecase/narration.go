package usecase

import (
	"context"

	"folio/internal/modules/narration/domain"
	"folio/internal/modules/narration/dto"
	narrationin "folio/internal/modules/narration/port/in"
	"folio/internal/modules/narration/service"
)

type Interactor struct {
	svc *service.NarrationService
}

func NewInteractor(svc *service.NarrationService) narrationin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Toggle(ctx context.Context) (dto.StatusOutput, error) {
	status, err := i.svc.Toggle(ctx)
	return toOutput(status), err
}

func (i *Interactor) Stop(context.Context) dto.StatusOutput {
	return toOutput(i.svc.Stop())
}

func (i *Interactor) Status() dto.StatusOutput {
	return toOutput(i.svc.Status())
}

func (i *Interactor) Completed() <-chan struct{} {
	return i.svc.Completed()
}

func toOutput(s domain.Status) dto.StatusOutput {
	out := dto.StatusOutput{Speaking: s.State == domain.StateSpeaking, State: s.State.String()}
	if out.Speaking {
		out.Page = s.Page
	}
	return out
}

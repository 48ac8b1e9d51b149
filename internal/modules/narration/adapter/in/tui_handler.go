package in

import (
	"context"

	narrationdto "folio/internal/modules/narration/dto"
	narrationin "folio/internal/modules/narration/port/in"
)

type TUIHandler struct {
	usecase narrationin.Usecase
}

func NewTUIHandler(usecase narrationin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Toggle(ctx context.Context) (narrationdto.StatusOutput, error) {
	return h.usecase.Toggle(ctx)
}

func (h TUIHandler) Stop(ctx context.Context) narrationdto.StatusOutput {
	return h.usecase.Stop(ctx)
}

func (h TUIHandler) Status() narrationdto.StatusOutput {
	return h.usecase.Status()
}

func (h TUIHandler) Completed() <-chan struct{} {
	return h.usecase.Completed()
}

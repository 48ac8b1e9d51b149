package in

import (
	"context"

	sessiondto "folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Streak(ctx context.Context) (sessiondto.StreakOutput, error) {
	return h.usecase.Streak(ctx)
}

package in

import (
	"context"

	sessiondto "folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
)

// TUIHandler exposes the running clock and focus state to the terminal UI.
type TUIHandler struct {
	usecase sessionin.Usecase
}

func NewTUIHandler(usecase sessionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Status() sessiondto.StatusOutput {
	return h.usecase.Status()
}

// Activity reports input that did not go through the reader, such as
// scrolling or mouse motion.
func (h TUIHandler) Activity() {
	h.usecase.Activity()
}

func (h TUIHandler) Streak(ctx context.Context) (sessiondto.StreakOutput, error) {
	return h.usecase.Streak(ctx)
}

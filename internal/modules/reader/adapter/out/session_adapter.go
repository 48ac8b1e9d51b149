package out

import (
	"context"

	readerout "folio/internal/modules/reader/port/out"
	sessiondto "folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
)

type SessionAdapter struct {
	session sessionin.Usecase
}

func NewSessionAdapter(session sessionin.Usecase) readerout.Session {
	return &SessionAdapter{session: session}
}

func (a *SessionAdapter) Start(ctx context.Context, documentID string, page int, totalSeconds int64) error {
	_, err := a.session.Start(ctx, sessiondto.StartInput{DocumentID: documentID, Page: page, TotalSeconds: totalSeconds})
	return err
}

func (a *SessionAdapter) PageTurned(ctx context.Context, page int) {
	a.session.PageTurned(ctx, page)
}

func (a *SessionAdapter) SetLoading(loading bool) {
	a.session.SetLoading(loading)
}

func (a *SessionAdapter) Stop(ctx context.Context) error {
	return a.session.Stop(ctx)
}

func (a *SessionAdapter) Activity() {
	a.session.Activity()
}

func (a *SessionAdapter) SetOverlay(open bool) {
	a.session.SetOverlay(open)
}

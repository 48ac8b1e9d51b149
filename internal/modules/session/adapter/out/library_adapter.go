package out

import (
	"context"
	"time"

	librarydto "folio/internal/modules/library/dto"
	libraryin "folio/internal/modules/library/port/in"
	sessionout "folio/internal/modules/session/port/out"
)

type LibraryAdapter struct {
	library libraryin.Usecase
}

func NewLibraryAdapter(library libraryin.Usecase) sessionout.Library {
	return &LibraryAdapter{library: library}
}

func (a *LibraryAdapter) RecordProgress(ctx context.Context, documentID string, page int, openedAt time.Time) error {
	return a.library.RecordProgress(ctx, librarydto.RecordProgressInput{ID: documentID, Page: page, OpenedAt: openedAt})
}

func (a *LibraryAdapter) RecordTime(ctx context.Context, documentID string, totalSeconds int64) error {
	return a.library.RecordTime(ctx, librarydto.RecordTimeInput{ID: documentID, TotalSeconds: totalSeconds})
}

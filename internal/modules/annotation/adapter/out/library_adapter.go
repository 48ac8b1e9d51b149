package out

import (
	"context"

	annotationout "folio/internal/modules/annotation/port/out"
	libraryin "folio/internal/modules/library/port/in"
)

type LibraryAdapter struct {
	library libraryin.Usecase
}

func NewLibraryAdapter(library libraryin.Usecase) annotationout.Library {
	return &LibraryAdapter{library: library}
}

func (a *LibraryAdapter) Document(ctx context.Context, id string) (annotationout.Document, error) {
	entry, err := a.library.GetEntry(ctx, id)
	if err != nil {
		return annotationout.Document{}, err
	}
	return annotationout.Document{Title: entry.DisplayName, PageCount: entry.PageCount}, nil
}

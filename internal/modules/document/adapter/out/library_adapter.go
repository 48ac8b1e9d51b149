package out

import (
	"context"

	documentout "folio/internal/modules/document/port/out"
	librarydto "folio/internal/modules/library/dto"
	libraryin "folio/internal/modules/library/port/in"
)

type LibraryAdapter struct {
	library libraryin.Usecase
}

func NewLibraryAdapter(library libraryin.Usecase) documentout.Library {
	return &LibraryAdapter{library: library}
}

func (a *LibraryAdapter) Register(ctx context.Context, input librarydto.RegisterInput) (librarydto.EntryOutput, error) {
	return a.library.Register(ctx, input)
}

func (a *LibraryAdapter) GetEntry(ctx context.Context, id string) (librarydto.EntryOutput, error) {
	return a.library.GetEntry(ctx, id)
}

func (a *LibraryAdapter) GetBytes(ctx context.Context, id string) ([]byte, error) {
	return a.library.GetBytes(ctx, id)
}

func (a *LibraryAdapter) UpdateEntry(ctx context.Context, input librarydto.UpdateEntryInput) (librarydto.EntryOutput, error) {
	return a.library.UpdateEntry(ctx, input)
}

func (a *LibraryAdapter) Delete(ctx context.Context, id string) error {
	return a.library.Delete(ctx, id)
}

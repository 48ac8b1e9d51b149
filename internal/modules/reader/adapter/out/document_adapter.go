package out

import (
	"context"

	docdto "folio/internal/modules/document/dto"
	documentin "folio/internal/modules/document/port/in"
	readerout "folio/internal/modules/reader/port/out"
)

type DocumentAdapter struct {
	documents documentin.Usecase
}

func NewDocumentAdapter(documents documentin.Usecase) readerout.Documents {
	return &DocumentAdapter{documents: documents}
}

func (a *DocumentAdapter) Open(ctx context.Context, id string) (docdto.OpenOutput, error) {
	return a.documents.Open(ctx, id)
}

func (a *DocumentAdapter) PageText(ctx context.Context, handle docdto.Handle, page int) (string, error) {
	return a.documents.PageText(ctx, handle, page)
}

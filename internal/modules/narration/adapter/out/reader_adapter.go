package out

import (
	"context"

	narrationout "folio/internal/modules/narration/port/out"
	readerin "folio/internal/modules/reader/port/in"
)

type ReaderAdapter struct {
	reader readerin.Usecase
}

func NewReaderAdapter(reader readerin.Usecase) narrationout.PageText {
	return &ReaderAdapter{reader: reader}
}

func (a *ReaderAdapter) CurrentPageText(ctx context.Context) (int, string, error) {
	return a.reader.CurrentPageText(ctx)
}

package in

import (
	"context"

	"folio/internal/modules/document/dto"
)

type Usecase interface {
	Import(ctx context.Context, input dto.ImportInput) (dto.EntryOutput, error)
	Open(ctx context.Context, id string) (dto.OpenOutput, error)
	PageText(ctx context.Context, handle dto.Handle, page int) (string, error)
}

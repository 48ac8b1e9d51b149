package in

import (
	"context"

	"folio/internal/modules/library/dto"
)

type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.EntryOutput, error)
	ListEntries(ctx context.Context) ([]dto.EntryOutput, error)
	GetEntry(ctx context.Context, id string) (dto.EntryOutput, error)
	GetBytes(ctx context.Context, id string) ([]byte, error)
	UpdateEntry(ctx context.Context, input dto.UpdateEntryInput) (dto.EntryOutput, error)
	RecordProgress(ctx context.Context, input dto.RecordProgressInput) error
	RecordTime(ctx context.Context, input dto.RecordTimeInput) error
	Delete(ctx context.Context, id string) error
}

package usecase

import (
	"context"

	"folio/internal/modules/document/dto"
	documentin "folio/internal/modules/document/port/in"
	"folio/internal/modules/document/service"
)

type Interactor struct {
	svc *service.PipelineService
}

func NewInteractor(svc *service.PipelineService) documentin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) (dto.EntryOutput, error) {
	entry, err := i.svc.Import(ctx, input.Bytes, input.DisplayName, input.Tags)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	chapters := make([]dto.Chapter, 0, len(entry.Chapters))
	for _, c := range entry.Chapters {
		chapters = append(chapters, dto.Chapter{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	return dto.EntryOutput{
		ID:               entry.ID,
		DisplayName:      entry.DisplayName,
		LastPageRead:     entry.LastPageRead,
		LastOpenedAt:     entry.LastOpenedAt,
		TotalTimeSeconds: entry.TotalTimeSeconds,
		PageCount:        entry.PageCount,
		HasThumbnail:     len(entry.CoverThumbnail) > 0,
		Tags:             entry.Tags,
		Chapters:         chapters,
	}, nil
}

func (i *Interactor) Open(ctx context.Context, id string) (dto.OpenOutput, error) {
	return i.svc.Open(ctx, id)
}

func (i *Interactor) PageText(ctx context.Context, handle dto.Handle, page int) (string, error) {
	return i.svc.PageText(ctx, handle, page)
}

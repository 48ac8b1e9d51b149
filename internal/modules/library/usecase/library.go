package usecase

import (
	"context"

	"folio/internal/modules/library/domain"
	"folio/internal/modules/library/dto"
	libraryin "folio/internal/modules/library/port/in"
	"folio/internal/modules/library/service"
)

type Interactor struct {
	svc *service.LibraryService
}

func NewInteractor(svc *service.LibraryService) libraryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.EntryOutput, error) {
	entry := domain.Entry{
		ID:             input.ID,
		DisplayName:    input.DisplayName,
		LastPageRead:   1,
		LastOpenedAt:   input.AddedAt,
		AddedAt:        input.AddedAt,
		CoverThumbnail: input.Thumbnail,
		Tags:           input.Tags,
		PageCount:      input.PageCount,
		Chapters:       toDomainChapters(input.Chapters),
	}
	saved, err := i.svc.Register(ctx, entry, input.Bytes)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(saved), nil
}

func (i *Interactor) ListEntries(ctx context.Context) ([]dto.EntryOutput, error) {
	entries, err := i.svc.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toOutput(entry))
	}
	return out, nil
}

func (i *Interactor) GetEntry(ctx context.Context, id string) (dto.EntryOutput, error) {
	entry, err := i.svc.GetEntry(ctx, id)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) GetBytes(ctx context.Context, id string) ([]byte, error) {
	return i.svc.GetBytes(ctx, id)
}

func (i *Interactor) UpdateEntry(ctx context.Context, input dto.UpdateEntryInput) (dto.EntryOutput, error) {
	e := input.Entry
	entry, err := i.svc.UpdateEntry(ctx, domain.Entry{
		ID:               e.ID,
		DisplayName:      e.DisplayName,
		LastPageRead:     e.LastPageRead,
		LastOpenedAt:     e.LastOpenedAt,
		AddedAt:          e.AddedAt,
		CoverThumbnail:   e.CoverThumbnail,
		TotalTimeSeconds: e.TotalTimeSeconds,
		Tags:             e.Tags,
		PageCount:        e.PageCount,
		Chapters:         toDomainChapters(e.Chapters),
	})
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) RecordProgress(ctx context.Context, input dto.RecordProgressInput) error {
	return i.svc.RecordProgress(ctx, input.ID, input.Page, input.OpenedAt)
}

func (i *Interactor) RecordTime(ctx context.Context, input dto.RecordTimeInput) error {
	return i.svc.RecordTime(ctx, input.ID, input.TotalSeconds)
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func toOutput(entry domain.Entry) dto.EntryOutput {
	chapters := make([]dto.ChapterOutput, 0, len(entry.Chapters))
	for _, c := range entry.Chapters {
		chapters = append(chapters, dto.ChapterOutput{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	return dto.EntryOutput{
		ID:               entry.ID,
		DisplayName:      entry.DisplayName,
		LastPageRead:     entry.LastPageRead,
		LastOpenedAt:     entry.LastOpenedAt,
		AddedAt:          entry.AddedAt,
		CoverThumbnail:   entry.CoverThumbnail,
		TotalTimeSeconds: entry.TotalTimeSeconds,
		Tags:             entry.Tags,
		PageCount:        entry.PageCount,
		Chapters:         chapters,
	}
}

func toDomainChapters(in []dto.ChapterOutput) []domain.Chapter {
	out := make([]domain.Chapter, 0, len(in))
	for _, c := range in {
		out = append(out, domain.Chapter{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	return out
}

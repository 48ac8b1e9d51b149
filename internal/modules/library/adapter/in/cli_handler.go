package in

import (
	"context"

	"folio/internal/modules/library/dto"
	libraryin "folio/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.EntryOutput, error) {
	return h.usecase.ListEntries(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.EntryOutput, error) {
	return h.usecase.GetEntry(ctx, id)
}

func (h CLIHandler) Remove(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

// Tag replaces the tags of an entry.
func (h CLIHandler) Tag(ctx context.Context, id string, tags []string) (dto.EntryOutput, error) {
	entry, err := h.usecase.GetEntry(ctx, id)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	entry.Tags = tags
	return h.usecase.UpdateEntry(ctx, dto.UpdateEntryInput{Entry: entry})
}

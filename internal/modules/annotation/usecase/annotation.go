package usecase

import (
	"context"

	"folio/internal/modules/annotation/domain"
	"folio/internal/modules/annotation/dto"
	annotationin "folio/internal/modules/annotation/port/in"
	"folio/internal/modules/annotation/service"
)

type Interactor struct {
	svc *service.AnnotationService
}

func NewInteractor(svc *service.AnnotationService) annotationin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ToggleBookmark(ctx context.Context, input dto.ToggleBookmarkInput) (dto.ToggleBookmarkOutput, error) {
	bookmark, bookmarked, err := i.svc.ToggleBookmark(ctx, input.DocumentID, input.Page)
	if err != nil {
		return dto.ToggleBookmarkOutput{}, err
	}
	return dto.ToggleBookmarkOutput{Bookmarked: bookmarked, Bookmark: toBookmarkOutput(bookmark)}, nil
}

func (i *Interactor) ListBookmarks(ctx context.Context, documentID string) ([]dto.BookmarkOutput, error) {
	bookmarks, err := i.svc.ListBookmarks(ctx, documentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookmarkOutput, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, toBookmarkOutput(b))
	}
	return out, nil
}

func (i *Interactor) AddNote(ctx context.Context, input dto.AddNoteInput) (dto.NoteOutput, error) {
	note, err := i.svc.AddNote(ctx, input.DocumentID, input.Page, input.Color, input.Text)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	return toNoteOutput(note), nil
}

func (i *Interactor) ListNotes(ctx context.Context, documentID string) ([]dto.NoteOutput, error) {
	notes, err := i.svc.ListNotes(ctx, documentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteOutput, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteOutput(n))
	}
	return out, nil
}

func (i *Interactor) DeleteNote(ctx context.Context, id string) error {
	return i.svc.DeleteNote(ctx, id)
}

func (i *Interactor) ExportNotes(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	path, count, err := i.svc.ExportNotes(ctx, input.DocumentID, input.Path)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, Notes: count}, nil
}

func (i *Interactor) RenderNotes(ctx context.Context, documentID string) (string, error) {
	rendered, _, err := i.svc.RenderNotes(ctx, documentID)
	return rendered, err
}

func (i *Interactor) DeleteForDocument(ctx context.Context, documentID string) error {
	return i.svc.DeleteForDocument(ctx, documentID)
}

func toBookmarkOutput(b domain.Bookmark) dto.BookmarkOutput {
	return dto.BookmarkOutput{ID: b.ID, DocumentID: b.DocumentID, Page: b.Page, CreatedAt: b.CreatedAt}
}

func toNoteOutput(n domain.Note) dto.NoteOutput {
	return dto.NoteOutput{ID: n.ID, DocumentID: n.DocumentID, Page: n.Page, Color: string(n.Color), Text: n.Text, CreatedAt: n.CreatedAt}
}

package in

import (
	"context"

	annotationdto "folio/internal/modules/annotation/dto"
	annotationin "folio/internal/modules/annotation/port/in"
)

type CLIHandler struct {
	usecase annotationin.Usecase
}

func NewCLIHandler(usecase annotationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ToggleBookmark(ctx context.Context, documentID string, page int) (annotationdto.ToggleBookmarkOutput, error) {
	return h.usecase.ToggleBookmark(ctx, annotationdto.ToggleBookmarkInput{DocumentID: documentID, Page: page})
}

func (h CLIHandler) Bookmarks(ctx context.Context, documentID string) ([]annotationdto.BookmarkOutput, error) {
	return h.usecase.ListBookmarks(ctx, documentID)
}

func (h CLIHandler) AddNote(ctx context.Context, documentID string, page int, color, text string) (annotationdto.NoteOutput, error) {
	return h.usecase.AddNote(ctx, annotationdto.AddNoteInput{DocumentID: documentID, Page: page, Color: color, Text: text})
}

func (h CLIHandler) Notes(ctx context.Context, documentID string) ([]annotationdto.NoteOutput, error) {
	return h.usecase.ListNotes(ctx, documentID)
}

func (h CLIHandler) DeleteNote(ctx context.Context, id string) error {
	return h.usecase.DeleteNote(ctx, id)
}

func (h CLIHandler) Export(ctx context.Context, documentID, path string) (annotationdto.ExportOutput, error) {
	return h.usecase.ExportNotes(ctx, annotationdto.ExportInput{DocumentID: documentID, Path: path})
}

func (h CLIHandler) Render(ctx context.Context, documentID string) (string, error) {
	return h.usecase.RenderNotes(ctx, documentID)
}

func (h CLIHandler) Forget(ctx context.Context, documentID string) error {
	return h.usecase.DeleteForDocument(ctx, documentID)
}

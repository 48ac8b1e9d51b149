package in

import (
	"context"

	"folio/internal/modules/annotation/dto"
)

type Usecase interface {
	ToggleBookmark(ctx context.Context, input dto.ToggleBookmarkInput) (dto.ToggleBookmarkOutput, error)
	ListBookmarks(ctx context.Context, documentID string) ([]dto.BookmarkOutput, error)
	AddNote(ctx context.Context, input dto.AddNoteInput) (dto.NoteOutput, error)
	ListNotes(ctx context.Context, documentID string) ([]dto.NoteOutput, error)
	DeleteNote(ctx context.Context, id string) error
	ExportNotes(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	// RenderNotes returns the markdown ExportNotes would write.
	RenderNotes(ctx context.Context, documentID string) (string, error)
	DeleteForDocument(ctx context.Context, documentID string) error
}

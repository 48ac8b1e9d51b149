package out

import (
	"context"

	"folio/internal/modules/annotation/domain"
)

type Store interface {
	FindBookmark(ctx context.Context, documentID string, page int) (domain.Bookmark, error)
	PutBookmark(ctx context.Context, bookmark domain.Bookmark) error
	DeleteBookmark(ctx context.Context, id string) error
	ListBookmarks(ctx context.Context, documentID string) ([]domain.Bookmark, error)
	PutNote(ctx context.Context, note domain.Note) error
	ListNotes(ctx context.Context, documentID string) ([]domain.Note, error)
	DeleteNote(ctx context.Context, id string) error
	DeleteForDocument(ctx context.Context, documentID string) error
}

// Document is what annotations need to know about a library entry.
type Document struct {
	Title     string
	PageCount int
}

type Library interface {
	Document(ctx context.Context, id string) (Document, error)
}

// Exporter writes a rendered export. An empty path lets it choose one from
// name.
type Exporter interface {
	Write(ctx context.Context, path, name, content string) (string, error)
}

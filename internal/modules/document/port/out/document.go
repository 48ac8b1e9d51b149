package out

import (
	"context"

	"folio/internal/modules/document/domain"
	"folio/internal/modules/document/dto"
	librarydto "folio/internal/modules/library/dto"
)

// Renderer parses raw bytes into an open document.
type Renderer interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

type Document interface {
	dto.Handle
	Outline() ([]domain.OutlineItem, error)
	ResolveDestination(name string) (int, error)
}

type Library interface {
	Register(ctx context.Context, input librarydto.RegisterInput) (librarydto.EntryOutput, error)
	GetEntry(ctx context.Context, id string) (librarydto.EntryOutput, error)
	GetBytes(ctx context.Context, id string) ([]byte, error)
	UpdateEntry(ctx context.Context, input librarydto.UpdateEntryInput) (librarydto.EntryOutput, error)
	Delete(ctx context.Context, id string) error
}

package out

import (
	"context"
	"time"

	"folio/internal/modules/library/domain"
)

type EntryStore interface {
	InsertEntry(ctx context.Context, entry domain.Entry) error
	SaveEntry(ctx context.Context, entry domain.Entry) error
	GetEntry(ctx context.Context, id string) (domain.Entry, error)
	ListEntries(ctx context.Context) ([]domain.Entry, error)
	UpdateProgress(ctx context.Context, id string, page int, openedAt time.Time) error
	UpdateReadingTime(ctx context.Context, id string, totalSeconds int64) error
	DeleteEntry(ctx context.Context, id string) error
}

type BlobStore interface {
	PutBytes(ctx context.Context, id string, data []byte) error
	GetBytes(ctx context.Context, id string) ([]byte, error)
	DeleteBytes(ctx context.Context, id string) error
}

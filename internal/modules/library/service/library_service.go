package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"folio/internal/modules/library/domain"
	libraryout "folio/internal/modules/library/port/out"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/tx"
)

type LibraryService struct {
	entries libraryout.EntryStore
	blobs   libraryout.BlobStore
	tx      tx.Manager
}

func NewLibraryService(entries libraryout.EntryStore, blobs libraryout.BlobStore, txManager tx.Manager) *LibraryService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &LibraryService{entries: entries, blobs: blobs, tx: txManager}
}

// Register stores the entry and its bytes as one unit. Either both records
// exist afterwards or neither does. An id already in the library fails with
// apperrors.ErrConflict and leaves the stored entry as it was.
func (s *LibraryService) Register(ctx context.Context, entry domain.Entry, data []byte) (domain.Entry, error) {
	if len(data) == 0 {
		return domain.Entry{}, fmt.Errorf("%w: document bytes are empty", apperrors.ErrInvalidInput)
	}
	entry.Tags = domain.NormalizeTags(entry.Tags)
	if entry.LastPageRead == 0 {
		entry.LastPageRead = 1
	}
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.entries.InsertEntry(ctx, entry); err != nil {
			return err
		}
		return s.blobs.PutBytes(ctx, entry.ID, data)
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("register %s: %w", entry.ID, err)
	}
	return entry, nil
}

func (s *LibraryService) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	entries, err := s.entries.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortByLastOpened(entries)
	return entries, nil
}

func (s *LibraryService) GetEntry(ctx context.Context, id string) (domain.Entry, error) {
	return s.entries.GetEntry(ctx, id)
}

func (s *LibraryService) GetBytes(ctx context.Context, id string) ([]byte, error) {
	return s.blobs.GetBytes(ctx, id)
}

// UpdateEntry overwrites the descriptive metadata of an existing entry. It
// never creates an entry, since that would leave metadata without bytes.
// Progress and reading time belong to RecordProgress and RecordTime and are
// kept from the stored record.
func (s *LibraryService) UpdateEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	entry.Tags = domain.NormalizeTags(entry.Tags)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		stored, err := s.entries.GetEntry(ctx, entry.ID)
		if err != nil {
			return err
		}
		entry.LastPageRead = stored.LastPageRead
		entry.LastOpenedAt = stored.LastOpenedAt
		entry.TotalTimeSeconds = stored.TotalTimeSeconds
		entry.AddedAt = stored.AddedAt
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		return s.entries.SaveEntry(ctx, entry)
	})
	if err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}

func (s *LibraryService) RecordProgress(ctx context.Context, id string, page int, at time.Time) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1", apperrors.ErrInvalidInput)
	}
	return s.entries.UpdateProgress(ctx, id, page, at)
}

func (s *LibraryService) RecordTime(ctx context.Context, id string, totalSeconds int64) error {
	if totalSeconds < 0 {
		return fmt.Errorf("%w: total time must be non-negative", apperrors.ErrInvalidInput)
	}
	return s.entries.UpdateReadingTime(ctx, id, totalSeconds)
}

// Delete removes the entry and its bytes together. A missing blob is tolerated
// so entries left behind by older versions can still be removed.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.entries.DeleteEntry(ctx, id); err != nil {
			return err
		}
		if err := s.blobs.DeleteBytes(ctx, id); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return nil
	})
}

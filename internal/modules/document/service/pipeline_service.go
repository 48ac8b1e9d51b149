package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"folio/internal/modules/document/domain"
	"folio/internal/modules/document/dto"
	documentout "folio/internal/modules/document/port/out"
	librarydto "folio/internal/modules/library/dto"
	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/logging"
)

// Fresh ids are drawn this many times before an id collision is returned.
const registerAttempts = 3

// IDFunc derives a library id from a display name and the import time.
type IDFunc func(name string, at time.Time) string

type PipelineService struct {
	library     documentout.Library
	renderer    documentout.Renderer
	clock       clock.Clock
	newID       IDFunc
	thumbnailer Thumbnailer
	logger      *slog.Logger

	healing sync.WaitGroup
}

func NewPipelineService(library documentout.Library, renderer documentout.Renderer, clock clock.Clock, newID IDFunc, thumbWidth int, logger *slog.Logger) *PipelineService {
	return &PipelineService{
		library:     library,
		renderer:    renderer,
		clock:       clock,
		newID:       newID,
		thumbnailer: Thumbnailer{Width: thumbWidth},
		logger:      logging.For(logger, "document"),
	}
}

// Import registers the bytes under a provisional entry first, so an
// interrupted pipeline still leaves a reopenable document behind. Thumbnail
// and outline are best effort. Bytes that cannot be parsed abort the import
// and the provisional entry is withdrawn.
func (s *PipelineService) Import(ctx context.Context, raw []byte, displayName string, tags []string) (librarydto.EntryOutput, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return librarydto.EntryOutput{}, fmt.Errorf("%w: display name is required", apperrors.ErrInvalidInput)
	}
	if len(raw) == 0 {
		return librarydto.EntryOutput{}, fmt.Errorf("%w: document is empty", apperrors.ErrInvalidInput)
	}
	now := s.clock.Now()
	var (
		entry librarydto.EntryOutput
		err   error
	)
	for attempt := 0; attempt < registerAttempts; attempt++ {
		entry, err = s.library.Register(ctx, librarydto.RegisterInput{
			ID:          s.newID(displayName, now),
			DisplayName: displayName,
			Bytes:       raw,
			Tags:        tags,
			AddedAt:     now,
		})
		if !errors.Is(err, apperrors.ErrConflict) {
			break
		}
	}
	if err != nil {
		return librarydto.EntryOutput{}, err
	}
	log := s.logger.With(slog.String("document", entry.ID))

	doc, err := s.open(ctx, raw)
	if err != nil {
		if delErr := s.library.Delete(ctx, entry.ID); delErr != nil {
			log.Warn("withdraw provisional entry", slog.Any("err", delErr))
		}
		return librarydto.EntryOutput{}, err
	}
	defer closeQuietly(doc, log)

	entry.PageCount = doc.PageCount()
	if thumb, err := s.thumbnailer.Generate(ctx, doc); err != nil {
		log.Warn("generate thumbnail", slog.Any("err", err))
	} else {
		entry.CoverThumbnail = thumb
	}
	entry.Chapters = toLibraryChapters(s.chapters(doc, log))

	updated, err := s.library.UpdateEntry(ctx, librarydto.UpdateEntryInput{Entry: entry})
	if err != nil {
		return entry, fmt.Errorf("finalize import of %s: %w", entry.ID, err)
	}
	log.Info("imported", slog.Int("pages", updated.PageCount), slog.Int("chapters", len(updated.Chapters)))
	return updated, nil
}

// Open returns an open handle positioned at the last page read. A missing
// thumbnail is regenerated in the background.
func (s *PipelineService) Open(ctx context.Context, id string) (dto.OpenOutput, error) {
	entry, err := s.library.GetEntry(ctx, id)
	if err != nil {
		return dto.OpenOutput{}, err
	}
	raw, err := s.library.GetBytes(ctx, id)
	if err != nil {
		return dto.OpenOutput{}, err
	}
	doc, err := s.open(ctx, raw)
	if err != nil {
		return dto.OpenOutput{}, err
	}
	log := s.logger.With(slog.String("document", id))
	chapters := s.chapters(doc, log)
	pageCount := doc.PageCount()

	if len(entry.CoverThumbnail) == 0 || entry.PageCount != pageCount {
		s.heal(context.WithoutCancel(ctx), id, raw)
	}

	out := dto.OpenOutput{
		Entry:       toEntryOutput(entry),
		Handle:      doc,
		PageCount:   pageCount,
		CurrentPage: ClampPage(entry.LastPageRead, pageCount),
		Chapters:    toDTOChapters(chapters),
	}
	return out, nil
}

func (s *PipelineService) PageText(ctx context.Context, handle dto.Handle, n int) (string, error) {
	if handle == nil {
		return "", apperrors.ErrNoOpenDocument
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	page, err := handle.Page(n)
	if err != nil {
		return "", err
	}
	text, err := page.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Wait blocks until background thumbnail healing has finished.
func (s *PipelineService) Wait() {
	s.healing.Wait()
}

func (s *PipelineService) heal(ctx context.Context, id string, raw []byte) {
	s.healing.Add(1)
	go func() {
		defer s.healing.Done()
		log := s.logger.With(slog.String("document", id))
		doc, err := s.open(ctx, raw)
		if err != nil {
			log.Warn("heal: reopen", slog.Any("err", err))
			return
		}
		defer closeQuietly(doc, log)
		thumb, err := s.thumbnailer.Generate(ctx, doc)
		if err != nil {
			log.Warn("heal: thumbnail", slog.Any("err", err))
		}
		entry, err := s.library.GetEntry(ctx, id)
		if err != nil {
			log.Warn("heal: reload entry", slog.Any("err", err))
			return
		}
		if len(thumb) > 0 {
			entry.CoverThumbnail = thumb
		}
		entry.PageCount = doc.PageCount()
		if len(entry.Chapters) == 0 {
			entry.Chapters = toLibraryChapters(s.chapters(doc, log))
		}
		if _, err := s.library.UpdateEntry(ctx, librarydto.UpdateEntryInput{Entry: entry}); err != nil {
			log.Warn("heal: persist", slog.Any("err", err))
			return
		}
		log.Debug("healed entry metadata")
	}()
}

func (s *PipelineService) open(ctx context.Context, raw []byte) (documentout.Document, error) {
	doc, err := s.renderer.Open(ctx, raw)
	if err != nil {
		if errors.Is(err, apperrors.ErrDocumentUnreadable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDocumentUnreadable, err)
	}
	if doc.PageCount() < 1 {
		_ = doc.Close()
		return nil, fmt.Errorf("%w: document has no pages", apperrors.ErrDocumentUnreadable)
	}
	return doc, nil
}

func (s *PipelineService) chapters(doc documentout.Document, log *slog.Logger) []domain.Chapter {
	items, err := doc.Outline()
	if err != nil {
		log.Warn("read outline", slog.Any("err", err))
		return nil
	}
	resolutions := domain.ResolveOutline(items, doc.PageCount(), doc.ResolveDestination)
	skipped := 0
	for _, r := range resolutions {
		if !r.Resolved() {
			skipped++
		}
	}
	if skipped > 0 {
		log.Debug("outline nodes skipped", slog.Int("skipped", skipped), slog.Int("total", len(resolutions)))
	}
	return domain.Flatten(resolutions)
}

// ClampPage keeps page within [1, pageCount].
func ClampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if pageCount > 0 && page > pageCount {
		return pageCount
	}
	return page
}

func closeQuietly(doc documentout.Document, log *slog.Logger) {
	if err := doc.Close(); err != nil {
		log.Warn("close document", slog.Any("err", err))
	}
}

func toLibraryChapters(in []domain.Chapter) []librarydto.ChapterOutput {
	out := make([]librarydto.ChapterOutput, 0, len(in))
	for _, c := range in {
		out = append(out, librarydto.ChapterOutput{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	return out
}

func toDTOChapters(in []domain.Chapter) []dto.Chapter {
	out := make([]dto.Chapter, 0, len(in))
	for _, c := range in {
		out = append(out, dto.Chapter{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	return out
}

func toEntryOutput(entry librarydto.EntryOutput) dto.EntryOutput {
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
	}
}

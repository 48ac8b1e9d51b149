package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"folio/internal/modules/annotation/domain"
	annotationout "folio/internal/modules/annotation/port/out"
	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/id"
	"folio/internal/platform/markdown"
	"folio/internal/platform/tx"
)

type AnnotationService struct {
	store    annotationout.Store
	library  annotationout.Library
	exporter annotationout.Exporter
	tx       tx.Manager
	clock    clock.Clock
	ids      id.Generator
}

func NewAnnotationService(
	store annotationout.Store,
	library annotationout.Library,
	exporter annotationout.Exporter,
	txManager tx.Manager,
	clk clock.Clock,
	ids id.Generator,
) *AnnotationService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &AnnotationService{store: store, library: library, exporter: exporter, tx: txManager, clock: clk, ids: ids}
}

// ToggleBookmark adds a bookmark on the page or removes the one already
// there. It reports whether the page is bookmarked afterwards.
func (s *AnnotationService) ToggleBookmark(ctx context.Context, documentID string, page int) (domain.Bookmark, bool, error) {
	if err := s.checkPage(ctx, documentID, page); err != nil {
		return domain.Bookmark{}, false, err
	}
	var (
		bookmark   domain.Bookmark
		bookmarked bool
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := s.store.FindBookmark(ctx, documentID, page)
		switch {
		case err == nil:
			bookmark = existing
			return s.store.DeleteBookmark(ctx, existing.ID)
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}
		bookmark = domain.Bookmark{ID: s.ids.New(), DocumentID: documentID, Page: page, CreatedAt: s.clock.Now()}
		bookmarked = true
		return s.store.PutBookmark(ctx, bookmark)
	})
	if err != nil {
		return domain.Bookmark{}, false, err
	}
	return bookmark, bookmarked, nil
}

func (s *AnnotationService) ListBookmarks(ctx context.Context, documentID string) ([]domain.Bookmark, error) {
	return s.store.ListBookmarks(ctx, documentID)
}

func (s *AnnotationService) AddNote(ctx context.Context, documentID string, page int, color, text string) (domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Note{}, fmt.Errorf("%w: note text is required", apperrors.ErrInvalidInput)
	}
	c, ok := domain.ParseColor(color)
	if !ok {
		return domain.Note{}, fmt.Errorf("%w: unknown note color %q", apperrors.ErrInvalidInput, color)
	}
	if err := s.checkPage(ctx, documentID, page); err != nil {
		return domain.Note{}, err
	}
	note := domain.Note{ID: s.ids.New(), DocumentID: documentID, Page: page, Color: c, Text: text, CreatedAt: s.clock.Now()}
	if err := s.store.PutNote(ctx, note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *AnnotationService) ListNotes(ctx context.Context, documentID string) ([]domain.Note, error) {
	return s.store.ListNotes(ctx, documentID)
}

func (s *AnnotationService) DeleteNote(ctx context.Context, id string) error {
	return s.store.DeleteNote(ctx, id)
}

func (s *AnnotationService) DeleteForDocument(ctx context.Context, documentID string) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		return s.store.DeleteForDocument(ctx, documentID)
	})
}

// RenderNotes renders the document's notes as markdown with a YAML header,
// one section per page and one subsection per color.
func (s *AnnotationService) RenderNotes(ctx context.Context, documentID string) (string, int, error) {
	doc, err := s.library.Document(ctx, documentID)
	if err != nil {
		return "", 0, err
	}
	notes, err := s.store.ListNotes(ctx, documentID)
	if err != nil {
		return "", 0, err
	}
	out := markdown.NewDocument(map[string]any{
		"document":    doc.Title,
		"document_id": documentID,
		"exported_at": s.clock.Now().Format(time.RFC3339),
		"note_count":  len(notes),
	})
	out.Heading(1, "Notes: "+doc.Title)
	if len(notes) == 0 {
		out.Paragraph("No notes yet.")
	}
	for _, page := range domain.GroupNotes(notes) {
		out.Heading(2, fmt.Sprintf("Page %d", page.Page))
		for _, color := range domain.Colors {
			group := page.ByColor[color]
			if len(group) == 0 {
				continue
			}
			out.Heading(3, string(color))
			for _, n := range group {
				out.Quote(n.Text)
			}
		}
	}
	rendered, err := out.Render()
	if err != nil {
		return "", 0, err
	}
	return rendered, len(notes), nil
}

func (s *AnnotationService) ExportNotes(ctx context.Context, documentID, path string) (string, int, error) {
	rendered, count, err := s.RenderNotes(ctx, documentID)
	if err != nil {
		return "", 0, err
	}
	doc, err := s.library.Document(ctx, documentID)
	if err != nil {
		return "", 0, err
	}
	written, err := s.exporter.Write(ctx, path, doc.Title+" notes", rendered)
	if err != nil {
		return "", 0, err
	}
	return written, count, nil
}

func (s *AnnotationService) checkPage(ctx context.Context, documentID string, page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1", apperrors.ErrInvalidInput)
	}
	doc, err := s.library.Document(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.PageCount > 0 && page > doc.PageCount {
		return fmt.Errorf("%w: page %d of %d", apperrors.ErrInvalidInput, page, doc.PageCount)
	}
	return nil
}

package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	documentout "folio/internal/modules/document/adapter/out"
	"folio/internal/modules/document/domain"
	"folio/internal/modules/document/dto"
	documentin "folio/internal/modules/document/port/in"
	docport "folio/internal/modules/document/port/out"
	"folio/internal/modules/document/service"
	"folio/internal/modules/document/usecase"
	libraryout "folio/internal/modules/library/adapter/out"
	librarydto "folio/internal/modules/library/dto"
	libraryin "folio/internal/modules/library/port/in"
	libraryservice "folio/internal/modules/library/service"
	libraryusecase "folio/internal/modules/library/usecase"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/id"
	"folio/internal/platform/sqlitedb"
	"folio/internal/platform/tx"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeRenderer struct {
	mu         sync.Mutex
	pages      int
	outline    []domain.OutlineItem
	names      map[string]int
	outlineErr error
	renderErr  error
	opens      int
}

func (r *fakeRenderer) Open(_ context.Context, data []byte) (docport.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opens++
	if bytes.HasPrefix(data, []byte("corrupt")) {
		return nil, errors.New("xref table missing")
	}
	return &fakeDoc{r: r, pages: r.pages, renderErr: r.renderErr}, nil
}

func (r *fakeRenderer) setRenderErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderErr = err
}

type fakeDoc struct {
	r         *fakeRenderer
	pages     int
	renderErr error
}

func (d *fakeDoc) PageCount() int { return d.pages }
func (d *fakeDoc) Close() error   { return nil }

func (d *fakeDoc) Page(n int) (dto.Page, error) {
	if n < 1 || n > d.pages {
		return nil, apperrors.ErrNotFound
	}
	return fakePage{n: n, err: d.renderErr}, nil
}

func (d *fakeDoc) Outline() ([]domain.OutlineItem, error) {
	return d.r.outline, d.r.outlineErr
}

func (d *fakeDoc) ResolveDestination(name string) (int, error) {
	index, ok := d.r.names[name]
	if !ok {
		return -1, apperrors.ErrNotFound
	}
	return index, nil
}

type fakePage struct {
	n   int
	err error
}

func (p fakePage) Number() int              { return p.n }
func (p fakePage) Size() (float64, float64) { return 100, 150 }
func (p fakePage) Text() (string, error)    { return "  page " + string(rune('0'+p.n)) + " text \n", nil }
func (p fakePage) Render(_ context.Context, dst draw.Image, _ dto.Viewport) error {
	if p.err != nil {
		return p.err
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Gray{Y: 200}), image.Point{}, draw.Src)
	return nil
}

type fixture struct {
	svc      *service.PipelineService
	docs     documentin.Usecase
	library  libraryin.Usecase
	renderer *fakeRenderer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWithIDs(t, id.Derived)
}

func newFixtureWithIDs(t *testing.T, newID service.IDFunc) fixture {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := libraryout.NewSQLiteStore(db)
	library := libraryusecase.NewInteractor(libraryservice.NewLibraryService(store, store, tx.NewSQLManager(db)))
	renderer := &fakeRenderer{
		pages: 3,
		outline: []domain.OutlineItem{
			{Title: "One", Dest: domain.PageDestination(0)},
			{Title: "Lost", Dest: domain.NamedDestination("nowhere")},
			{Title: "Three", Dest: domain.NamedDestination("three")},
		},
		names: map[string]int{"three": 2},
	}
	clock := fixedClock{now: time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)}
	svc := service.NewPipelineService(documentout.NewLibraryAdapter(library), renderer, clock, newID, 40, nil)
	return fixture{svc: svc, docs: usecase.NewInteractor(svc), library: library, renderer: renderer}
}

func TestImportPersistsPageCountThumbnailAndChapters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	out, err := f.docs.Import(ctx, dto.ImportInput{DisplayName: "Field Guide", Bytes: []byte("%PDF-1.4"), Tags: []string{"Birds"}})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.HasPrefix(out.ID, "field-guide-") {
		t.Fatalf("expected id derived from name, got %q", out.ID)
	}
	if out.PageCount != 3 || !out.HasThumbnail || out.LastPageRead != 1 {
		t.Fatalf("unexpected import output: %+v", out)
	}
	if len(out.Chapters) != 2 || out.Chapters[0].Title != "One" || out.Chapters[1].Page != 3 {
		t.Fatalf("unexpected chapters: %+v", out.Chapters)
	}

	stored, err := f.library.GetEntry(ctx, out.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(stored.CoverThumbnail))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 60 {
		t.Fatalf("expected 40x60 thumbnail, got %v", img.Bounds())
	}
	if len(stored.Tags) != 1 || stored.Tags[0] != "birds" {
		t.Fatalf("unexpected tags: %v", stored.Tags)
	}
}

func TestImportSurvivesThumbnailAndOutlineFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.renderer.renderErr = errors.New("viewport allocation failed")
	f.renderer.outlineErr = errors.New("outline dictionary damaged")

	out, err := f.docs.Import(ctx, dto.ImportInput{DisplayName: "Damaged", Bytes: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.HasThumbnail || len(out.Chapters) != 0 || out.PageCount != 3 {
		t.Fatalf("unexpected output: %+v", out)
	}
	opened, err := f.docs.Open(ctx, out.ID)
	if err != nil {
		t.Fatalf("open after degraded import: %v", err)
	}
	defer opened.Handle.Close()
	f.svc.Wait()
}

func TestImportOfCorruptBytesLeavesNoEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.docs.Import(ctx, dto.ImportInput{DisplayName: "Bad", Bytes: []byte("corrupt stream")})
	if !errors.Is(err, apperrors.ErrDocumentUnreadable) {
		t.Fatalf("expected unreadable, got %v", err)
	}
	entries, err := f.library.ListEntries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
	if _, err := f.docs.Import(ctx, dto.ImportInput{DisplayName: " ", Bytes: []byte("%PDF")}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
}

func TestOpenStartsAtLastPageAndHealsThumbnail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.renderer.setRenderErr(errors.New("no memory"))

	out, err := f.docs.Import(ctx, dto.ImportInput{DisplayName: "Healing", Bytes: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.HasThumbnail {
		t.Fatalf("expected thumbnail to be missing")
	}
	if err := f.library.RecordProgress(ctx, librarydto.RecordProgressInput{ID: out.ID, Page: 9, OpenedAt: time.Now()}); err != nil {
		t.Fatalf("record progress: %v", err)
	}

	f.renderer.setRenderErr(nil)
	opened, err := f.docs.Open(ctx, out.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer opened.Handle.Close()
	if opened.CurrentPage != 3 || opened.PageCount != 3 {
		t.Fatalf("expected last page clamped to 3, got %d of %d", opened.CurrentPage, opened.PageCount)
	}
	if len(opened.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %+v", opened.Chapters)
	}

	f.svc.Wait()
	healed, err := f.library.GetEntry(ctx, out.ID)
	if err != nil {
		t.Fatalf("get healed: %v", err)
	}
	if len(healed.CoverThumbnail) == 0 {
		t.Fatalf("expected thumbnail to be regenerated")
	}
	if healed.LastPageRead != 9 {
		t.Fatalf("healing must not touch progress, got page %d", healed.LastPageRead)
	}

	text, err := f.docs.PageText(ctx, opened.Handle, 2)
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if text != "page 2 text" {
		t.Fatalf("unexpected text %q", text)
	}
	if _, err := f.docs.PageText(ctx, nil, 1); !errors.Is(err, apperrors.ErrNoOpenDocument) {
		t.Fatalf("expected no open document, got %v", err)
	}
}

func TestOpenMissingEntry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.docs.Open(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestImportDrawsNewIDAfterCollision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var mu sync.Mutex
	ids := []string{"guide", "guide", "guide-2"}
	f := newFixtureWithIDs(t, func(string, time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		next := ids[0]
		ids = ids[1:]
		return next
	})

	first, err := f.docs.Import(ctx, dto.ImportInput{DisplayName: "Guide", Bytes: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if err := f.library.RecordProgress(ctx, librarydto.RecordProgressInput{ID: first.ID, Page: 3, OpenedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	second, err := f.docs.Import(ctx, dto.ImportInput{DisplayName: "Guide", Bytes: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if first.ID != "guide" || second.ID != "guide-2" {
		t.Fatalf("unexpected ids %q and %q", first.ID, second.ID)
	}
	kept, err := f.library.GetEntry(ctx, "guide")
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if kept.LastPageRead != 3 {
		t.Fatalf("first entry lost its progress: %+v", kept)
	}
}

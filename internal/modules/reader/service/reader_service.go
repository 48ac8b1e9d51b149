package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	docdto "folio/internal/modules/document/dto"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/logging"
)

// ReaderService owns the open document, its gesture state and the two page
// surfaces. State changes happen under one lock; rendering runs after the
// lock is released, ordered by render tickets taken while it was held.
type ReaderService struct {
	documents readerout.Documents
	session   readerout.Session
	renders   *RenderManager
	surfaces  [2]readerout.Surface
	gesture   domain.GestureConfig
	logger    *slog.Logger

	mu      sync.Mutex
	display domain.Display
	current *openDocument
	overlay bool
}

type openDocument struct {
	state   domain.OpenSession
	handle  docdto.Handle
	gesture domain.GestureState
}

type renderJob struct {
	ticket Ticket
	req    PageRequest
	blank  bool
}

func NewReaderService(
	documents readerout.Documents,
	session readerout.Session,
	cache readerout.BitmapCache,
	primary, secondary readerout.Surface,
	gesture domain.GestureConfig,
	display domain.Display,
	logger *slog.Logger,
) *ReaderService {
	logger = logging.For(logger, "reader")
	if session == nil {
		session = noopSession{}
	}
	return &ReaderService{
		documents: documents,
		session:   session,
		renders:   NewRenderManager(cache, logger),
		surfaces:  [2]readerout.Surface{primary, secondary},
		gesture:   gesture,
		logger:    logger,
		display:   display,
	}
}

// Open loads a library document and renders its last read page. Any document
// already open is closed first.
func (s *ReaderService) Open(ctx context.Context, id string) (domain.OpenSession, error) {
	if err := s.Close(ctx); err != nil {
		return domain.OpenSession{}, err
	}
	s.session.SetLoading(true)
	out, err := s.documents.Open(ctx, id)
	s.session.SetLoading(false)
	if err != nil {
		return domain.OpenSession{}, err
	}

	chapters := make([]domain.Chapter, 0, len(out.Chapters))
	for _, c := range out.Chapters {
		chapters = append(chapters, domain.Chapter{ID: c.ID, Title: c.Title, Page: c.Page})
	}
	s.mu.Lock()
	state := domain.NewOpenSession(out.Entry.ID, out.Entry.DisplayName, out.PageCount, out.CurrentPage, s.display, chapters)
	s.current = &openDocument{state: state, handle: out.Handle}
	jobs := s.planLocked()
	s.renders.SetFilter(domain.FilterFor(s.display.Theme), s.surfaces[:]...)
	s.mu.Unlock()

	if err := s.session.Start(ctx, id, state.CurrentPage, out.Entry.TotalTimeSeconds); err != nil {
		s.logger.Warn("start reading session", slog.String("document", id), slog.Any("err", err))
	}
	s.run(ctx, jobs)
	return state, nil
}

// Close releases the open document. Closing with nothing open is a no-op.
func (s *ReaderService) Close(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.current = nil
	var blanks []renderJob
	if current != nil {
		for _, surface := range s.surfaces {
			blanks = append(blanks, renderJob{ticket: s.renders.Reserve(surface), blank: true})
		}
	}
	s.mu.Unlock()
	if current == nil {
		return nil
	}

	if err := s.session.Stop(ctx); err != nil {
		s.logger.Warn("stop reading session", slog.String("document", current.state.DocumentID), slog.Any("err", err))
	}
	s.run(ctx, blanks)
	s.renders.Purge(current.state.DocumentID)
	if err := current.handle.Close(); err != nil {
		return fmt.Errorf("close document %s: %w", current.state.DocumentID, err)
	}
	return nil
}

func (s *ReaderService) GoTo(ctx context.Context, page int) (domain.OpenSession, error) {
	return s.navigate(ctx, func(state *domain.OpenSession) bool { return state.GoTo(page) })
}

func (s *ReaderService) Next(ctx context.Context) (domain.OpenSession, error) {
	return s.navigate(ctx, func(state *domain.OpenSession) bool { return state.Turn(domain.DirectionNext) })
}

func (s *ReaderService) Prev(ctx context.Context) (domain.OpenSession, error) {
	return s.navigate(ctx, func(state *domain.OpenSession) bool { return state.Turn(domain.DirectionPrev) })
}

func (s *ReaderService) JumpToChapter(ctx context.Context, index int) (domain.OpenSession, error) {
	return s.navigate(ctx, func(state *domain.OpenSession) bool {
		if index < 0 || index >= len(state.Chapters) {
			return false
		}
		return state.GoTo(state.Chapters[index].Page)
	})
}

func (s *ReaderService) navigate(ctx context.Context, move func(*domain.OpenSession) bool) (domain.OpenSession, error) {
	s.session.Activity()
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return domain.OpenSession{}, apperrors.ErrNoOpenDocument
	}
	changed := move(&s.current.state)
	state := s.current.state
	var jobs []renderJob
	if changed {
		jobs = s.planLocked()
	}
	s.mu.Unlock()

	if changed {
		s.session.PageTurned(ctx, state.CurrentPage)
		s.run(ctx, jobs)
	}
	return state, nil
}

// Apply replaces the display settings. A change that only swaps the theme
// updates the display filter and rasterizes nothing.
func (s *ReaderService) Apply(ctx context.Context, next domain.Display) (domain.Display, error) {
	return s.Update(ctx, func(domain.Display) (domain.Display, error) { return next, nil })
}

// Update derives the next display settings from the current ones under the
// service lock, so concurrent edits apply one after the other. The surface
// filter is switched before the lock is released.
func (s *ReaderService) Update(ctx context.Context, edit func(domain.Display) (domain.Display, error)) (domain.Display, error) {
	s.mu.Lock()
	prev := s.display
	next, err := edit(prev)
	if err == nil {
		if verr := next.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, verr)
		}
	}
	if err != nil {
		s.mu.Unlock()
		return prev, err
	}
	s.display = next
	var jobs []renderJob
	if s.current != nil {
		s.current.state.Display = next
		if prev.Rasterized(next) {
			jobs = s.planLocked()
		}
	}
	if prev.Theme != next.Theme {
		s.renders.SetFilter(domain.FilterFor(next.Theme), s.surfaces[:]...)
	}
	s.mu.Unlock()

	s.run(ctx, jobs)
	return next, nil
}

func (s *ReaderService) Display() domain.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// PointerDown starts a page drag if x lies in an edge zone, a document is
// open and no overlay covers it.
func (s *ReaderService) PointerDown(x, width float64) bool {
	s.session.Activity()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.overlay {
		return false
	}
	return s.current.gesture.Begin(x, width, s.gesture)
}

func (s *ReaderService) PointerMove(x float64) {
	s.session.Activity()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.gesture.Move(x)
	}
}

// PointerUp resolves the drag. The page turn, if any, is applied before the
// render pass reads the current page.
func (s *ReaderService) PointerUp(ctx context.Context) (domain.Direction, error) {
	s.session.Activity()
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return domain.DirectionNone, nil
	}
	dir := s.current.gesture.Release(s.gesture)
	changed := s.current.state.Turn(dir)
	page := s.current.state.CurrentPage
	var jobs []renderJob
	if changed {
		jobs = s.planLocked()
	}
	s.mu.Unlock()

	if changed {
		s.session.PageTurned(ctx, page)
		s.run(ctx, jobs)
	}
	return dir, nil
}

// PointerLeave counts as a release so a drag can never be left hanging.
func (s *ReaderService) PointerLeave(ctx context.Context) (domain.Direction, error) {
	return s.PointerUp(ctx)
}

// SetOverlay records whether a modal overlay is open. Opening one cancels a
// drag in progress.
func (s *ReaderService) SetOverlay(open bool) {
	s.mu.Lock()
	s.overlay = open
	if open && s.current != nil {
		s.current.gesture = domain.GestureState{}
	}
	s.mu.Unlock()
	s.session.SetOverlay(open)
}

func (s *ReaderService) CurrentPageText(ctx context.Context) (int, string, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return 0, "", apperrors.ErrNoOpenDocument
	}
	handle := s.current.handle
	page := s.current.state.CurrentPage
	s.mu.Unlock()
	text, err := s.documents.PageText(ctx, handle, page)
	return page, text, err
}

// Snapshot returns the open session and gesture state, with ok false when no
// document is open.
func (s *ReaderService) Snapshot() (domain.OpenSession, domain.GestureState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.OpenSession{Display: s.display}, domain.GestureState{}, false
	}
	return s.current.state, s.current.gesture, true
}

func (s *ReaderService) Surfaces() [2]readerout.Surface {
	return s.surfaces
}

// planLocked builds one job per surface for the current state and reserves
// their tickets. s.mu must be held.
func (s *ReaderService) planLocked() []renderJob {
	state := s.current.state
	jobs := []renderJob{{
		ticket: s.renders.Reserve(s.surfaces[0]),
		req:    PageRequest{DocumentID: state.DocumentID, Handle: s.current.handle, Page: state.CurrentPage, Display: state.Display},
	}}
	second := renderJob{ticket: s.renders.Reserve(s.surfaces[1]), blank: true}
	if page, ok := state.SecondPage(); ok {
		second.blank = false
		second.req = PageRequest{DocumentID: state.DocumentID, Handle: s.current.handle, Page: page, Display: state.Display}
	}
	return append(jobs, second)
}

func (s *ReaderService) run(ctx context.Context, jobs []renderJob) {
	for _, job := range jobs {
		if job.blank {
			s.renders.Blank(job.ticket)
			continue
		}
		// Failures are logged by the render manager; the surface keeps its
		// last good frame.
		_ = s.renders.Render(ctx, job.ticket, job.req)
	}
}

type noopSession struct{}

func (noopSession) Start(context.Context, string, int, int64) error { return nil }
func (noopSession) PageTurned(context.Context, int)                 {}
func (noopSession) SetLoading(bool)                                 {}
func (noopSession) Stop(context.Context) error                      { return nil }
func (noopSession) Activity()                                       {}
func (noopSession) SetOverlay(bool)                                 {}

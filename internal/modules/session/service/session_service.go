package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"folio/internal/modules/session/domain"
	sessionout "folio/internal/modules/session/port/out"
	"folio/internal/platform/clock"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/logging"
	"folio/internal/platform/schedule"
)

// TickInterval is the granularity of the reading clock.
const TickInterval = time.Second

// SessionService runs the reading clock of the open document and flushes it
// to the library on page turns and every flush interval.
type SessionService struct {
	library    sessionout.Library
	scheduler  schedule.Scheduler
	clock      clock.Clock
	flushEvery time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	state   domain.Clock
	handles []schedule.Handle
	ctx     context.Context
	// pending holds clocks of stopped sessions whose last flush failed.
	pending map[string]domain.Clock

	// flushMu keeps a periodic flush and a page turn flush from writing
	// out of order.
	flushMu sync.Mutex
}

func NewSessionService(library sessionout.Library, scheduler schedule.Scheduler, clk clock.Clock, flushEvery time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		library:    library,
		scheduler:  scheduler,
		clock:      clk,
		flushEvery: flushEvery,
		logger:     logging.For(logger, "session"),
		pending:    map[string]domain.Clock{},
	}
}

// Start resets the session counter and seeds the lifetime counter. A clock
// already running for another document is stopped and flushed first. Seconds
// of an earlier session of the same document that never reached the library
// are carried into the new clock.
func (s *SessionService) Start(ctx context.Context, documentID string, page int, lifetimeSeconds int64) (domain.Clock, error) {
	if documentID == "" {
		return domain.Clock{}, fmt.Errorf("%w: document id is required", apperrors.ErrInvalidInput)
	}
	_ = s.Stop(ctx)

	s.mu.Lock()
	loading := s.state.Loading
	s.state = domain.NewClock(documentID, page, lifetimeSeconds)
	s.state.Loading = loading
	if unsaved, ok := s.pending[documentID]; ok {
		delete(s.pending, documentID)
		if unsaved.LifetimeSeconds > s.state.LifetimeSeconds {
			s.state.LifetimeSeconds = unsaved.LifetimeSeconds
			s.state.Dirty = true
		}
	}
	s.ctx = context.WithoutCancel(ctx)
	s.handles = []schedule.Handle{
		s.scheduler.Every(TickInterval, s.Tick),
		s.scheduler.Every(s.flushEvery, s.periodicFlush),
	}
	state := s.state
	s.mu.Unlock()

	_ = s.Flush(ctx)
	return state, nil
}

func (s *SessionService) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tick()
}

func (s *SessionService) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

// PageTurned records the new page and flushes right away. A failed flush is
// logged and retried by the next periodic flush.
func (s *SessionService) PageTurned(ctx context.Context, page int) {
	s.mu.Lock()
	s.state.TurnTo(page)
	s.mu.Unlock()
	_ = s.Flush(ctx)
}

// Flush writes the lifetime counter and reading position if anything changed
// since the last successful flush. Sessions stopped with a failed flush are
// written first.
func (s *SessionService) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	pendingErr := s.flushPending(ctx)

	s.mu.Lock()
	snap := s.state
	s.mu.Unlock()
	if snap.DocumentID == "" || !snap.Dirty {
		return pendingErr
	}

	if err := s.write(ctx, snap); err != nil {
		s.logger.Warn("flush reading session",
			slog.String("document", snap.DocumentID),
			slog.Int("page", snap.Page),
			slog.Any("err", err))
		return errors.Join(pendingErr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DocumentID == snap.DocumentID && s.state.LifetimeSeconds == snap.LifetimeSeconds && s.state.Page == snap.Page {
		s.state.Dirty = false
	}
	return pendingErr
}

func (s *SessionService) flushPending(ctx context.Context) error {
	s.mu.Lock()
	unsaved := make([]domain.Clock, 0, len(s.pending))
	for _, c := range s.pending {
		unsaved = append(unsaved, c)
	}
	s.mu.Unlock()

	var errs []error
	for _, c := range unsaved {
		if err := s.write(ctx, c); err != nil {
			errs = append(errs, err)
			continue
		}
		s.mu.Lock()
		if cur, ok := s.pending[c.DocumentID]; ok && cur == c {
			delete(s.pending, c.DocumentID)
		}
		s.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (s *SessionService) write(ctx context.Context, snap domain.Clock) error {
	if err := s.library.RecordTime(ctx, snap.DocumentID, snap.LifetimeSeconds); err != nil {
		return err
	}
	return s.library.RecordProgress(ctx, snap.DocumentID, snap.Page, s.clock.Now())
}

func (s *SessionService) periodicFlush() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return
	}
	_ = s.Flush(ctx)
}

// Stop releases the scheduled tasks and flushes what is left. Stopping an
// idle clock is a no-op. A clock whose final flush fails is kept for the next
// Flush or Start to retry.
func (s *SessionService) Stop(ctx context.Context) error {
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()
	// Handles wait for a running task, which may need s.mu.
	for _, h := range handles {
		h.Stop()
	}

	err := s.Flush(ctx)

	s.mu.Lock()
	if s.state.DocumentID != "" && s.state.Dirty {
		s.pending[s.state.DocumentID] = s.state
		s.logger.Warn("reading time kept for retry",
			slog.String("document", s.state.DocumentID),
			slog.Int64("lifetime_seconds", s.state.LifetimeSeconds))
	}
	s.state = domain.Clock{Loading: s.state.Loading}
	s.ctx = nil
	s.mu.Unlock()
	return err
}

func (s *SessionService) State() domain.Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	libraryout "folio/internal/modules/library/adapter/out"
	librarydto "folio/internal/modules/library/dto"
	libraryin "folio/internal/modules/library/port/in"
	libraryservice "folio/internal/modules/library/service"
	libraryusecase "folio/internal/modules/library/usecase"
	sessionout "folio/internal/modules/session/adapter/out"
	"folio/internal/modules/session/dto"
	sessionin "folio/internal/modules/session/port/in"
	sessionport "folio/internal/modules/session/port/out"
	"folio/internal/modules/session/service"
	"folio/internal/modules/session/usecase"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/schedule"
	"folio/internal/platform/sqlitedb"
	"folio/internal/platform/tx"
)

const flushEvery = 15 * time.Second

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyLibrary fails writes while down is set.
type flakyLibrary struct {
	sessionport.Library
	mu     sync.Mutex
	down   bool
	writes int
}

func (f *flakyLibrary) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *flakyLibrary) RecordTime(ctx context.Context, id string, total int64) error {
	f.mu.Lock()
	down := f.down
	f.writes++
	f.mu.Unlock()
	if down {
		return apperrors.ErrStorageUnavailable
	}
	return f.Library.RecordTime(ctx, id, total)
}

type fixture struct {
	uc        sessionin.Usecase
	library   libraryin.Usecase
	flaky     *flakyLibrary
	scheduler *schedule.Manual
	clock     *manualClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := libraryout.NewSQLiteStore(db)
	library := libraryusecase.NewInteractor(libraryservice.NewLibraryService(store, store, tx.NewSQLManager(db)))

	clk := &manualClock{now: time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)}
	scheduler := schedule.NewManual()
	flaky := &flakyLibrary{Library: sessionout.NewLibraryAdapter(library)}
	svc := service.NewSessionService(flaky, scheduler, clk, flushEvery, nil)
	focus := service.NewFocusService(scheduler, clk, 4*time.Second)
	streak := service.NewStreakService(sessionout.NewSQLiteStreakStore(db), clk)
	return fixture{
		uc:        usecase.NewInteractor(svc, focus, streak, nil),
		library:   library,
		flaky:     flaky,
		scheduler: scheduler,
		clock:     clk,
	}
}

func (f fixture) register(t *testing.T, id string, seconds int64) {
	t.Helper()
	ctx := context.Background()
	_, err := f.library.Register(ctx, librarydto.RegisterInput{
		ID:          id,
		DisplayName: id,
		Bytes:       []byte("%PDF-1.4"),
		PageCount:   20,
		AddedAt:     f.clock.Now(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := f.library.RecordTime(ctx, librarydto.RecordTimeInput{ID: id, TotalSeconds: seconds}); err != nil {
		t.Fatalf("seed time: %v", err)
	}
}

func (f fixture) tick(n int) {
	for i := 0; i < n; i++ {
		f.clock.Advance(time.Second)
		f.scheduler.Fire(service.TickInterval)
	}
}

func TestTenTicksAddTenSeconds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "atlas", 300)

	out, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 2, TotalSeconds: 300})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !out.Active || out.SessionSeconds != 0 || out.TotalSeconds != 300 {
		t.Fatalf("unexpected start status: %+v", out)
	}
	if f.scheduler.Live() != 3 {
		t.Fatalf("expected tick, flush and focus tasks, got %d", f.scheduler.Live())
	}

	f.tick(10)
	status := f.uc.Status()
	if status.SessionSeconds != 10 || status.TotalSeconds != 310 {
		t.Fatalf("expected 10/310 seconds, got %d/%d", status.SessionSeconds, status.TotalSeconds)
	}

	f.uc.PageTurned(ctx, 3)
	entry, err := f.library.GetEntry(ctx, "atlas")
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.TotalTimeSeconds != 310 || entry.LastPageRead != 3 {
		t.Fatalf("page turn did not flush: seconds=%d page=%d", entry.TotalTimeSeconds, entry.LastPageRead)
	}
	if !entry.LastOpenedAt.Equal(f.clock.Now()) {
		t.Fatalf("expected last opened %v, got %v", f.clock.Now(), entry.LastOpenedAt)
	}

	f.tick(5)
	if err := f.uc.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if f.scheduler.Live() != 0 {
		t.Fatalf("stop leaked %d scheduled tasks", f.scheduler.Live())
	}
	entry, _ = f.library.GetEntry(ctx, "atlas")
	if entry.TotalTimeSeconds != 315 {
		t.Fatalf("stop did not flush remaining time: %d", entry.TotalTimeSeconds)
	}

	if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 3, TotalSeconds: entry.TotalTimeSeconds}); err != nil {
		t.Fatalf("restart: %v", err)
	}
	f.tick(1)
	if status := f.uc.Status(); status.SessionSeconds != 1 || status.TotalSeconds != 316 {
		t.Fatalf("session counter not reset on open: %+v", status)
	}
}

func TestLoadingSuppressesTicks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "atlas", 0)
	if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.uc.SetLoading(true)
	f.tick(30)
	f.uc.SetLoading(false)
	f.tick(2)
	if status := f.uc.Status(); status.TotalSeconds != 2 {
		t.Fatalf("loading time counted: %+v", status)
	}
}

func TestFlushFailureIsRetried(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "atlas", 0)
	if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.tick(4)
	f.flaky.setDown(true)
	f.uc.PageTurned(ctx, 2)
	if err := f.uc.Flush(ctx); !errors.Is(err, apperrors.ErrStorageUnavailable) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if status := f.uc.Status(); status.Page != 2 {
		t.Fatalf("navigation state lost on failed flush: %+v", status)
	}

	f.flaky.setDown(false)
	f.scheduler.Fire(flushEvery)
	entry, err := f.library.GetEntry(ctx, "atlas")
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.TotalTimeSeconds != 4 || entry.LastPageRead != 2 {
		t.Fatalf("retry did not persist: seconds=%d page=%d", entry.TotalTimeSeconds, entry.LastPageRead)
	}

	f.flaky.mu.Lock()
	before := f.flaky.writes
	f.flaky.mu.Unlock()
	f.scheduler.Fire(flushEvery)
	f.flaky.mu.Lock()
	defer f.flaky.mu.Unlock()
	if f.flaky.writes != before {
		t.Fatalf("clean state should not be flushed again")
	}
}

func TestFailedStopFlushKeepsSecondsForRetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "atlas", 0)
	f.register(t, "globe", 0)

	if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 1}); err != nil {
		t.Fatalf("start atlas: %v", err)
	}
	f.tick(6)
	f.flaky.setDown(true)
	if err := f.uc.Stop(ctx); !errors.Is(err, apperrors.ErrStorageUnavailable) {
		t.Fatalf("expected storage failure on stop, got %v", err)
	}
	f.flaky.setDown(false)

	// Reading another document retries the stopped session.
	if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "globe", Page: 1}); err != nil {
		t.Fatalf("start globe: %v", err)
	}
	entry, err := f.library.GetEntry(ctx, "atlas")
	if err != nil {
		t.Fatalf("get atlas: %v", err)
	}
	if entry.TotalTimeSeconds != 6 {
		t.Fatalf("expected 6 retried seconds, got %d", entry.TotalTimeSeconds)
	}
}

func TestReopeningCarriesUnsavedSeconds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "atlas", 10)

	if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 1, TotalSeconds: 10}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.tick(5)
	f.flaky.setDown(true)
	if err := f.uc.Stop(ctx); err == nil {
		t.Fatalf("expected stop to report the failed flush")
	}
	f.flaky.setDown(false)

	// The library still says 10 seconds; the reopened clock continues from 15.
	status, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 1, TotalSeconds: 10})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if status.TotalSeconds != 15 {
		t.Fatalf("expected lifetime 15, got %d", status.TotalSeconds)
	}
	entry, err := f.library.GetEntry(ctx, "atlas")
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if entry.TotalTimeSeconds != 15 {
		t.Fatalf("expected 15 persisted seconds, got %d", entry.TotalTimeSeconds)
	}
}

func TestFocusMonitor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "atlas", 0)

	f.tick(10)
	if f.uc.Status().Declutter {
		t.Fatalf("monitor must be inert without a document")
	}
	if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.tick(3)
	if f.uc.Status().Declutter {
		t.Fatalf("declutter before idle threshold")
	}
	f.tick(1)
	if !f.uc.Status().Declutter {
		t.Fatalf("expected declutter after idle threshold")
	}
	f.uc.Activity()
	if f.uc.Status().Declutter {
		t.Fatalf("activity must reset declutter")
	}

	f.uc.SetOverlay(true)
	f.tick(10)
	if f.uc.Status().Declutter {
		t.Fatalf("overlay must keep chrome visible")
	}
	f.uc.SetOverlay(false)
	f.tick(4)
	if !f.uc.Status().Declutter {
		t.Fatalf("expected declutter once the overlay closed")
	}
	if err := f.uc.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if f.uc.Status().Declutter {
		t.Fatalf("closing the document must show chrome")
	}
}

func TestStreakAcrossDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "atlas", 0)
	open := func() {
		t.Helper()
		if _, err := f.uc.Start(ctx, dto.StartInput{DocumentID: "atlas", Page: 1}); err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := f.uc.Stop(ctx); err != nil {
			t.Fatalf("stop: %v", err)
		}
	}
	expect := func(current, longest int) {
		t.Helper()
		s, err := f.uc.Streak(ctx)
		if err != nil {
			t.Fatalf("streak: %v", err)
		}
		if s.Current != current || s.Longest != longest {
			t.Fatalf("expected %d/%d, got %d/%d", current, longest, s.Current, s.Longest)
		}
	}

	expect(0, 0)
	open()
	open()
	expect(1, 1)
	f.clock.Advance(24 * time.Hour)
	open()
	expect(2, 2)
	f.clock.Advance(72 * time.Hour)
	open()
	expect(1, 2)
}

func TestStartRequiresDocument(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.uc.Start(context.Background(), dto.StartInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if f.scheduler.Live() != 0 {
		t.Fatalf("no task should be scheduled")
	}
}

package in

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"folio/internal/modules/document/dto"
	documentin "folio/internal/modules/document/port/in"
	"folio/internal/platform/logging"
)

const (
	importedDir = "imported"
	failedDir   = "failed"
)

// InboxWatcher imports PDF files dropped into a directory. A file is picked up
// once it has not changed for the settle period, then moved to imported/ or
// failed/ so it is never imported twice.
type InboxWatcher struct {
	usecase documentin.Usecase
	dir     string
	tags    []string
	settle  time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

func NewInboxWatcher(usecase documentin.Usecase, dir string, tags []string, settle time.Duration, logger *slog.Logger) *InboxWatcher {
	if settle <= 0 {
		settle = time.Second
	}
	return &InboxWatcher{
		usecase: usecase,
		dir:     dir,
		tags:    tags,
		settle:  settle,
		logger:  logging.For(logger, "inbox"),
		pending: map[string]time.Time{},
	}
}

// Run watches until ctx is cancelled. Files already in the inbox are queued
// on start.
func (w *InboxWatcher) Run(ctx context.Context) error {
	for _, sub := range []string{importedDir, failedDir} {
		if err := os.MkdirAll(filepath.Join(w.dir, sub), 0o755); err != nil {
			return fmt.Errorf("prepare inbox: %w", err)
		}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start inbox watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch inbox %s: %w", w.dir, err)
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	now := time.Now()
	for _, entry := range entries {
		if !entry.IsDir() {
			w.track(filepath.Join(w.dir, entry.Name()), now)
		}
	}

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.track(event.Name, time.Now())
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("err", err))
		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				w.importFile(ctx, path)
			}
		}
	}
}

func (w *InboxWatcher) track(path string, at time.Time) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return
	}
	w.mu.Lock()
	w.pending[path] = at
	w.mu.Unlock()
}

func (w *InboxWatcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

func (w *InboxWatcher) importFile(ctx context.Context, path string) {
	log := w.logger.With(slog.String("file", filepath.Base(path)))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("read inbox file", slog.Any("err", err))
		return
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	entry, err := w.usecase.Import(ctx, dto.ImportInput{DisplayName: name, Bytes: raw, Tags: w.tags})
	target := importedDir
	if err != nil {
		target = failedDir
		log.Warn("import inbox file", slog.Any("err", err))
	} else {
		log.Info("imported inbox file", slog.String("document", entry.ID), slog.Int("pages", entry.PageCount))
	}
	if err := os.Rename(path, filepath.Join(w.dir, target, filepath.Base(path))); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("move inbox file", slog.Any("err", err))
	}
}

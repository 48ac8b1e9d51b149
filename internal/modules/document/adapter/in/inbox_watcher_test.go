package in_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	docin "folio/internal/modules/document/adapter/in"
	"folio/internal/modules/document/dto"
)

type recordingUsecase struct {
	mu      sync.Mutex
	imports []dto.ImportInput
	fail    map[string]bool
}

func (r *recordingUsecase) Import(_ context.Context, input dto.ImportInput) (dto.EntryOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append(r.imports, input)
	if r.fail[input.DisplayName] {
		return dto.EntryOutput{}, errors.New("unreadable")
	}
	return dto.EntryOutput{ID: input.DisplayName + "-id", DisplayName: input.DisplayName, PageCount: 1}, nil
}

func (r *recordingUsecase) Open(context.Context, string) (dto.OpenOutput, error) {
	return dto.OpenOutput{}, nil
}

func (r *recordingUsecase) PageText(context.Context, dto.Handle, int) (string, error) {
	return "", nil
}

func (r *recordingUsecase) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.imports)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestInboxImportsExistingAndNewPDFs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "early.pdf"), []byte("%PDF-early"), 0o644); err != nil {
		t.Fatalf("write early: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	uc := &recordingUsecase{fail: map[string]bool{"broken": true}}
	w := docin.NewInboxWatcher(uc, dir, []string{"inbox"}, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, func() bool { return exists(filepath.Join(dir, "imported", "early.pdf")) })
	if err := os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write broken: %v", err)
	}
	waitFor(t, func() bool { return exists(filepath.Join(dir, "failed", "broken.pdf")) })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if !exists(filepath.Join(dir, "notes.txt")) {
		t.Fatalf("non-pdf file should stay in place")
	}
	if got := uc.count(); got != 2 {
		t.Fatalf("expected 2 imports, got %d", got)
	}
	if uc.imports[0].DisplayName != "early" || len(uc.imports[0].Tags) != 1 || uc.imports[0].Tags[0] != "inbox" {
		t.Fatalf("unexpected first import: %+v", uc.imports[0])
	}
}

package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	narrationout "folio/internal/modules/narration/port/out"
	"folio/internal/modules/narration/service"
	"folio/internal/modules/narration/usecase"
	apperrors "folio/internal/platform/errors"
)

type fakePages struct {
	page int
	text string
	err  error
}

func (f *fakePages) CurrentPageText(context.Context) (int, string, error) {
	return f.page, f.text, f.err
}

type fakeSpeech struct {
	done     chan error
	once     sync.Once
	canceled bool
}

func (s *fakeSpeech) Wait() error { return <-s.done }

func (s *fakeSpeech) Cancel() {
	s.canceled = true
	s.finish(nil)
}

func (s *fakeSpeech) finish(err error) {
	s.once.Do(func() { s.done <- err; close(s.done) })
}

type fakeSpeaker struct {
	mu         sync.Mutex
	utterances []narrationout.Utterance
	speeches   []*fakeSpeech
	err        error
}

func (f *fakeSpeaker) Speak(_ context.Context, u narrationout.Utterance) (narrationout.Speech, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sp := &fakeSpeech{done: make(chan error, 1)}
	f.utterances = append(f.utterances, u)
	f.speeches = append(f.speeches, sp)
	return sp, nil
}

func (f *fakeSpeaker) speech(i int) *fakeSpeech {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speeches[i]
}

func TestToggleSpeaksAndCancels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pages := &fakePages{page: 3, text: "  Call me Ishmael.  "}
	speaker := &fakeSpeaker{}
	svc := service.NewNarrationService(pages, speaker, "en-gb", 1.25, nil)
	uc := usecase.NewInteractor(svc)

	out, err := uc.Toggle(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !out.Speaking || out.Page != 3 || out.State != "speaking" {
		t.Fatalf("expected speaking page 3, got %+v", out)
	}
	u := speaker.utterances[0]
	if u.Text != "Call me Ishmael." || u.Voice != "en-gb" || u.Rate != 1.25 {
		t.Fatalf("unexpected utterance %+v", u)
	}

	// Turning the page does not move narration along.
	pages.page = 4
	if out := uc.Status(); out.Page != 3 {
		t.Fatalf("narration followed the page turn: %+v", out)
	}

	out, err = uc.Toggle(ctx)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if out.Speaking || !speaker.speech(0).canceled {
		t.Fatalf("expected cancelled speech, got %+v", out)
	}
	svc.Wait()
	if uc.Status().Speaking {
		t.Fatalf("cancelled speech must stay idle")
	}
}

func TestStaleCompletionIsIgnored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	speaker := &fakeSpeaker{}
	svc := service.NewNarrationService(&fakePages{page: 1, text: "one"}, speaker, "en", 1, nil)
	uc := usecase.NewInteractor(svc)

	if _, err := uc.Toggle(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	first := speaker.speech(0)
	uc.Stop(ctx)
	if !first.canceled {
		t.Fatalf("stop did not cancel the speech")
	}
	if _, err := uc.Toggle(ctx); err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	// The cancelled speech completes after the new one has started.
	<-uc.Completed()
	if !uc.Status().Speaking {
		t.Fatalf("stale completion ended the new narration")
	}

	speaker.speech(1).finish(errors.New("audio device lost"))
	<-uc.Completed()
	if uc.Status().Speaking {
		t.Fatalf("completion must return to idle")
	}
	svc.Wait()
}

func TestToggleStaysIdle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	speaker := &fakeSpeaker{}
	uc := usecase.NewInteractor(service.NewNarrationService(&fakePages{page: 2, text: " \n\t"}, speaker, "en", 1, nil))
	if out, err := uc.Toggle(ctx); err != nil || out.Speaking {
		t.Fatalf("blank page: %+v %v", out, err)
	}
	if len(speaker.utterances) != 0 {
		t.Fatalf("blank page must not reach the speaker")
	}

	broken := &fakeSpeaker{err: errors.New("espeak-ng not installed")}
	uc = usecase.NewInteractor(service.NewNarrationService(&fakePages{page: 2, text: "words"}, broken, "en", 1, nil))
	if out, err := uc.Toggle(ctx); err != nil || out.Speaking {
		t.Fatalf("speaker failure should be silent: %+v %v", out, err)
	}

	uc = usecase.NewInteractor(service.NewNarrationService(&fakePages{page: 5, err: errors.New("content stream truncated")}, speaker, "en", 1, nil))
	if out, err := uc.Toggle(ctx); err != nil || out.Speaking {
		t.Fatalf("page text failure should be silent: %+v %v", out, err)
	}
	if len(speaker.utterances) != 0 {
		t.Fatalf("unreadable page must not reach the speaker")
	}

	uc = usecase.NewInteractor(service.NewNarrationService(&fakePages{err: apperrors.ErrNoOpenDocument}, speaker, "en", 1, nil))
	if _, err := uc.Toggle(ctx); !errors.Is(err, apperrors.ErrNoOpenDocument) {
		t.Fatalf("expected no open document, got %v", err)
	}
}

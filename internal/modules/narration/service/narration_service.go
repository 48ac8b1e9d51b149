package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"folio/internal/modules/narration/domain"
	narrationout "folio/internal/modules/narration/port/out"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/logging"
)

// NarrationService reads one page aloud at a time. Narration stays on the
// page that was current when it started; turning pages does not follow it.
type NarrationService struct {
	pages   narrationout.PageText
	speaker narrationout.Speaker
	voice   string
	rate    float64
	logger  *slog.Logger

	toggle sync.Mutex

	mu     sync.Mutex
	status domain.Status
	speech narrationout.Speech
	token  uint64

	completed chan struct{}
	wg        sync.WaitGroup
}

func NewNarrationService(pages narrationout.PageText, speaker narrationout.Speaker, voice string, rate float64, logger *slog.Logger) *NarrationService {
	if rate <= 0 {
		rate = 1
	}
	return &NarrationService{
		pages:     pages,
		speaker:   speaker,
		voice:     voice,
		rate:      rate,
		logger:    logging.For(logger, "narration"),
		completed: make(chan struct{}, 16),
	}
}

// Toggle cancels speech in progress, or starts speaking the current page.
// A page without text leaves narration idle. Page text and speaker failures
// are logged and also leave it idle; only a missing document is returned.
func (s *NarrationService) Toggle(ctx context.Context) (domain.Status, error) {
	s.toggle.Lock()
	defer s.toggle.Unlock()

	if status := s.Status(); status.State == domain.StateSpeaking {
		return s.Stop(), nil
	}

	page, text, err := s.pages.CurrentPageText(ctx)
	if errors.Is(err, apperrors.ErrNoOpenDocument) {
		return s.Status(), err
	}
	if err != nil {
		s.logger.Warn("read page text", slog.Int("page", page), slog.Any("err", err))
		return s.Status(), nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return s.Status(), nil
	}
	speech, err := s.speaker.Speak(ctx, narrationout.Utterance{Text: text, Voice: s.voice, Rate: s.rate})
	if err != nil {
		s.logger.Warn("start narration", slog.Int("page", page), slog.Any("err", err))
		return s.Status(), nil
	}

	s.mu.Lock()
	s.token++
	token := s.token
	s.status = s.status.Next(domain.Event{Kind: domain.EventSpeak, Token: token, Page: page})
	s.speech = speech
	status := s.status
	s.mu.Unlock()

	s.wg.Add(1)
	go s.await(speech, token, page)
	return status, nil
}

func (s *NarrationService) await(speech narrationout.Speech, token uint64, page int) {
	defer s.wg.Done()
	if err := speech.Wait(); err != nil {
		s.logger.Warn("narration ended with error", slog.Int("page", page), slog.Any("err", err))
	}
	s.mu.Lock()
	s.status = s.status.Next(domain.Event{Kind: domain.EventDone, Token: token})
	if s.status.Token == token && s.status.State == domain.StateIdle {
		s.speech = nil
	}
	s.mu.Unlock()
	select {
	case s.completed <- struct{}{}:
	default:
	}
}

// Completed signals after each speech has ended and its completion has been
// applied, stale or not. Signals are dropped when nobody keeps up.
func (s *NarrationService) Completed() <-chan struct{} {
	return s.completed
}

// Stop cancels speech in progress. It is a no-op while idle.
func (s *NarrationService) Stop() domain.Status {
	s.mu.Lock()
	speech := s.speech
	s.speech = nil
	s.status = s.status.Next(domain.Event{Kind: domain.EventCancel})
	status := s.status
	s.mu.Unlock()
	if speech != nil {
		speech.Cancel()
	}
	return status
}

func (s *NarrationService) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Wait blocks until every completion callback has run.
func (s *NarrationService) Wait() {
	s.wg.Wait()
}

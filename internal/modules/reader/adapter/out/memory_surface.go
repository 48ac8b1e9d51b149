package out

import (
	"image"
	"sync"

	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
)

// MemorySurface holds the frame a page area currently shows. It is sized by
// the last bitmap presented.
type MemorySurface struct {
	mu     sync.Mutex
	frame  readerout.Frame
	shown  bool
	cached *image.RGBA
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

func (s *MemorySurface) Present(frame readerout.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
	s.shown = frame.Bitmap != nil
	s.cached = nil
}

func (s *MemorySurface) SetFilter(filter domain.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame.Filter != filter {
		s.frame.Filter = filter
		s.cached = nil
	}
}

func (s *MemorySurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = readerout.Frame{}
	s.shown = false
	s.cached = nil
}

func (s *MemorySurface) Snapshot() (int, image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.shown {
		return 0, nil, false
	}
	if s.cached == nil {
		s.cached = s.frame.Filter.Apply(s.frame.Bitmap)
	}
	return s.frame.Page, s.cached, true
}

package service

import (
	"sync"
	"time"

	"folio/internal/modules/session/domain"
	"folio/internal/platform/clock"
	"folio/internal/platform/schedule"
)

// FocusService hides reading chrome after a period without activity. Its
// monitor only runs while a document is open.
type FocusService struct {
	scheduler schedule.Scheduler
	clock     clock.Clock
	idle      time.Duration

	mu     sync.Mutex
	state  domain.Focus
	handle schedule.Handle
}

func NewFocusService(scheduler schedule.Scheduler, clk clock.Clock, idle time.Duration) *FocusService {
	return &FocusService{scheduler: scheduler, clock: clk, idle: idle}
}

func (f *FocusService) DocumentOpened() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.DocumentOpen = true
	f.state.Touch(f.clock.Now())
	if f.handle == nil {
		f.handle = f.scheduler.Every(TickInterval, f.Tick)
	}
}

func (f *FocusService) DocumentClosed() {
	f.mu.Lock()
	handle := f.handle
	f.handle = nil
	f.state.DocumentOpen = false
	f.state.Declutter = false
	f.mu.Unlock()
	if handle != nil {
		handle.Stop()
	}
}

func (f *FocusService) Activity() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Touch(f.clock.Now())
}

func (f *FocusService) SetOverlay(open bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Overlay = open
	f.state.Touch(f.clock.Now())
}

func (f *FocusService) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Evaluate(f.clock.Now(), f.idle)
}

func (f *FocusService) Declutter() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Declutter
}
